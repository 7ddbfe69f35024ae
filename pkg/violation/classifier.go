package violation

// MovementAnalysis carries the head movement portion of a video
// analysis result.
type MovementAnalysis struct {
	HeadTurnDetected bool    `json:"head_turn_detected"`
	MovementScore    float64 `json:"movement_score"`
}

// VideoResult is the structured output of the upstream video analyzer
// for a single frame. FacePresent is a pointer so a result that omits
// the field is treated as "face present" rather than as an absence.
type VideoResult struct {
	FacePresent      *bool            `json:"face_present"`
	FaceCount        int              `json:"face_count"`
	MovementAnalysis MovementAnalysis `json:"movement_analysis"`
}

// NoiseAnalysis carries the noise portion of an audio analysis result.
type NoiseAnalysis struct {
	ThresholdExceeded bool    `json:"threshold_exceeded"`
	DBLevel           float64 `json:"db_level"`
	NoiseLevel        string  `json:"noise_level"`
}

// AudioResult is the structured output of the upstream audio analyzer
// for a single chunk.
type AudioResult struct {
	NoiseAnalysis  NoiseAnalysis `json:"noise_analysis"`
	SpeechDetected bool          `json:"speech_detected"`
	AudioQuality   string        `json:"audio_quality"`
}

// Candidate is a classified violation that has not yet been through the
// ledger. The ledger decides whether it actually penalizes.
type Candidate struct {
	Type     Type
	Severity Severity
	Context  map[string]interface{}
}

// ClassifyVideo maps one video analysis result to candidate violations.
// The checks are independent: a single frame can produce face absence,
// multiple faces, and a head turn at once. Missing fields default to
// their non-violating values, so a partial result yields no candidates
// for the missing checks.
func ClassifyVideo(r VideoResult) []Candidate {
	var candidates []Candidate

	if r.FacePresent != nil && !*r.FacePresent {
		candidates = append(candidates, Candidate{
			Type:     TypeFaceAbsent,
			Severity: SeverityHigh,
			Context:  map[string]interface{}{"face_count": r.FaceCount},
		})
	}

	if r.FaceCount > 1 {
		candidates = append(candidates, Candidate{
			Type:     TypeMultipleFaces,
			Severity: SeverityCritical,
			Context:  map[string]interface{}{"face_count": r.FaceCount},
		})
	}

	if r.MovementAnalysis.HeadTurnDetected {
		candidates = append(candidates, Candidate{
			Type:     TypeHeadTurn,
			Severity: SeverityMedium,
			Context:  map[string]interface{}{"movement_score": r.MovementAnalysis.MovementScore},
		})
	}

	return candidates
}

// ClassifyAudio maps one audio analysis result to candidate violations.
func ClassifyAudio(r AudioResult) []Candidate {
	var candidates []Candidate

	if r.NoiseAnalysis.ThresholdExceeded {
		candidates = append(candidates, Candidate{
			Type:     TypeNoiseDetected,
			Severity: SeverityMedium,
			Context: map[string]interface{}{
				"db_level":    r.NoiseAnalysis.DBLevel,
				"noise_level": orUnknown(r.NoiseAnalysis.NoiseLevel),
			},
		})
	}

	if r.SpeechDetected {
		candidates = append(candidates, Candidate{
			Type:     TypeSpeechDetected,
			Severity: SeverityMedium,
			Context:  map[string]interface{}{"audio_quality": orUnknown(r.AudioQuality)},
		})
	}

	return candidates
}

// TabSwitchCandidate returns the single candidate produced by a browser
// tab-switch event. There is no upstream analysis for these.
func TabSwitchCandidate() Candidate {
	return Candidate{
		Type:     TypeTabSwitch,
		Severity: SeverityHigh,
		Context:  map[string]interface{}{"immediate": true},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
