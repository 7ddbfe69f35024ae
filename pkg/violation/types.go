package violation

import (
	"time"
)

// Type identifies a proctoring violation category.
type Type string

const (
	TypeFaceAbsent     Type = "face_absent"
	TypeMultipleFaces  Type = "multiple_faces"
	TypeNoiseDetected  Type = "noise_detected"
	TypeSpeechDetected Type = "speech_detected"
	TypeTabSwitch      Type = "tab_switch"
	TypeHeadTurn       Type = "head_turn"
)

// Types lists all known violation types.
var Types = []Type{
	TypeFaceAbsent,
	TypeMultipleFaces,
	TypeNoiseDetected,
	TypeSpeechDetected,
	TypeTabSwitch,
	TypeHeadTurn,
}

// Severity is an informational tag on a violation record.
// It does not affect the scoring math.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Record is a single logged detection. One record is created per raw
// detection, whether or not a penalty was applied.
type Record struct {
	Type            Type                   `json:"type"`
	Timestamp       time.Time              `json:"timestamp"`
	Severity        Severity               `json:"severity"`
	OccurrenceCount int                    `json:"count"`
	PenaltyApplied  bool                   `json:"penalty_applied"`
	PenaltyAmount   int                    `json:"penalty_amount,omitempty"`
	Context         map[string]interface{} `json:"context,omitempty"`
}
