package scoring

import (
	"sort"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
)

const (
	// CertificateIssued and CertificateNotIssued are the two values of
	// the certificate_status field on a finalized result.
	CertificateIssued    = "issued"
	CertificateNotIssued = "not_issued"
)

// Scorer composes the classifier and the ledger into the session-facing
// scoring surface: reset at session start, process per observation,
// finalize at submission. One Scorer per active session.
type Scorer struct {
	rules  Rules
	ledger *Ledger
}

// NewScorer returns a ready scorer with a fresh ledger.
func NewScorer(rules Rules) *Scorer {
	return &Scorer{
		rules:  rules,
		ledger: NewLedger(rules),
	}
}

// Reset discards all accumulated violations and restores the score to
// BaseScore. Called once when a proctoring session begins.
func (s *Scorer) Reset() {
	s.ledger = NewLedger(s.rules)
}

// ProcessVideo classifies one video analysis result and runs every
// resulting candidate through the ledger in classifier order.
func (s *Scorer) ProcessVideo(r violation.VideoResult, now time.Time) []violation.Record {
	return s.apply(violation.ClassifyVideo(r), now)
}

// ProcessAudio classifies one audio analysis result and runs every
// resulting candidate through the ledger in classifier order.
func (s *Scorer) ProcessAudio(r violation.AudioResult, now time.Time) []violation.Record {
	return s.apply(violation.ClassifyAudio(r), now)
}

// ProcessTabSwitch records a browser tab-switch event.
func (s *Scorer) ProcessTabSwitch(now time.Time) violation.Record {
	c := violation.TabSwitchCandidate()
	return s.ledger.AddViolation(c.Type, c.Severity, c.Context, now)
}

func (s *Scorer) apply(candidates []violation.Candidate, now time.Time) []violation.Record {
	records := make([]violation.Record, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, s.ledger.AddViolation(c.Type, c.Severity, c.Context, now))
	}
	return records
}

// CurrentScore returns the live behavior score.
func (s *Scorer) CurrentScore() int {
	return s.ledger.Score()
}

// Records returns the chronological violation records for the session.
func (s *Scorer) Records() []violation.Record {
	return s.ledger.Records()
}

// Summary aggregates the session's violations.
type Summary struct {
	TotalViolations  int                                   `json:"total_violations"`
	ViolationCounts  map[violation.Type]int                `json:"violation_counts"`
	CurrentScore     int                                   `json:"current_score"`
	ScoreDeduction   int                                   `json:"score_deduction"`
	ViolationsByType map[violation.Type][]violation.Record `json:"violations_by_type"`
}

// Summary returns the current violation summary. Live read, no side
// effects.
func (s *Scorer) Summary() Summary {
	records := s.ledger.Records()

	byType := make(map[violation.Type][]violation.Record)
	for _, r := range records {
		byType[r.Type] = append(byType[r.Type], r)
	}

	return Summary{
		TotalViolations:  len(records),
		ViolationCounts:  s.ledger.Counts(),
		CurrentScore:     s.ledger.Score(),
		ScoreDeduction:   BaseScore - s.ledger.Score(),
		ViolationsByType: byType,
	}
}

// Breakdown itemizes the weighted contributions to a final score.
type Breakdown struct {
	BehaviorContribution float64 `json:"behavior_contribution"`
	TestContribution     float64 `json:"test_contribution"`
}

// FinalResult is the certification decision for one submission.
type FinalResult struct {
	BehaviorScore       float64   `json:"behavior_score"`
	TestScore           float64   `json:"test_score"`
	FinalScore          float64   `json:"final_score"`
	CertificateEligible bool      `json:"certificate_eligible"`
	CertificateStatus   string    `json:"certificate_status"`
	ScoreBreakdown      Breakdown `json:"score_breakdown"`
	ViolationSummary    Summary   `json:"violation_summary"`
}

// Finalize combines the behavior score with the externally measured
// test score into the certification decision. Both inputs clamp to
// [0,100]. Pure projection of current state: it never mutates the
// session and repeated calls yield identical results.
func (s *Scorer) Finalize(testScore float64) FinalResult {
	behavior := clamp(float64(s.ledger.Score()))
	test := clamp(testScore)

	final := s.rules.BehaviorWeight*behavior + s.rules.TestWeight*test
	eligible := final >= s.rules.EligibilityThreshold

	status := CertificateNotIssued
	if eligible {
		status = CertificateIssued
	}

	return FinalResult{
		BehaviorScore:       behavior,
		TestScore:           test,
		FinalScore:          final,
		CertificateEligible: eligible,
		CertificateStatus:   status,
		ScoreBreakdown: Breakdown{
			BehaviorContribution: s.rules.BehaviorWeight * behavior,
			TestContribution:     s.rules.TestWeight * test,
		},
		ViolationSummary: s.Summary(),
	}
}

// TimelineEntry is one point in the chronological violation timeline.
type TimelineEntry struct {
	Timestamp      time.Time          `json:"timestamp"`
	Type           violation.Type     `json:"type"`
	Severity       violation.Severity `json:"severity"`
	PenaltyApplied bool               `json:"penalty_applied"`
}

// Report is the detailed violation report returned with a submission.
type Report struct {
	SessionSummary       Summary                                   `json:"session_summary"`
	AllViolations        []violation.Record                        `json:"all_violations"`
	ViolationsBySeverity map[violation.Severity][]violation.Record `json:"violations_by_severity"`
	Timeline             []TimelineEntry                           `json:"timeline"`
}

// DetailedReport builds the full per-session report: summary, every
// record, severity grouping, and a time-ordered timeline.
func (s *Scorer) DetailedReport() Report {
	records := s.ledger.Records()

	bySeverity := make(map[violation.Severity][]violation.Record)
	timeline := make([]TimelineEntry, 0, len(records))
	for _, r := range records {
		bySeverity[r.Severity] = append(bySeverity[r.Severity], r)
		timeline = append(timeline, TimelineEntry{
			Timestamp:      r.Timestamp,
			Type:           r.Type,
			Severity:       r.Severity,
			PenaltyApplied: r.PenaltyApplied,
		})
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp.Before(timeline[j].Timestamp)
	})

	return Report{
		SessionSummary:       s.Summary(),
		AllViolations:        records,
		ViolationsBySeverity: bySeverity,
		Timeline:             timeline,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
