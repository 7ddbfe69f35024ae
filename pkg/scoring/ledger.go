package scoring

import (
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
	log "github.com/sirupsen/logrus"
)

// Ledger owns the mutable scoring state of one session: the running
// score, per-type consecutive-detection counters, per-type cooldown
// stamps, and the append-only record list. It is not safe for
// concurrent use; callers serialize access per session.
type Ledger struct {
	rules       Rules
	score       int
	counts      map[violation.Type]int
	lastPenalty map[violation.Type]time.Time
	records     []violation.Record
}

// NewLedger returns a fresh ledger with the score at BaseScore.
func NewLedger(rules Rules) *Ledger {
	return &Ledger{
		rules:       rules,
		score:       BaseScore,
		counts:      make(map[violation.Type]int),
		lastPenalty: make(map[violation.Type]time.Time),
		records:     nil,
	}
}

// AddViolation records one raw detection of the given type and applies
// a penalty when the type's threshold is reached outside its cooldown
// window. The counter increments on every call; a penalty resets it to
// zero and stamps the cooldown. The returned record reports the counter
// value before any reset.
func (l *Ledger) AddViolation(t violation.Type, sev violation.Severity, ctx map[string]interface{}, now time.Time) violation.Record {
	l.counts[t]++

	rule := l.rules.rule(t)

	last, seen := l.lastPenalty[t]
	shouldPenalize := !seen || now.Sub(last) > l.rules.Cooldown

	rec := violation.Record{
		Type:            t,
		Timestamp:       now,
		Severity:        sev,
		OccurrenceCount: l.counts[t],
		Context:         ctx,
	}

	if l.counts[t] >= rule.Threshold && shouldPenalize {
		l.score -= rule.Penalty
		if l.score < 0 {
			l.score = 0
		}
		rec.PenaltyApplied = true
		rec.PenaltyAmount = rule.Penalty

		l.counts[t] = 0
		l.lastPenalty[t] = now

		log.Warnf("violation penalty applied: %s (-%d points, score %d)", t, rule.Penalty, l.score)
	}

	l.records = append(l.records, rec)

	return rec
}

// Score returns the current behavior score, always within [0,100].
func (l *Ledger) Score() int {
	return l.score
}

// Records returns the chronological violation records for the session.
func (l *Ledger) Records() []violation.Record {
	return l.records
}

// Counts returns a copy of the running per-type counters.
func (l *Ledger) Counts() map[violation.Type]int {
	out := make(map[violation.Type]int, len(violation.Types))
	for _, t := range violation.Types {
		out[t] = l.counts[t]
	}
	return out
}
