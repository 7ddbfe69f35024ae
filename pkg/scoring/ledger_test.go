package scoring

import (
	"testing"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime(secs float64) time.Time {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(secs * float64(time.Second)))
}

func TestLedger_StartsAtBaseScore(t *testing.T) {
	l := NewLedger(DefaultRules())
	assert.Equal(t, BaseScore, l.Score())
	assert.Empty(t, l.Records())
}

func TestLedger_RecordsEveryCall(t *testing.T) {
	l := NewLedger(DefaultRules())

	// head_turn threshold is 3: the first two are near-misses but are
	// still recorded.
	r1 := l.AddViolation(violation.TypeHeadTurn, violation.SeverityMedium, nil, testTime(0))
	r2 := l.AddViolation(violation.TypeHeadTurn, violation.SeverityMedium, nil, testTime(1))

	assert.False(t, r1.PenaltyApplied)
	assert.False(t, r2.PenaltyApplied)
	assert.Equal(t, 1, r1.OccurrenceCount)
	assert.Equal(t, 2, r2.OccurrenceCount)
	assert.Len(t, l.Records(), 2)
	assert.Equal(t, BaseScore, l.Score())
}

func TestLedger_PenaltyAtThreshold(t *testing.T) {
	rules := DefaultRules()
	rules.Violations[violation.TypeNoiseDetected] = Rule{Penalty: 3, Threshold: 5}
	l := NewLedger(rules)

	for i := 0; i < 4; i++ {
		rec := l.AddViolation(violation.TypeNoiseDetected, violation.SeverityMedium, nil, testTime(float64(i)))
		assert.False(t, rec.PenaltyApplied)
	}

	rec := l.AddViolation(violation.TypeNoiseDetected, violation.SeverityMedium, nil, testTime(4))
	assert.True(t, rec.PenaltyApplied)
	assert.Equal(t, 3, rec.PenaltyAmount)
	assert.Equal(t, 5, rec.OccurrenceCount)
	assert.Equal(t, 97, l.Score())

	// Counter resets after the penalty.
	assert.Equal(t, 0, l.Counts()[violation.TypeNoiseDetected])
}

func TestLedger_CooldownSuppressesPenalty(t *testing.T) {
	// tab_switch has threshold 1, penalty 5: immediate on first call,
	// suppressed 3 seconds later, firing again past the 5s window.
	l := NewLedger(DefaultRules())

	r1 := l.AddViolation(violation.TypeTabSwitch, violation.SeverityHigh, nil, testTime(0))
	assert.True(t, r1.PenaltyApplied)
	assert.Equal(t, 95, l.Score())

	r2 := l.AddViolation(violation.TypeTabSwitch, violation.SeverityHigh, nil, testTime(3))
	assert.False(t, r2.PenaltyApplied)
	assert.Equal(t, 95, l.Score())

	r3 := l.AddViolation(violation.TypeTabSwitch, violation.SeverityHigh, nil, testTime(9))
	assert.True(t, r3.PenaltyApplied)
	assert.Equal(t, 90, l.Score())

	assert.Len(t, l.Records(), 3)
}

func TestLedger_CooldownBoundaryIsExclusive(t *testing.T) {
	// Exactly 5.0s since the last penalty is still inside the window.
	l := NewLedger(DefaultRules())

	l.AddViolation(violation.TypeTabSwitch, violation.SeverityHigh, nil, testTime(0))
	rec := l.AddViolation(violation.TypeTabSwitch, violation.SeverityHigh, nil, testTime(5))
	assert.False(t, rec.PenaltyApplied)
}

func TestLedger_CounterRestartsAfterPenalty(t *testing.T) {
	rules := DefaultRules()
	rules.Violations[violation.TypeHeadTurn] = Rule{Penalty: 3, Threshold: 2}
	l := NewLedger(rules)

	l.AddViolation(violation.TypeHeadTurn, violation.SeverityMedium, nil, testTime(0))
	rec := l.AddViolation(violation.TypeHeadTurn, violation.SeverityMedium, nil, testTime(1))
	require.True(t, rec.PenaltyApplied)

	// Next occurrence starts counting from 1 again.
	rec = l.AddViolation(violation.TypeHeadTurn, violation.SeverityMedium, nil, testTime(2))
	assert.Equal(t, 1, rec.OccurrenceCount)
	assert.False(t, rec.PenaltyApplied)
}

func TestLedger_ScoreNeverNegative(t *testing.T) {
	rules := DefaultRules()
	rules.Violations[violation.TypeMultipleFaces] = Rule{Penalty: 40, Threshold: 1}
	l := NewLedger(rules)

	for i := 0; i < 5; i++ {
		l.AddViolation(violation.TypeMultipleFaces, violation.SeverityCritical, nil, testTime(float64(i*10)))
		score := l.Score()
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}

	assert.Equal(t, 0, l.Score())
}

func TestLedger_UnknownTypeDeductsNothing(t *testing.T) {
	l := NewLedger(DefaultRules())

	rec := l.AddViolation(violation.Type("unheard_of"), violation.SeverityLow, nil, testTime(0))
	assert.True(t, rec.PenaltyApplied)
	assert.Equal(t, 0, rec.PenaltyAmount)
	assert.Equal(t, BaseScore, l.Score())
}

func TestLedger_ContextCarriedOnRecord(t *testing.T) {
	l := NewLedger(DefaultRules())

	ctx := map[string]interface{}{"db_level": 80.1}
	rec := l.AddViolation(violation.TypeNoiseDetected, violation.SeverityMedium, ctx, testTime(0))
	assert.Equal(t, 80.1, rec.Context["db_level"])
	assert.Equal(t, violation.SeverityMedium, rec.Severity)
	assert.Equal(t, testTime(0), rec.Timestamp)
}
