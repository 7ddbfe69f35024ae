package scoring

import (
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
)

const (
	// BaseScore is the behavior score every session starts from.
	BaseScore = 100

	cooldownDefault             = 5 * time.Second
	behaviorWeightDefault       = 0.4
	testWeightDefault           = 0.6
	eligibilityThresholdDefault = 85.0
)

// Rule holds the static scoring parameters for one violation type:
// the points deducted when it fires and the consecutive-detection
// count required before it may fire.
type Rule struct {
	Penalty   int
	Threshold int
}

// Rules is the full scoring configuration for a session. It is fixed
// at scorer construction, per test difficulty or deployment.
type Rules struct {
	Violations           map[violation.Type]Rule
	Cooldown             time.Duration
	BehaviorWeight       float64
	TestWeight           float64
	EligibilityThreshold float64
}

// DefaultRules returns the standard scoring table.
func DefaultRules() Rules {
	return Rules{
		Violations: map[violation.Type]Rule{
			violation.TypeFaceAbsent:     {Penalty: 5, Threshold: 3},
			violation.TypeMultipleFaces:  {Penalty: 10, Threshold: 5},
			violation.TypeNoiseDetected:  {Penalty: 3, Threshold: 3},
			violation.TypeSpeechDetected: {Penalty: 5, Threshold: 10},
			violation.TypeTabSwitch:      {Penalty: 5, Threshold: 1},
			violation.TypeHeadTurn:       {Penalty: 3, Threshold: 3},
		},
		Cooldown:             cooldownDefault,
		BehaviorWeight:       behaviorWeightDefault,
		TestWeight:           testWeightDefault,
		EligibilityThreshold: eligibilityThresholdDefault,
	}
}

// rule looks up the parameters for a type. Unknown types still count
// and record but deduct nothing.
func (r Rules) rule(t violation.Type) Rule {
	if v, ok := r.Violations[t]; ok {
		return v
	}
	return Rule{Penalty: 0, Threshold: 1}
}
