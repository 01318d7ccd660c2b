package scoring

// Verdict is the final recommendation derived from the aggregate score.
type Verdict string

const (
	SafeToProceed      Verdict = "SAFE TO PROCEED"
	ProceedWithCaution Verdict = "PROCEED WITH CAUTION"
	DoNotSign          Verdict = "DO NOT SIGN"
)

const (
	doNotSignThreshold = 25
	cautionThreshold   = 12
)

// DetermineVerdict applies the decision table in priority order. The first matching
// rule wins.
func DetermineVerdict(totalScore, irreversibleCount, criticalCount int) Verdict {
	switch {
	case criticalCount >= 1 && irreversibleCount >= 1:
		return DoNotSign
	case totalScore >= doNotSignThreshold:
		return DoNotSign
	case totalScore >= cautionThreshold:
		return ProceedWithCaution
	default:
		return SafeToProceed
	}
}

// ParseVerdict reports whether s names a verdict.
func ParseVerdict(s string) (Verdict, bool) {
	switch Verdict(s) {
	case SafeToProceed, ProceedWithCaution, DoNotSign:
		return Verdict(s), true
	default:
		return "", false
	}
}

func (v Verdict) String() string {
	return string(v)
}
