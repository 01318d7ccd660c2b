package scoring

// Severity is the discrete risk level of a single finding.
type Severity string

const (
	Low      Severity = "LOW"
	Medium   Severity = "MEDIUM"
	High     Severity = "HIGH"
	Critical Severity = "CRITICAL"
)

// ParseSeverity maps a severity label onto a Severity. Matching is exact and
// case-sensitive; unrecognized labels become Low.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case Low, Medium, High, Critical:
		return Severity(s)
	default:
		return Low
	}
}

// Weight returns the score contribution of the severity.
// LOW=1, MEDIUM=3, HIGH=7, CRITICAL=10.
func (s Severity) Weight() int {
	switch s {
	case Medium:
		return 3
	case High:
		return 7
	case Critical:
		return 10
	default:
		return 1
	}
}

func (s Severity) String() string {
	return string(s)
}
