// Package scoring turns externally produced risk records into an aggregate risk
// posture and a verdict.
//
// Records come from untrusted upstream analysis, so every field lookup falls back to
// a safe default instead of failing. Score never returns an error and never mutates
// its input, which makes it safe to call concurrently on shared records.
package scoring

import (
	"strconv"

	"clauseguard/util"

	"github.com/shopspring/decimal"
)

// Record is a single risk finding. Only severity and irreversible are interpreted;
// all other keys pass through unchanged.
type Record map[string]interface{}

// Severity returns the normalized severity of the record. Missing and non-string
// values read as LOW.
func (r Record) Severity() Severity {
	return ParseSeverity(util.StringFieldOr(r, util.Fields.Severity, string(Low)))
}

// Irreversible reports whether the record is flagged with a boolean true.
func (r Record) Irreversible() bool {
	return util.IsTrue(r, util.Fields.Irreversible)
}

// withScore copies the record and adds the score field.
func (r Record) withScore(weight int) Record {
	scored := make(Record, len(r)+1)
	for k, v := range r {
		scored[k] = v
	}
	scored[util.Fields.Score] = weight
	return scored
}

type AggregateResult struct {
	TotalRiskScore       int      `json:"total_risk_score"`
	IrreversibilityIndex float64  `json:"irreversibility_index"`
	IrreversibleRisks    int      `json:"irreversible_risks"`
	CriticalRisks        int      `json:"critical_risks"`
	Verdict              Verdict  `json:"verdict"`
	ScoredRisks          []Record `json:"scored_risks"`
}

// Score weighs every record, counts irreversible and critical findings and applies
// the verdict policy. ScoredRisks keeps the input order.
func Score(records []Record) AggregateResult {
	var totalScore, irreversibleCount, criticalCount int
	scored := make([]Record, 0, len(records))

	for _, record := range records {
		severity := record.Severity()
		weight := severity.Weight()

		totalScore += weight

		if record.Irreversible() {
			irreversibleCount++
		}

		if severity == Critical {
			criticalCount++
		}

		scored = append(scored, record.withScore(weight))
	}

	return AggregateResult{
		TotalRiskScore:       totalScore,
		IrreversibilityIndex: irreversibilityIndex(irreversibleCount, len(records)),
		IrreversibleRisks:    irreversibleCount,
		CriticalRisks:        criticalCount,
		Verdict:              DetermineVerdict(totalScore, irreversibleCount, criticalCount),
		ScoredRisks:          scored,
	}
}

// irreversibilityIndex is irreversible/max(total, 1) rounded to two decimals. The
// float64 quotient is rounded on its exact binary value, so 1/40 is 0.03 and 3/200
// is 0.01.
func irreversibilityIndex(irreversible, total int) float64 {
	if total < 1 {
		total = 1
	}
	ratio := float64(irreversible) / float64(total)
	return decimal.RequireFromString(strconv.FormatFloat(ratio, 'f', 2, 64)).InexactFloat64()
}
