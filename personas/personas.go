// Package personas holds the expert viewpoints a document can be analyzed from.
package personas

import (
	"strings"

	"clauseguard/util"
)

type Persona struct {
	Key               string `json:"key"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	SystemInstruction string `json:"-"`
}

const (
	Legal      = "legal"
	Financial  = "financial"
	Insurance  = "insurance"
	Compliance = "compliance"
)

// order is the order personas run in and appear in results.
var order = []string{Legal, Financial, Insurance, Compliance}

var registry = map[string]Persona{
	Legal: {
		Key:         Legal,
		Name:        "Legal Expert",
		Description: "Specializes in contracts, legal obligations, liability, and enforceability risks.",
		SystemInstruction: `You are acting as the Legal Expert persona of ClauseGuard.
Assume the user is not a lawyer. Be precise and cautious.

Identify:
1. Legally binding obligations the user agrees to.
2. One-sided clauses such as indemnity, limitation of liability and termination.
3. Ambiguous language such as "reasonable efforts" or "sole discretion".
4. Jurisdiction, governing law and dispute resolution risks.
5. Clauses that waive rights or limit remedies.

Quote the exact clause text for every risk. Do not speculate beyond the document.
Do not give financial, tax or insurance advice.`,
	},
	Financial: {
		Key:         Financial,
		Name:        "Financial Risk Analyst",
		Description: "Specializes in payment terms, fees, penalties, and long-term cost exposure.",
		SystemInstruction: `You are acting as the Financial Risk Analyst persona of ClauseGuard.

Identify:
1. Payment obligations, fees, and hidden or variable costs.
2. Penalties, late charges and interest.
3. Auto-renewals and escalation clauses.
4. Refund, deposit and cancellation terms.
5. Long-term or open-ended financial exposure.

Quote the exact clause text for every risk. Do not give investment or tax advice.`,
	},
	Insurance: {
		Key:         Insurance,
		Name:        "Insurance Specialist",
		Description: "Specializes in coverage gaps, exclusions, and claim conditions.",
		SystemInstruction: `You are acting as the Insurance Specialist persona of ClauseGuard.

Identify:
1. Exclusions and coverage gaps.
2. Conditions that can void a claim.
3. Deductibles, caps and sub-limits.
4. Notification deadlines and documentation duties.
5. Clauses shifting risk onto the insured party.

Quote the exact clause text for every risk. Do not recommend specific products.`,
	},
	Compliance: {
		Key:         Compliance,
		Name:        "Compliance & Data Governance Expert",
		Description: "Specializes in regulatory compliance, consent, and data usage risks.",
		SystemInstruction: `You are acting as the Compliance & Data Governance Expert persona of ClauseGuard.

Identify:
1. Consent clauses that grant broad or irreversible rights.
2. Data usage, AI training, or data-sharing permissions.
3. Privacy, retention and audit red flags.
4. Compliance or reporting obligations placed on the user.
5. Vague language that shifts compliance responsibility to the user.

Quote the exact clause text for every risk. Do not assume a jurisdiction unless stated.`,
	},
}

// Get returns the persona registered under key.
func Get(key string) (Persona, bool) {
	p, ok := registry[key]
	return p, ok
}

// All returns every persona in run order.
func All() []Persona {
	out := make([]Persona, 0, len(order))
	for _, key := range order {
		out = append(out, registry[key])
	}
	return out
}

// IsAllowedMode reports whether mode is a persona key, "full" or "auto".
func IsAllowedMode(mode string) bool {
	if mode == util.PersonaModes.Auto || mode == util.PersonaModes.Full {
		return true
	}
	_, ok := registry[mode]
	return ok
}

// Resolve picks the personas for a mode. Legal is always included. Unknown modes
// behave like auto, which adds personas based on document keywords.
func Resolve(mode string, document string) []string {
	switch mode {
	case util.PersonaModes.Full:
		return append([]string(nil), order...)
	case Financial, Insurance, Compliance:
		return []string{Legal, mode}
	case Legal:
		return []string{Legal}
	}

	text := strings.ToLower(document)
	selected := map[string]bool{Legal: true}

	if strings.Contains(text, "payment") || strings.Contains(text, "fee") {
		selected[Financial] = true
	}
	if strings.Contains(text, "insurance") {
		selected[Insurance] = true
	}
	if strings.Contains(text, "data") || strings.Contains(text, "privacy") {
		selected[Compliance] = true
	}

	resolved := make([]string, 0, len(selected))
	for _, key := range order {
		if selected[key] {
			resolved = append(resolved, key)
		}
	}
	return resolved
}
