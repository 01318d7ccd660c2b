// Package intent decides what a user is asking for before any text generation runs.
package intent

import (
	"strings"
	"unicode/utf8"
)

type Intent string

const (
	DocumentSummary Intent = "DOCUMENT_SUMMARY"
	RiskAssessment  Intent = "RISK_ASSESSMENT"
	FollowUp        Intent = "FOLLOW_UP"
	GeneralChat     Intent = "GENERAL_CHAT"
)

const (
	minDocumentLength  = 50
	longDocumentLength = 150
)

var (
	documentKeywords = []string{
		"agreement", "offer", "shall", "may", "terms", "conditions",
		"liability", "employment", "internship", "payment",
		"termination", "contract", "policy", "confidentiality",
	}

	followUpTriggers = []string{
		"explain", "clarify", "what does this mean", "why",
		"who are the parties", "when does it end", "benefits", "risks",
	}

	situationTriggers = []string{
		"i want to", "i plan to", "i am planning",
		"i don't have a document", "before i",
		"what should i know", "what documents",
		"requirements", "process",
	}

	summaryTriggers = []string{"what is", "about", "describe", "overview", "summary", "purpose"}
	riskTriggers    = []string{"risk", "safe", "sign", "accept", "danger", "legal", "fair"}
)

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// IsDocumentSufficient reports whether text looks like a document worth analyzing.
func IsDocumentSufficient(text string) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(text))
	if length < minDocumentLength {
		return false
	}
	return containsAny(strings.ToLower(text), documentKeywords) || length > longDocumentLength
}

func IsFollowUp(query string) bool {
	return containsAny(strings.ToLower(query), followUpTriggers)
}

// IsSituationDescription detects a user describing a real-world plan without a document.
func IsSituationDescription(query string) bool {
	return containsAny(strings.ToLower(query), situationTriggers)
}

// Classify maps a query to an intent. Risk assessment is the fallback whenever a
// document is present.
func Classify(query string, hasDocument bool) Intent {
	if !hasDocument {
		return GeneralChat
	}

	if IsFollowUp(query) {
		return FollowUp
	}

	q := strings.ToLower(strings.TrimSpace(query))
	isSummary := containsAny(q, summaryTriggers)
	isRisk := containsAny(q, riskTriggers)

	if isSummary && !isRisk {
		return DocumentSummary
	}
	return RiskAssessment
}
