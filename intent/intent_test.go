package intent_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"clauseguard/intent"
)

func TestIsDocumentSufficient(t *testing.T) {
	assert.False(t, intent.IsDocumentSufficient(""))
	assert.False(t, intent.IsDocumentSufficient("   short agreement   "))
	assert.True(t, intent.IsDocumentSufficient("This Agreement is entered into by the parties named below."))
	assert.False(t, intent.IsDocumentSufficient(strings.Repeat("z", 120)))
	assert.True(t, intent.IsDocumentSufficient(strings.Repeat("z", 151)))
}

func TestIsDocumentSufficientCountsCharacters(t *testing.T) {
	// 60 characters but 180 bytes
	assert.False(t, intent.IsDocumentSufficient(strings.Repeat("क", 60)))
	assert.False(t, intent.IsDocumentSufficient(strings.Repeat("क", 40)+" shall"))
	assert.True(t, intent.IsDocumentSufficient(strings.Repeat("क", 151)))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		hasDoc   bool
		expected intent.Intent
	}{
		{"no document is chat", "is this risky?", false, intent.GeneralChat},
		{"follow up", "Can you explain clause 4?", true, intent.FollowUp},
		{"summary", "What is this document about?", true, intent.DocumentSummary},
		{"summary with risk word", "Give me an overview of the risks", true, intent.FollowUp},
		{"risk", "Is it safe to sign?", true, intent.RiskAssessment},
		{"summary and risk", "describe whether it is safe", true, intent.RiskAssessment},
		{"default", "hello", true, intent.RiskAssessment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, intent.Classify(tt.query, tt.hasDoc))
		})
	}
}

func TestIsSituationDescription(t *testing.T) {
	assert.True(t, intent.IsSituationDescription("I plan to rent an apartment next month"))
	assert.True(t, intent.IsSituationDescription("What documents do I need?"))
	assert.False(t, intent.IsSituationDescription("hello there"))
}
