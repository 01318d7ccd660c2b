package util

import (
	"testing"
)

func TestGetStringField(t *testing.T) {
	m := map[string]interface{}{"severity": "HIGH", "irreversible": true}

	val, err := GetStringField(m, "severity")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "HIGH" {
		t.Errorf("expected HIGH, got %s", val)
	}

	if _, err := GetStringField(m, "irreversible"); err == nil {
		t.Errorf("expected error for non-string value")
	}
	if _, err := GetStringField(m, "clause"); err == nil {
		t.Errorf("expected error for missing key")
	}
}

func TestStringFieldOr(t *testing.T) {
	m := map[string]interface{}{"severity": 10}

	if got := StringFieldOr(m, "severity", "LOW"); got != "LOW" {
		t.Errorf("expected fallback LOW, got %s", got)
	}
	if got := StringFieldOr(nil, "severity", "LOW"); got != "LOW" {
		t.Errorf("expected fallback LOW for nil map, got %s", got)
	}
}

func TestIsTrue(t *testing.T) {
	cases := map[string]struct {
		value    interface{}
		expected bool
	}{
		"bool true":   {true, true},
		"bool false":  {false, false},
		"string true": {"true", false},
		"number":      {1, false},
		"nil":         {nil, false},
	}

	for name, c := range cases {
		m := map[string]interface{}{"irreversible": c.value}
		if got := IsTrue(m, "irreversible"); got != c.expected {
			t.Errorf("%s: expected %v, got %v", name, c.expected, got)
		}
	}

	if IsTrue(map[string]interface{}{}, "irreversible") {
		t.Errorf("expected false for missing key")
	}
}

func TestCollectRisks(t *testing.T) {
	results := make(chan PassResult, 3)
	errText := "deadline exceeded"

	results <- PassResult{Index: 2, Persona: "compliance", Risks: []map[string]interface{}{{"clause": "c"}}}
	results <- PassResult{Index: 0, Persona: "legal", Risks: []map[string]interface{}{{"clause": "a"}, {"clause": "b"}}}
	results <- PassResult{Index: 1, Persona: "financial", Risks: []map[string]interface{}{{"clause": "x"}}, Err: &errText}
	close(results)

	risks, passes := CollectRisks(results)

	if len(passes) != 3 {
		t.Fatalf("expected 3 passes, got %d", len(passes))
	}
	if passes[0].Persona != "legal" || passes[2].Persona != "compliance" {
		t.Errorf("passes not in persona order: %+v", passes)
	}
	if len(risks) != 3 {
		t.Fatalf("expected 3 risks, got %d", len(risks))
	}
	for i, want := range []string{"a", "b", "c"} {
		if risks[i]["clause"] != want {
			t.Errorf("risk %d: expected %s, got %v", i, want, risks[i]["clause"])
		}
	}
}

func TestCollectRisksEmpty(t *testing.T) {
	results := make(chan PassResult)
	close(results)

	risks, passes := CollectRisks(results)
	if risks == nil || len(risks) != 0 {
		t.Errorf("expected empty non-nil risks, got %v", risks)
	}
	if len(passes) != 0 {
		t.Errorf("expected no passes, got %d", len(passes))
	}
}
