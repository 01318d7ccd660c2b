package services

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"clauseguard/guardian"
	"clauseguard/scoring"

	"github.com/nats-io/nats.go"
)

func TestNewVerdictAlert(t *testing.T) {
	result := scoring.Score([]scoring.Record{{"severity": "CRITICAL", "irreversible": true}})
	response := guardian.Response{ID: "abc", PersonasUsed: []string{"legal"}, RiskAnalysis: &result}

	alert, err := NewVerdictAlert(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert.Verdict != scoring.DoNotSign {
		t.Errorf("expected verdict %s, got %s", scoring.DoNotSign, alert.Verdict)
	}
	if alert.TotalRiskScore != 10 || alert.CriticalRisks != 1 || alert.IrreversibleRisks != 1 {
		t.Errorf("unexpected alert counts: %+v", alert)
	}

	if _, err := NewVerdictAlert(guardian.Response{ID: "no-result"}); err == nil {
		t.Errorf("expected error for response without risk analysis")
	}
}

func TestVerdictPublisher(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}

	conn, err := nats.Connect(url)
	if err != nil {
		t.Skipf("nats unavailable: %v", err)
	}
	defer conn.Close()

	sub, err := conn.SubscribeSync("verdicts.test")
	if err != nil {
		t.Fatalf("unexpected error subscribing: %v", err)
	}

	result := scoring.Score([]scoring.Record{{"severity": "CRITICAL", "irreversible": true}})
	publisher := NewVerdictPublisher(conn, "verdicts.test")
	if err := publisher.Publish(context.Background(), guardian.Response{ID: "pub", RiskAnalysis: &result}); err != nil {
		t.Fatalf("unexpected error publishing: %v", err)
	}

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("expected a message: %v", err)
	}

	var alert VerdictAlert
	if err := json.Unmarshal(msg.Data, &alert); err != nil {
		t.Fatalf("unexpected error decoding alert: %v", err)
	}
	if alert.ID != "pub" || alert.Verdict != scoring.DoNotSign {
		t.Errorf("unexpected alert: %+v", alert)
	}
}
