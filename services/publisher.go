package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clauseguard/guardian"
	"clauseguard/scoring"

	"github.com/nats-io/nats.go"
)

// VerdictAlert is the message published for an analysis whose verdict needs attention.
type VerdictAlert struct {
	ID                   string          `json:"id"`
	Verdict              scoring.Verdict `json:"verdict"`
	TotalRiskScore       int             `json:"total_risk_score"`
	IrreversibilityIndex float64         `json:"irreversibility_index"`
	CriticalRisks        int             `json:"critical_risks"`
	IrreversibleRisks    int             `json:"irreversible_risks"`
	Personas             []string        `json:"personas"`
	CreatedAt            time.Time       `json:"created_at"`
}

type VerdictPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewVerdictPublisher(conn *nats.Conn, subject string) *VerdictPublisher {
	return &VerdictPublisher{conn: conn, subject: subject}
}

func NewVerdictAlert(response guardian.Response) (VerdictAlert, error) {
	if response.RiskAnalysis == nil {
		return VerdictAlert{}, errors.New("analysis has no risk result")
	}
	result := response.RiskAnalysis
	return VerdictAlert{
		ID:                   response.ID,
		Verdict:              result.Verdict,
		TotalRiskScore:       result.TotalRiskScore,
		IrreversibilityIndex: result.IrreversibilityIndex,
		CriticalRisks:        result.CriticalRisks,
		IrreversibleRisks:    result.IrreversibleRisks,
		Personas:             response.PersonasUsed,
		CreatedAt:            response.CreatedAt,
	}, nil
}

func (p *VerdictPublisher) Publish(_ context.Context, response guardian.Response) error {
	alert, err := NewVerdictAlert(response)
	if err != nil {
		return err
	}

	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}
