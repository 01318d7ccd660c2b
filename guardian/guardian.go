// Package guardian runs a document analysis end to end: it classifies the request,
// delegates text generation to a Completer, fans persona passes out concurrently and
// scores the risks they return.
package guardian

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clauseguard/intent"
	"clauseguard/personas"
	"clauseguard/scoring"
	"clauseguard/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Status string

const (
	StatusInfo            Status = "INFO"
	StatusPreventive      Status = "PREVENTIVE_GUIDANCE"
	StatusAwaitingPersona Status = "AWAITING_PERSONA_SELECTION"
	StatusRiskAnalysis    Status = "RISK_ANALYSIS"
)

const (
	noRisksMessage           = "No clear risk clauses were detected. This does NOT guarantee safety and may indicate limited or informal content."
	personaSelectionQuestion = "How would you like this analyzed?"
)

var personaOptions = []string{"Legal", "Financial", "Compliance", "Full Analysis"}

var (
	ErrGeneratorUnavailable = errors.New("text generation is not configured")
	ErrAnalysisNotFound     = errors.New("analysis not found")
	ErrStoreUnavailable     = errors.New("analysis storage is not configured")
)

type Request struct {
	Query       string `json:"query"`
	Document    string `json:"content"`
	PersonaMode string `json:"persona"`
}

type Response struct {
	ID             string                   `json:"id,omitempty"`
	Status         Status                   `json:"status"`
	Message        string                   `json:"message,omitempty"`
	PersonaOptions []string                 `json:"persona_options,omitempty"`
	PersonasUsed   []string                 `json:"personas_used,omitempty"`
	Passes         []util.PassResult        `json:"passes,omitempty"`
	RiskAnalysis   *scoring.AggregateResult `json:"risk_analysis,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

// AnalysisStore keeps finished risk analyses for later retrieval.
type AnalysisStore interface {
	Save(ctx context.Context, response Response) error
	Get(ctx context.Context, id string) (Response, error)
	Delete(ctx context.Context, id string) error
}

// Publisher announces risk analyses whose verdict needs attention.
type Publisher interface {
	Publish(ctx context.Context, response Response) error
}

type Options struct {
	Completer     Completer
	Store         AnalysisStore
	Publisher     Publisher
	AlertVerdicts []scoring.Verdict
	DefaultMode   string
	PassTimeout   time.Duration
	Logger        *zap.Logger
}

type Guardian struct {
	completer   Completer
	store       AnalysisStore
	publisher   Publisher
	alerts      map[scoring.Verdict]bool
	defaultMode string
	passTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func New(opts Options) *Guardian {
	g := &Guardian{
		completer:   opts.Completer,
		store:       opts.Store,
		publisher:   opts.Publisher,
		alerts:      make(map[scoring.Verdict]bool, len(opts.AlertVerdicts)),
		defaultMode: opts.DefaultMode,
		passTimeout: opts.PassTimeout,
		logger:      opts.Logger,
		now:         time.Now,
	}
	for _, v := range opts.AlertVerdicts {
		g.alerts[v] = true
	}
	if g.defaultMode == "" {
		g.defaultMode = util.PersonaModes.Auto
	}
	if g.passTimeout <= 0 {
		g.passTimeout = 30 * time.Second
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// Analyze answers one request. Chat, summary and persona-selection requests return
// generated or fixed text; risk requests run the persona passes and score them.
func (g *Guardian) Analyze(ctx context.Context, req Request) (Response, error) {
	if g.completer == nil {
		return Response{}, ErrGeneratorUnavailable
	}

	mode := req.PersonaMode
	if mode == "" {
		mode = g.defaultMode
	}

	hasDoc := intent.IsDocumentSufficient(req.Document)
	kind := intent.Classify(req.Query, hasDoc)
	g.logger.Debug("classified request", zap.String("intent", string(kind)), zap.String("mode", mode))

	switch {
	case kind == intent.GeneralChat:
		return g.chat(ctx, req.Query)
	case kind == intent.DocumentSummary:
		summary, err := g.completer.Complete(ctx, summaryPrompt(req.Document))
		if err != nil {
			return Response{}, fmt.Errorf("summarize document: %w", err)
		}
		return Response{Status: StatusInfo, Message: summary, CreatedAt: g.now()}, nil
	case kind == intent.RiskAssessment && mode == util.PersonaModes.Auto:
		return Response{
			Status:         StatusAwaitingPersona,
			Message:        personaSelectionQuestion,
			PersonaOptions: append([]string(nil), personaOptions...),
			CreatedAt:      g.now(),
		}, nil
	}

	return g.assess(ctx, mode, req.Document)
}

func (g *Guardian) chat(ctx context.Context, query string) (Response, error) {
	prompt, status := chatPrompt(query), StatusInfo
	if intent.IsSituationDescription(query) {
		prompt, status = preventivePrompt(query), StatusPreventive
	}

	reply, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return Response{}, fmt.Errorf("chat completion: %w", err)
	}
	return Response{Status: status, Message: reply, CreatedAt: g.now()}, nil
}

func (g *Guardian) assess(ctx context.Context, mode string, document string) (Response, error) {
	keys := personas.Resolve(mode, document)

	risks, passes := g.runPasses(ctx, keys, document)
	if len(risks) == 0 {
		return Response{
			Status:       StatusInfo,
			Message:      noRisksMessage,
			PersonasUsed: keys,
			Passes:       passes,
			CreatedAt:    g.now(),
		}, nil
	}

	records := make([]scoring.Record, 0, len(risks))
	for _, risk := range risks {
		records = append(records, scoring.Record(risk))
	}
	result := scoring.Score(records)

	response := Response{
		ID:           uuid.NewString(),
		Status:       StatusRiskAnalysis,
		PersonasUsed: keys,
		Passes:       passes,
		RiskAnalysis: &result,
		CreatedAt:    g.now(),
	}

	g.logger.Info("risk analysis complete",
		zap.String("id", response.ID),
		zap.Strings("personas", keys),
		zap.Int("total_risk_score", result.TotalRiskScore),
		zap.String("verdict", result.Verdict.String()))

	g.record(ctx, response)
	return response, nil
}

// record stores and publishes a finished analysis. Failures are logged; the caller
// still gets its result.
func (g *Guardian) record(ctx context.Context, response Response) {
	if g.store != nil {
		if err := g.store.Save(ctx, response); err != nil {
			g.logger.Warn("failed to store analysis", zap.String("id", response.ID), zap.Error(err))
		}
	}

	if g.publisher != nil && g.alerts[response.RiskAnalysis.Verdict] {
		if err := g.publisher.Publish(ctx, response); err != nil {
			g.logger.Warn("failed to publish verdict", zap.String("id", response.ID), zap.Error(err))
		}
	}
}

// Lookup returns a stored analysis.
func (g *Guardian) Lookup(ctx context.Context, id string) (Response, error) {
	if g.store == nil {
		return Response{}, ErrStoreUnavailable
	}
	return g.store.Get(ctx, id)
}

// Forget removes a stored analysis.
func (g *Guardian) Forget(ctx context.Context, id string) error {
	if g.store == nil {
		return ErrStoreUnavailable
	}
	return g.store.Delete(ctx, id)
}
