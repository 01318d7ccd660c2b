// Command clauseguard analyzes local documents and scores risk lists from the shell.
//
// Usage:
//
//	clauseguard analyze contract.md --persona full
//	clauseguard score risks.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"clauseguard/config"
	"clauseguard/guardian"
	"clauseguard/ingest"
	"clauseguard/internal/logging"
	"clauseguard/personas"
	"clauseguard/scoring"
	"clauseguard/types"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultQuery = "Is it safe to sign this?"

// completerFactory builds the text generator for a model.
type completerFactory func(ctx context.Context, model string) (guardian.Completer, error)

func geminiCompleter(ctx context.Context, model string) (guardian.Completer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	completer, err := guardian.NewGeminiCompleter(ctx, apiKey, model, guardian.CoreInstruction())
	if err != nil {
		return nil, err
	}
	return completer, nil
}

func loadConfig(logger *zap.Logger) (types.Config, error) {
	path := config.Path()
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("no config file found, using defaults", zap.String("path", path))
		return config.Parse([]byte("{}"))
	}
	return cfg, err
}

func newRootCmd(newCompleter completerFactory, logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "clauseguard",
		Short:         "Contract risk analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(newCompleter, logger), newScoreCmd())
	return root
}

func newAnalyzeCmd(newCompleter completerFactory, logger *zap.Logger) *cobra.Command {
	var query, persona string

	cmd := &cobra.Command{
		Use:   "analyze [document]",
		Short: "Run persona risk analysis on a .txt or .md document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if persona != "" && !personas.IsAllowedMode(persona) {
				return fmt.Errorf("unknown persona %q", persona)
			}

			doc, err := ingest.FromFile(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(logger)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx := cmd.Context()
			completer, err := newCompleter(ctx, cfg.Generator.Model)
			if err != nil {
				return err
			}

			g := guardian.New(guardian.Options{
				Completer:   completer,
				DefaultMode: cfg.Personas.Default,
				PassTimeout: time.Duration(cfg.Generator.TimeoutMs) * time.Millisecond,
				Logger:      logger,
			})

			response, err := g.Analyze(ctx, guardian.Request{
				Query:       query,
				Document:    doc.Content,
				PersonaMode: persona,
			})
			if err != nil {
				return err
			}
			return writeIndented(cmd.OutOrStdout(), response)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", defaultQuery, "question to ask about the document")
	cmd.Flags().StringVarP(&persona, "persona", "p", "", "persona mode: legal, financial, insurance, compliance, full or auto")
	return cmd
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score [risks.json|-]",
		Short: "Score a JSON array of risk records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var records []scoring.Record
			if err := json.NewDecoder(in).Decode(&records); err != nil {
				return fmt.Errorf("expected a JSON array of risk records: %w", err)
			}
			return writeIndented(cmd.OutOrStdout(), scoring.Score(records))
		},
	}
}

func writeIndented(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger, err := logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := newRootCmd(geminiCompleter, logger).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
