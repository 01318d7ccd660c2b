package guardian

import (
	"context"
	"sync"

	"clauseguard/personas"
	"clauseguard/util"

	"go.uber.org/zap"
)

func (g *Guardian) personaPass(p personas.Persona) util.NamedPass {
	return util.NamedPass{
		Persona: p.Key,
		Handler: func(ctx context.Context, document string) util.PassResult {
			base := util.PassResult{Persona: p.Key}

			raw, err := g.completer.Complete(ctx, personaPrompt(p, document))
			if err != nil {
				errText := err.Error()
				result := base
				result.Err = &errText
				return result
			}

			result := base
			result.Risks = ParseRisks(raw)
			result.Found = len(result.Risks)
			return result
		},
	}
}

// runPasses runs one pass per persona concurrently. A pass that errors or outlives
// the pass timeout is reported in the breakdown and contributes no risks.
func (g *Guardian) runPasses(ctx context.Context, keys []string, document string) ([]map[string]interface{}, []util.PassResult) {
	passes := make([]util.NamedPass, 0, len(keys))
	for _, key := range keys {
		if p, ok := personas.Get(key); ok {
			passes = append(passes, g.personaPass(p))
		}
	}

	passResults := make(chan util.PassResult, len(passes))
	var wg sync.WaitGroup

	for i, namedPass := range passes {
		wg.Add(1)
		go func(i int, namedPass util.NamedPass) {
			defer wg.Done()

			passCtx, cancel := context.WithTimeout(ctx, g.passTimeout)
			defer cancel()

			resultChan := make(chan util.PassResult, 1)

			// Run the handler separately so a slow completer cannot block the timeout
			go func() {
				resultChan <- namedPass.Handler(passCtx, document)
			}()

			var result util.PassResult
			select {
			case <-passCtx.Done():
				errText := passCtx.Err().Error()
				result = util.PassResult{Persona: namedPass.Persona, Err: &errText}
			case result = <-resultChan:
			}

			if result.Err != nil {
				g.logger.Warn("persona pass failed", zap.String("persona", namedPass.Persona), zap.String("error", *result.Err))
			}
			result.Index = i
			passResults <- result
		}(i, namedPass)
	}

	go func() {
		wg.Wait()
		close(passResults)
	}()

	return util.CollectRisks(passResults)
}
