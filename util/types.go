package util

import "context"

// PassResult is the outcome of one persona pass over a document.
type PassResult struct {
	Index   int                      `json:"-"`
	Persona string                   `json:"persona"`
	Risks   []map[string]interface{} `json:"-"`
	Found   int                      `json:"found"`
	Err     *string                  `json:"err,omitempty"`
}

type NamedPass struct {
	Persona string
	Handler PassFunc
}

type PassFunc func(ctx context.Context, document string) PassResult
