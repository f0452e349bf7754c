// Package query runs jq programs against the JSON form of the board.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/itchyny/gojq"

	"github.com/alexanderramin/ganttboard/internal/domain"
)

// Engine compiles jq programs once and reuses them. Safe for concurrent use.
type Engine struct {
	mu    sync.RWMutex
	cache map[string]*gojq.Code
}

func NewEngine() *Engine {
	return &Engine{cache: make(map[string]*gojq.Code)}
}

// Run evaluates program against v, which is first converted to plain JSON
// values. All outputs are returned in order.
func (e *Engine) Run(ctx context.Context, program string, v any) ([]any, error) {
	if program == "" {
		return nil, domain.NewValidationError("query", "empty jq program")
	}
	code, err := e.compile(program)
	if err != nil {
		return nil, err
	}
	input, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := code.RunWithContext(ctx, input)
	for {
		val, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := val.(error); isErr {
			return nil, fmt.Errorf("evaluating %q: %w", program, err)
		}
		results = append(results, val)
	}
	return results, nil
}

func (e *Engine) compile(program string) (*gojq.Code, error) {
	e.mu.RLock()
	if code, ok := e.cache[program]; ok {
		e.mu.RUnlock()
		return code, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if code, ok := e.cache[program]; ok {
		return code, nil
	}

	parsed, err := gojq.Parse(program)
	if err != nil {
		return nil, domain.NewValidationError("query", "parse error in %q: %v", program, err)
	}
	code, err := gojq.Compile(parsed, gojq.WithEnvironLoader(func() []string { return nil }))
	if err != nil {
		return nil, domain.NewValidationError("query", "compile error in %q: %v", program, err)
	}
	e.cache[program] = code
	return code, nil
}

// toJSONValue round-trips v through encoding/json so gojq sees only maps,
// slices, strings, float64, bool and nil.
func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding query input: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding query input: %w", err)
	}
	return out, nil
}

// Write prints each result on its own line, indented unless compact. Bare
// strings are written without quotes when raw is set, like jq -r.
func Write(w io.Writer, results []any, compact, raw bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	for _, r := range results {
		if s, ok := r.(string); ok && raw {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
			continue
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
	}
	return nil
}
