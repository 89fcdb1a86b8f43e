// Package jqfilter applies jq expressions to screener scan rows.
package jqfilter

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// Engine executes jq expressions against JSON data.
type Engine struct{}

// New creates a new engine.
func New() *Engine {
	return &Engine{}
}

// Result contains the outcome of one expression run.
type Result struct {
	Values   []any    `json:"values"`
	Errors   []string `json:"errors,omitempty"` // per-item evaluation errors
	RawCount int      `json:"raw_count"`
}

// Apply runs the expression over the JSON document in data and collects
// the emitted values, up to maxResults (<= 0 means unlimited). Per-item
// evaluation errors are collected, not fatal; a malformed expression or
// malformed input is.
func (e *Engine) Apply(data []byte, expression string, maxResults int) (*Result, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compiling jq expression: %w", err)
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}

	result := &Result{
		Values: make([]any, 0),
		Errors: make([]string, 0),
	}

	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if itemErr, isErr := v.(error); isErr {
			result.Errors = append(result.Errors, itemErr.Error())
			continue
		}
		result.RawCount++
		if maxResults > 0 && len(result.Values) >= maxResults {
			continue
		}
		result.Values = append(result.Values, v)
	}

	return result, nil
}
