// Package policy gates tool execution through an OPA policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// Input is the document evaluated against the tool policy.
type Input struct {
	ToolName string         `json:"tool_name"`
	Args     map[string]any `json:"args"`
	UserID   string         `json:"user_id"`
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.tool_policy.decision"),
		rego.Module("tool_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the tool policy for one tool call.
// Returns the decision ("allow" or "block").
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default; an empty result means it failed to.
		return "block", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "block", nil
}

// DefaultPolicy allows the catalog tools and requires a known user for the
// cart tools. Anything outside the catalog is blocked.
const DefaultPolicy = `
package tool_policy

default decision = "block"

read_only_tools = {"search_products", "get_product_detail"}

cart_tools = {"get_user_cart", "add_product_to_cart"}

decision = "allow" {
	read_only_tools[input.tool_name]
}

decision = "allow" {
	cart_tools[input.tool_name]
	input.user_id != ""
}
`
