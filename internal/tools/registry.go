// Package tools exposes the engine as named operations over JSON payloads.
// The transport layer resolves a tool by name and hands it the raw request
// body; everything protocol-specific stays outside.
package tools

import (
	"bytes"
	"context"
	"encoding/json"

	"infoflow/internal/domain"
)

// HandlerFunc executes one tool call against a decoded JSON payload.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Tool is a named operation with a short human description.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Handler     HandlerFunc `json:"-"`
}

// Registry keeps a mapping from tool names to their implementations,
// preserving registration order for listings.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// Register adds or replaces a tool implementation.
func (r *Registry) Register(tool Tool) {
	if _, ok := r.tools[tool.Name]; !ok {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

// Resolve returns a tool by name or NotFoundError if it is absent.
func (r *Registry) Resolve(name string) (Tool, error) {
	if tool, ok := r.tools[name]; ok {
		return tool, nil
	}
	return Tool{}, &domain.NotFoundError{Entity: "tool", ID: name}
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	list := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.tools[name])
	}
	return list
}

// Dispatch resolves and executes the named tool.
func (r *Registry) Dispatch(ctx context.Context, name string, payload json.RawMessage) (any, error) {
	tool, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return tool.Handler(ctx, payload)
}

// decode unmarshals a payload into v with a closed schema: unrecognized
// fields are rejected rather than silently ignored.
func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &domain.ValidationError{Field: "payload", Reason: err.Error()}
	}
	return nil
}

// parsePriority converts an optional wire tier, applying a fallback for the
// empty string.
func parsePriority(value string, fallback domain.Priority) (domain.Priority, error) {
	if value == "" {
		return fallback, nil
	}
	return domain.ParsePriority(value)
}

// requireField fails with ValidationError when a mandatory string is empty.
func requireField(name, value string) error {
	if value == "" {
		return &domain.ValidationError{Field: name, Reason: "must not be empty"}
	}
	return nil
}
