package mcp

import (
	"context"

	"github.com/mirotools/miro-mcp/pkg/types"
)

// Tool is a named, schema-described operation callable through
// tools/call. Execute returns the result payload; a returned error is
// converted to isError content at the dispatch boundary, never to a
// protocol error.
type Tool interface {
	Name() string
	Description() string
	Params() []types.Param
	Execute(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

// Registry holds tools in registration order. Re-registering a name
// silently replaces the entry in place, so listing order is
// first-registration order.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(tool Tool) {
	name := tool.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns the descriptors in registration order.
func (r *Registry) List() []types.Tool {
	out := make([]types.Tool, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		out = append(out, types.Tool{
			Name:        name,
			Description: tool.Description(),
			InputSchema: BuildSchema(tool.Params()),
		})
	}
	return out
}

// BuildSchema assembles the object schema of an ordered parameter list.
// The required list is the non-optional parameters in declaration order.
func BuildSchema(params []types.Param) types.Schema {
	properties := make(map[string]types.Schema, len(params))
	var required []string
	for _, p := range params {
		properties[p.Name] = p.Spec
		if !p.Optional {
			required = append(required, p.Name)
		}
	}
	return types.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
