package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/hupe1980/supportmesh/model"
)

// Registry maps tool names to callables and normalizes every execution
// outcome to a JSON payload. Unknown names, panics and tool errors all yield
// structured failure payloads so the enclosing model round continues.
type Registry struct {
	tools  map[string]Tool
	logger zerolog.Logger
}

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	Logger zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: zerolog.Nop()}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{tools: make(map[string]Tool), logger: opts.Logger}
}

// Register adds tools to the registry, replacing any existing tool with the
// same name.
func (r *Registry) Register(tools ...Tool) {
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions builds the model-facing catalog entries for the named tools.
// Unknown names are skipped; the escalate pseudo-tool is resolved via
// EscalateDefinition since it has no registered implementation.
func (r *Registry) Definitions(names ...string) []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(names))
	for _, name := range names {
		if name == EscalateName {
			defs = append(defs, EscalateDefinition())
			continue
		}
		t, ok := r.tools[name]
		if !ok {
			continue
		}
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Execute dispatches by exact name match and returns a normalized JSON
// payload. It never fails: unknown tools, panics and execution errors are
// reported as {"success": false, "error": ...} so the model can adapt.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) string {
	t, ok := r.tools[name]
	if !ok {
		r.logger.Warn().Str("tool", name).Msg("tool.call.unknown")
		return ErrorPayload(fmt.Sprintf("Unknown tool: %s", name))
	}

	start := time.Now()
	var (
		result any
		err    error
	)
	func() { // panic safety
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic in tool %s: %v", name, rec)
			}
		}()
		result, err = t.Call(ctx, args)
	}()

	if err != nil {
		r.logger.Warn().
			Str("tool", name).
			Dur("duration", time.Since(start)).
			Str("error", err.Error()).
			Msg("tool.call.failed")
		return ErrorPayload(err.Error())
	}

	r.logger.Debug().
		Str("tool", name).
		Dur("duration", time.Since(start)).
		Msg("tool.call.success")
	return marshalResult(result)
}

// ErrorPayload renders the structured failure contract shared by every tool
// path.
func ErrorPayload(message string) string {
	out, err := json.Marshal(map[string]any{"success": false, "error": message})
	if err != nil {
		return `{"success": false, "error": "internal error"}`
	}
	return string(out)
}

// marshalResult normalizes a tool result to a JSON string. String results
// are assumed to already be serialized.
func marshalResult(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	out, err := json.Marshal(result)
	if err != nil {
		return ErrorPayload(fmt.Sprintf("unserializable tool result: %v", err))
	}
	return string(out)
}
