// Package tools holds the agent's tool set: a closed registry of named
// callables plus the textual capability descriptions injected into the model
// prompt. The registry is built once at startup and shared read-only by all
// invocations.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// Param describes one tool parameter for the prompt.
type Param struct {
	Name        string
	Description string
}

// Tool is one callable the model may invoke. Execute returns a JSON-encoded
// observation; well-behaved tools self-report errors in that JSON where
// possible, and anything they do return as error is converted to a
// structured error observation by Dispatch, never propagated to the caller.
type Tool interface {
	Name() string
	Description() string
	Parameters() []Param
	Execute(ctx context.Context, params map[string]interface{}) (string, error)
}

// Registry is the fixed name-to-tool mapping.
type Registry struct {
	tools  map[string]Tool
	order  []string
	logger *log.Logger
}

// NewRegistry builds the registry. Registration order is preserved for
// prompt rendering and error listings.
func NewRegistry(logger *log.Logger, toolSet ...Tool) *Registry {
	if logger == nil {
		logger = log.New(log.Writer(), "[TOOLS] ", log.LstdFlags)
	}
	r := &Registry{tools: make(map[string]Tool, len(toolSet)), logger: logger}
	for _, t := range toolSet {
		if _, dup := r.tools[t.Name()]; dup {
			panic(fmt.Sprintf("duplicate tool name: %s", t.Name()))
		}
		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
	return r
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	return r.order
}

// Dispatch executes the named tool and always returns an observation string.
// Unknown names and execution failures become structured error observations
// that are fed back to the model as data, so it can self-correct.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]interface{}) string {
	tool, ok := r.tools[name]
	if !ok {
		return errorJSON(fmt.Sprintf("Unknown tool: %s. Valid tools: %s", name, strings.Join(r.order, ", ")))
	}
	result, err := tool.Execute(ctx, params)
	if err != nil {
		r.logger.Printf("tool %s failed: %v", name, err)
		return errorJSON(fmt.Sprintf("Tool %s failed: %v", name, err))
	}
	return result
}

// PromptText renders every tool's capability description for the system
// prompt.
func (r *Registry) PromptText() string {
	var b strings.Builder
	b.WriteString("You have access to the following tools:\n\n")
	for _, name := range r.order {
		t := r.tools[name]
		fmt.Fprintf(&b, "### %s\n%s\nParameters:\n", t.Name(), t.Description())
		for _, p := range t.Parameters() {
			fmt.Fprintf(&b, "  - %s: %s\n", p.Name, p.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func errorJSON(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}
