package ids

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/rubberove/switflake/pkg/switflake"
)

// celFilter wraps a compiled CEL program evaluated against decoded ID
// fields. When disabled (empty expression), Eval always matches.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		// Milliseconds since the switflake epoch.
		cel.Variable("timestamp", cel.IntType),
		cel.Variable("node", cel.IntType),
		cel.Variable("slot", cel.IntType),
		cel.Variable("counter", cel.IntType),
		// Absolute Unix milliseconds, for comparisons against external times.
		cel.Variable("time_ms", cel.IntType),
		// Current time in ms for windowed filters.
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the expression against one decoded identifier.
func (f celFilter) Eval(d switflake.Decoded) (bool, error) {
	if !f.enabled {
		return true, nil
	}
	out, _, err := f.prog.Eval(map[string]any{
		"timestamp": int64(d.Timestamp),
		"node":      int64(d.NodeID),
		"slot":      int64(d.Slot),
		"counter":   int64(d.Counter),
		"time_ms":   d.Time().UnixMilli(),
		"now_ms":    time.Now().UnixMilli(),
	})
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter did not evaluate to bool, got %T", out.Value())
	}
	return b, nil
}
