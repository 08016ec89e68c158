// Package expr parses and evaluates the expressions embedded in templates.
//
// Expressions use HCL native syntax (`user.name`, `upper(title)`,
// `count > 1 ? "many" : "one"`) and evaluate to cty values against a
// scope.Scope. A variable that no scope layer binds evaluates to an unknown
// value, which renders as the empty string.
package expr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// Expr is a parsed expression together with the text it came from.
type Expr struct {
	hcl.Expression
	Source string
}

// String returns the original expression text.
func (e *Expr) String() string {
	return e.Source
}

// Parse parses src as an HCL native-syntax expression. filename and line are
// only used for diagnostics. Calls to functions outside the template
// function table are rejected here rather than at render time.
func Parse(src, filename string, line int) (*Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty expression")
	}
	parsed, diags := hclsyntax.ParseExpression([]byte(src), filename, hcl.Pos{Line: line, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid expression %q: %w", src, diags)
	}
	e := &Expr{Expression: parsed, Source: src}
	for _, name := range e.Functions() {
		if _, ok := functions[name]; !ok {
			return nil, fmt.Errorf("invalid expression %q: unknown function %q", src, name)
		}
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level constants.
func MustParse(src string) *Expr {
	e, err := Parse(src, "<inline>", 1)
	if err != nil {
		panic(err)
	}
	return e
}

// Literal returns an expression that always evaluates to v.
func Literal(v cty.Value) *Expr {
	return &Expr{
		Expression: &hclsyntax.LiteralValueExpr{Val: v},
		Source:     String(v),
	}
}

// StaticString returns the value of e when it is a constant string, such as
// a quoted literal. ok is false for anything that depends on variables.
func (e *Expr) StaticString() (string, bool) {
	if e == nil || len(e.Variables()) > 0 {
		return "", false
	}
	v, diags := e.Expression.Value(&hcl.EvalContext{Functions: functions})
	if diags.HasErrors() || v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.String) {
		return "", false
	}
	return v.AsString(), true
}

// Eval evaluates e against sc.
func (e *Expr) Eval(sc *scope.Scope) (cty.Value, error) {
	v, diags := e.Expression.Value(evalContext(e.Expression, sc))
	if diags.HasErrors() {
		return cty.DynamicVal, fmt.Errorf("evaluating %q: %w", e.Source, diags)
	}
	return v, nil
}

// EvalLenient is Eval, except that lookups of missing attributes or indexes
// produce an unknown value instead of an error, the way an undefined
// variable does.
func (e *Expr) EvalLenient(sc *scope.Scope) (cty.Value, error) {
	v, diags := e.Expression.Value(evalContext(e.Expression, sc))
	if !diags.HasErrors() {
		return v, nil
	}
	for _, d := range diags.Errs() {
		diag, ok := d.(*hcl.Diagnostic)
		if !ok || !lenientSummaries[diag.Summary] {
			return cty.DynamicVal, fmt.Errorf("evaluating %q: %w", e.Source, diags)
		}
	}
	return cty.DynamicVal, nil
}

var lenientSummaries = map[string]bool{
	"Unsupported attribute":                    true,
	"Invalid index":                            true,
	"Attempt to get attribute from null value": true,
}

// evalContext binds every root name referenced by expr. Names that the scope
// does not know are bound to cty.DynamicVal.
func evalContext(expr hcl.Expression, sc *scope.Scope) *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, traversal := range expr.Variables() {
		name := traversal.RootName()
		if _, done := vars[name]; done {
			continue
		}
		if v, ok := sc.Lookup(name); ok {
			vars[name] = v
		} else {
			vars[name] = cty.DynamicVal
		}
	}
	return &hcl.EvalContext{Variables: vars, Functions: functions}
}

// TraversalKey generates a stable, canonical string representation for an hcl.Traversal,
// suitable for use as a map key.
func TraversalKey(t hcl.Traversal) string {
	// e.g., user.address[0].city
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// References returns the unique variable traversals in e, sorted by key.
func (e *Expr) References() []string {
	refs, _ := extractReferencesAndFunctions(e.Expression)
	return refs
}

// Functions returns the unique function names called in e, sorted.
func (e *Expr) Functions() []string {
	_, funcs := extractReferencesAndFunctions(e.Expression)
	return funcs
}

// extractReferencesAndFunctions walks through HCL expressions to find all unique
// variable traversals and function calls. The returned slices are sorted to
// ensure a deterministic order.
func extractReferencesAndFunctions(exprs ...hcl.Expression) ([]string, []string) {
	traversals := make(map[string]struct{})
	funcs := make(map[string]struct{})

	for _, expr := range exprs {
		if expr == nil {
			continue
		}
		for _, traversal := range expr.Variables() {
			traversals[TraversalKey(traversal)] = struct{}{}
		}
		// Variables() does not report function calls, so walk the syntax tree for those.
		if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
			walkForFunctions(syntaxExpr, funcs)
		}
	}

	return sortedKeys(traversals), sortedKeys(funcs)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// walkForFunctions recursively walks the AST, looking only for function calls.
func walkForFunctions(expr hclsyntax.Expression, funcs map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		funcs[e.Name] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, funcs)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, funcs)
		walkForFunctions(e.RHS, funcs)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, funcs)
		walkForFunctions(e.TrueResult, funcs)
		walkForFunctions(e.FalseResult, funcs)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, funcs)
	case *hclsyntax.TemplateExpr:
		for _, part := range e.Parts {
			walkForFunctions(part, funcs)
		}
	case *hclsyntax.TemplateWrapExpr:
		walkForFunctions(e.Wrapped, funcs)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForFunctions(item, funcs)
		}
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			walkForFunctions(item.KeyExpr, funcs)
			walkForFunctions(item.ValueExpr, funcs)
		}
	case *hclsyntax.ForExpr:
		walkForFunctions(e.CollExpr, funcs)
		walkForFunctions(e.KeyExpr, funcs)
		walkForFunctions(e.ValExpr, funcs)
		walkForFunctions(e.CondExpr, funcs)
	case *hclsyntax.IndexExpr:
		walkForFunctions(e.Collection, funcs)
		walkForFunctions(e.Key, funcs)
	case *hclsyntax.SplatExpr:
		walkForFunctions(e.Source, funcs)
		walkForFunctions(e.Each, funcs)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, funcs)
	case *hclsyntax.ObjectConsKeyExpr:
		walkForFunctions(e.Wrapped, funcs)
	}
}
