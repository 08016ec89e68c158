package template_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/specialistvlad/slotkit/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, src string, vars map[string]any) string {
	t.Helper()
	tpl, err := template.NewLibrary().Parse("test.html", src)
	require.NoError(t, err)
	out, err := tpl.Render(context.Background(), scope.New(expr.ToValues(vars)))
	require.NoError(t, err)
	return out
}

func TestRender_Builtins(t *testing.T) {
	vars := map[string]any{
		"name":  "ada",
		"items": []string{"a", "b", "c"},
		"attrs": map[string]any{"y": 2, "x": 1},
		"none":  []string{},
		"n":     3,
	}
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"text", "plain", "plain"},
		{"var", "hi {{ name }}!", "hi ada!"},
		{"function", "{{ upper(name) }}", "ADA"},
		{"undefined", "[{{ missing }}][{{ missing.deeper }}]", "[][]"},
		{"comment", "a{# hidden #}b{% comment %}{% nonsense %}{% endcomment %}c", "abc"},
		{"if", "{% if n > 2 %}big{% endif %}", "big"},
		{"elif", "{% if n > 5 %}huge{% elif n > 2 %}big{% else %}small{% endif %}", "big"},
		{"else", "{% if missing %}yes{% else %}no{% endif %}", "no"},
		{"for", "{% for x in items %}{{ x }}{% if !forloop.last %},{% endif %}{% endfor %}", "a,b,c"},
		{"forloop counter", "{% for x in items %}{{ forloop.counter }}/{{ forloop.length }} {% endfor %}", "1/3 2/3 3/3 "},
		{"for key value", "{% for k, v in attrs %}{{ k }}={{ v }};{% endfor %}", "x=1;y=2;"},
		{"for empty", "{% for x in none %}{{ x }}{% empty %}nothing{% endfor %}", "nothing"},
		{"for undefined", "{% for x in missing %}{{ x }}{% empty %}nothing{% endfor %}", "nothing"},
		{"with", "{% with greeting=\"hey\" who=name %}{{ greeting }} {{ who }}{% endwith %}", "hey ada"},
		{"with spread", "{% with ...attrs x=9 %}{{ x }}{{ y }}{% endwith %}", "92"},
		{"with single quotes", "{% with s='it works' %}{{ s }}{% endwith %}", "it works"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, render(t, tc.src, vars))
		})
	}
}

func TestRender_WithDoesNotLeak(t *testing.T) {
	out := render(t, `{% with name="inner" %}{{ name }}{% endwith %}-{{ name }}`, map[string]any{"name": "outer"})
	assert.Equal(t, "inner-outer", out)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"unclosed var", "a\n{{ name", 2, "unclosed {{"},
		{"unknown tag", "a\n\n{% shout %}", 3, `unknown or unexpected tag "shout"`},
		{"stray end", "{% endif %}", 1, `unknown or unexpected tag "endif"`},
		{"missing end", "{% if x %}\nbody", 1, "expected {% endif %}"},
		{"bad for", "{% for in items %}{% endfor %}", 1, "for: expected"},
		{"bad with", "{% with x %}{% endwith %}", 1, "not a name=value binding"},
		{"bad expression", "{{ a + }}", 1, "invalid expression"},
		{"unknown function", "{{ shout(a) }}", 1, `unknown function "shout"`},
		{"unclosed comment", "{% comment %}never closed", 1, "unclosed {% comment %}"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := template.NewLibrary().Parse("page.html", tc.src)
			require.Error(t, err)
			var syntaxErr *template.SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "got %T: %v", err, err)
			assert.Equal(t, "page.html", syntaxErr.Name)
			assert.Equal(t, tc.line, syntaxErr.Line)
			assert.Contains(t, syntaxErr.Msg, tc.msg)
		})
	}
}

func TestRender_IterationErrorCarriesPosition(t *testing.T) {
	tpl, err := template.NewLibrary().Parse("page.html", "\n{% for x in name %}{% endfor %}")
	require.NoError(t, err)
	_, err = tpl.Render(context.Background(), scope.New(expr.ToValues(map[string]any{"name": "str"})))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page.html:2")
	assert.Contains(t, err.Error(), "cannot iterate")
}

type shoutNode struct {
	body template.NodeList
}

func (n *shoutNode) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	out, err := n.body.Render(ctx, sc)
	return strings.ToUpper(out), err
}

func (n *shoutNode) Children() []template.NodeList { return []template.NodeList{n.body} }

func TestLibrary_RegisterCustomTag(t *testing.T) {
	lib := template.NewLibrary()
	lib.Register("shout", func(p *template.Parser, tok template.Token) (template.Node, error) {
		body, err := p.Body(tok)
		if err != nil {
			return nil, err
		}
		return &shoutNode{body: body}, nil
	})

	tpl, err := lib.Parse("t", `{% shout %}hi {{ name }}{% endshout %}|{% shout / %}`)
	require.NoError(t, err)
	out, err := tpl.Render(context.Background(), scope.New(expr.ToValues(map[string]any{"name": "ada"})))
	require.NoError(t, err)
	assert.Equal(t, "HI ADA|", out)

	var vars int
	template.Walk(tpl.Root, func(n template.Node) bool {
		if _, ok := n.(*template.VarNode); ok {
			vars++
		}
		return true
	})
	assert.Equal(t, 1, vars, "Walk must descend into custom parents")

	assert.Panics(t, func() {
		lib.Register("shout", nil)
	})
}

func TestToken_SelfClosingAndRest(t *testing.T) {
	tok := template.Token{Kind: template.BlockToken, Contents: `slot "icon" required /`}
	assert.True(t, tok.SelfClosing())
	assert.Equal(t, "slot", tok.TagName())
	assert.Equal(t, `"icon" required`, tok.Rest())

	tok = template.Token{Kind: template.BlockToken, Contents: `slot "icon"`}
	assert.False(t, tok.SelfClosing())
}

func TestNodeList_IsBlank(t *testing.T) {
	tpl, err := template.NewLibrary().Parse("t", "  \n\t{# note #}\n")
	require.NoError(t, err)
	assert.True(t, tpl.Root.IsBlank())

	tpl, err = template.NewLibrary().Parse("t", "  {{ x }} ")
	require.NoError(t, err)
	assert.False(t, tpl.Root.IsBlank())
}
