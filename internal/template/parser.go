package template

import (
	"fmt"
	"regexp"

	"github.com/specialistvlad/slotkit/internal/expr"
)

// TagFunc parses one block tag. It receives the opening token and consumes
// any body through the parser.
type TagFunc func(p *Parser, tok Token) (Node, error)

// Library is the table of block tags a template may use.
type Library struct {
	tags map[string]TagFunc
}

// NewLibrary returns a library holding the built-in tags.
func NewLibrary() *Library {
	l := &Library{tags: make(map[string]TagFunc)}
	l.Register("if", parseIf)
	l.Register("for", parseFor)
	l.Register("with", parseWith)
	l.Register("comment", parseComment)
	return l
}

// Register adds a block tag. It panics if the name is already taken.
func (l *Library) Register(name string, fn TagFunc) {
	if _, exists := l.tags[name]; exists {
		panic(fmt.Sprintf("template tag %q is already registered", name))
	}
	l.tags[name] = fn
}

// Has reports whether name is a registered tag.
func (l *Library) Has(name string) bool {
	_, ok := l.tags[name]
	return ok
}

// Parse parses src into a Template named name.
func (l *Library) Parse(name, src string) (*Template, error) {
	tokens, err := lex(name, src)
	if err != nil {
		return nil, err
	}
	p := &Parser{name: name, lib: l, tokens: tokens}
	root, _, err := p.ParseUntil()
	if err != nil {
		return nil, err
	}
	return &Template{Name: name, Root: root}, nil
}

// Parser walks the token stream of one template. Tag functions use it to
// parse their bodies.
type Parser struct {
	name   string
	lib    *Library
	tokens []Token
	pos    int
}

// Name is the name of the template being parsed.
func (p *Parser) Name() string {
	return p.name
}

// Pos returns the source position of tok.
func (p *Parser) Pos(tok Token) Pos {
	return Pos{Name: p.name, Line: tok.Line}
}

// Errorf builds a SyntaxError located at tok.
func (p *Parser) Errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Name: p.name, Line: tok.Line, Msg: fmt.Sprintf(format, args...)}
}

// ParseUntil parses nodes until it meets a block tag named in ends, which it
// consumes and returns. With no ends it parses to the end of input.
func (p *Parser) ParseUntil(ends ...string) (NodeList, Token, error) {
	var nodes NodeList
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		switch tok.Kind {
		case TextToken:
			nodes = append(nodes, &TextNode{Text: tok.Contents})
		case CommentToken:
		case VarToken:
			e, err := p.Expr(tok, tok.Contents)
			if err != nil {
				return nil, tok, err
			}
			nodes = append(nodes, &VarNode{Expr: e, Pos: p.Pos(tok)})
		case BlockToken:
			tag := tok.TagName()
			for _, end := range ends {
				if tag == end {
					return nodes, tok, nil
				}
			}
			fn, ok := p.lib.tags[tag]
			if !ok {
				if tag == "" {
					return nil, tok, p.Errorf(tok, "empty block tag")
				}
				return nil, tok, p.Errorf(tok, "unknown or unexpected tag %q", tag)
			}
			node, err := fn(p, tok)
			if err != nil {
				return nil, tok, err
			}
			nodes = append(nodes, node)
		}
	}
	if len(ends) > 0 {
		last := Token{Line: 1}
		if len(p.tokens) > 0 {
			last = p.tokens[len(p.tokens)-1]
		}
		return nil, last, p.Errorf(last, "unexpected end of template, expected {%% %s %%}", ends[len(ends)-1])
	}
	return nodes, Token{}, nil
}

// SkipUntil discards tokens up to and including the block tag named end.
func (p *Parser) SkipUntil(open Token, end string) error {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		if tok.Kind == BlockToken && tok.TagName() == end {
			return nil
		}
	}
	return p.Errorf(open, "unclosed {%% %s %%}", open.TagName())
}

// Expr parses src as an expression found in tok.
func (p *Parser) Expr(tok Token, src string) (*expr.Expr, error) {
	e, err := expr.Parse(src, p.name, tok.Line)
	if err != nil {
		return nil, p.Errorf(tok, "%v", err)
	}
	return e, nil
}

// Args splits and parses the arguments of a block tag.
func (p *Parser) Args(tok Token, flags ...string) (expr.Args, error) {
	bits, err := expr.SplitBits(tok.Rest())
	if err != nil {
		return nil, p.Errorf(tok, "%s: %v", tok.TagName(), err)
	}
	args, err := expr.ParseArgs(bits, p.name, tok.Line, flags...)
	if err != nil {
		return nil, p.Errorf(tok, "%s: %v", tok.TagName(), err)
	}
	return args, nil
}

// Body parses the body of a block tag up to `{% end<tag> %}`. Self-closing
// tags have an empty body.
func (p *Parser) Body(tok Token) (NodeList, error) {
	if tok.SelfClosing() {
		return nil, nil
	}
	body, _, err := p.ParseUntil("end" + tok.TagName())
	return body, err
}

func parseIf(p *Parser, tok Token) (Node, error) {
	node := &IfNode{Pos: p.Pos(tok)}
	cur := tok
	for {
		if cur.Rest() == "" {
			return nil, p.Errorf(cur, "%s requires a condition", cur.TagName())
		}
		cond, err := p.Expr(cur, cur.Rest())
		if err != nil {
			return nil, err
		}
		body, end, err := p.ParseUntil("elif", "else", "endif")
		if err != nil {
			return nil, err
		}
		node.Conds = append(node.Conds, cond)
		node.Bodies = append(node.Bodies, body)

		switch end.TagName() {
		case "elif":
			cur = end
			continue
		case "else":
			node.Else, _, err = p.ParseUntil("endif")
			if err != nil {
				return nil, err
			}
		}
		return node, nil
	}
}

var forRegex = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\s*,\s*([A-Za-z_][A-Za-z0-9_]*))?\s+in\s+(.+)$`)

func parseFor(p *Parser, tok Token) (Node, error) {
	m := forRegex.FindStringSubmatch(tok.Rest())
	if m == nil {
		return nil, p.Errorf(tok, "for: expected `for item in items` or `for key, value in items`, got %q", tok.Rest())
	}
	iter, err := p.Expr(tok, m[3])
	if err != nil {
		return nil, err
	}
	node := &ForNode{Value: m[1], Iter: iter, Pos: p.Pos(tok)}
	if m[2] != "" {
		node.Key, node.Value = m[1], m[2]
	}

	body, end, err := p.ParseUntil("empty", "endfor")
	if err != nil {
		return nil, err
	}
	node.Body = body
	if end.TagName() == "empty" {
		if node.Empty, _, err = p.ParseUntil("endfor"); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func parseWith(p *Parser, tok Token) (Node, error) {
	args, err := p.Args(tok)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, p.Errorf(tok, "with: expected at least one name=value binding")
	}
	for _, arg := range args {
		if arg.Kind != expr.Keyword && arg.Kind != expr.Spread {
			return nil, p.Errorf(tok, "with: %q is not a name=value binding", arg.Raw)
		}
	}
	body, _, err := p.ParseUntil("endwith")
	if err != nil {
		return nil, err
	}
	return &WithNode{Args: args, Body: body, Pos: p.Pos(tok)}, nil
}

func parseComment(p *Parser, tok Token) (Node, error) {
	if err := p.SkipUntil(tok, "endcomment"); err != nil {
		return nil, err
	}
	return &TextNode{}, nil
}
