package template

import (
	"strings"
)

// TokenKind classifies a lexed token.
type TokenKind int

const (
	// TextToken is literal template text.
	TextToken TokenKind = iota
	// VarToken is `{{ … }}`.
	VarToken
	// BlockToken is `{% … %}`.
	BlockToken
	// CommentToken is `{# … #}`.
	CommentToken
)

// Token is a single lexed unit with its 1-based starting line.
type Token struct {
	Kind     TokenKind
	Contents string
	Line     int
}

// TagName returns the first word of a block token.
func (t Token) TagName() string {
	fields := strings.Fields(t.Contents)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Rest returns the contents of a block token after its tag name, without a
// trailing self-closing slash.
func (t Token) Rest() string {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t.Contents), t.TagName()))
	if t.SelfClosing() {
		rest = strings.TrimSpace(strings.TrimSuffix(rest, "/"))
	}
	return rest
}

// SelfClosing reports whether a block token ends with `/`, as in
// `{% slot "icon" / %}`.
func (t Token) SelfClosing() bool {
	c := strings.TrimSpace(t.Contents)
	return t.Kind == BlockToken && strings.HasSuffix(c, "/") && c != t.TagName()
}

var delimiters = []struct {
	open, close string
	kind        TokenKind
}{
	{"{{", "}}", VarToken},
	{"{%", "%}", BlockToken},
	{"{#", "#}", CommentToken},
}

// lex splits src into tokens.
func lex(name, src string) ([]Token, error) {
	var tokens []Token
	line := 1
	for len(src) > 0 {
		start, kindIdx := -1, -1
		for i, d := range delimiters {
			if idx := strings.Index(src, d.open); idx >= 0 && (start < 0 || idx < start) {
				start, kindIdx = idx, i
			}
		}
		if start < 0 {
			tokens = append(tokens, Token{Kind: TextToken, Contents: src, Line: line})
			break
		}
		if start > 0 {
			text := src[:start]
			tokens = append(tokens, Token{Kind: TextToken, Contents: text, Line: line})
			line += strings.Count(text, "\n")
			src = src[start:]
		}

		d := delimiters[kindIdx]
		end := strings.Index(src[len(d.open):], d.close)
		if end < 0 {
			return nil, &SyntaxError{Name: name, Line: line, Msg: "unclosed " + d.open}
		}
		inner := src[len(d.open) : len(d.open)+end]
		tokens = append(tokens, Token{Kind: d.kind, Contents: strings.TrimSpace(inner), Line: line})
		line += strings.Count(inner, "\n")
		src = src[len(d.open)+end+len(d.close):]
	}
	return tokens, nil
}
