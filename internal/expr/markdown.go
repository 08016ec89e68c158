package expr

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

var (
	markdownOnce     sync.Once
	markdownRenderer goldmark.Markdown
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownRenderer
}

// MarkdownFunc renders a Markdown string to HTML. Raw HTML in the input is
// omitted, as goldmark does by default.
var MarkdownFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "text", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var buf bytes.Buffer
		if err := getMarkdown().Convert([]byte(args[0].AsString()), &buf); err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(buf.String()), nil
	},
})
