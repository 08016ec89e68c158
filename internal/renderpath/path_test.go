// internal/renderpath/path_test.go
package renderpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_String(t *testing.T) {
	testCases := []struct {
		name        string
		path        Path
		expectedStr string
	}{
		{
			name:        "components and slot",
			path:        Path{Segments: []Segment{NewComponent("A"), NewSlot("content"), NewComponent("B")}},
			expectedStr: "A > slot:content > B",
		},
		{
			name:        "fill segment",
			path:        Path{Segments: []Segment{NewComponent("Card"), NewFill("title")}},
			expectedStr: "Card > fill:title",
		},
		{
			name:        "empty path",
			path:        Path{},
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.path.String())
		})
	}
}

func TestPath_AppendDoesNotAlias(t *testing.T) {
	base := Path{}.Append(NewComponent("Page"))
	left := base.Append(NewSlot("left"))
	right := base.Append(NewSlot("right"))

	assert.Equal(t, "Page", base.String())
	assert.Equal(t, "Page > slot:left", left.String())
	assert.Equal(t, "Page > slot:right", right.String())
	assert.Equal(t, "Root > Page", base.Prepend(NewComponent("Root")).String())
	assert.Equal(t, []string{"Page"}, left.Components())
}

func TestPath_RoundTrip(t *testing.T) {
	for _, raw := range []string{
		"A",
		"A > slot:content > B",
		"Page > Card > fill:title > slot:icon",
	} {
		t.Run(raw, func(t *testing.T) {
			p, err := Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, p.String())

			again, err := Parse(p.String())
			require.NoError(t, err)
			assert.True(t, p.Equal(again))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, raw := range []string{"", "A >  > B", "A > slot:"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}
