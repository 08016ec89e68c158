package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/specialistvlad/slotkit/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantCode int
		wantMsg  string
	}{
		{
			name: "positional template with defaults",
			args: []string{"page.html"},
			want: &app.Config{ComponentsPath: "components", TemplatePath: "page.html", LogFormat: "text", LogLevel: "warn"},
		},
		{
			name: "all flags",
			args: []string{"-t", "p.html", "-components", "ui", "-context", "ctx.json", "-behavior", "Isolated", "-deps", "raw", "-log-format", "json", "-log-level", "debug"},
			want: &app.Config{ComponentsPath: "ui", TemplatePath: "p.html", ContextPath: "ctx.json", Behavior: "isolated", Deps: "raw", LogFormat: "json", LogLevel: "debug"},
		},
		{
			name: "template flag wins over positional",
			args: []string{"-template", "a.html", "b.html"},
			want: &app.Config{ComponentsPath: "components", TemplatePath: "a.html", LogFormat: "text", LogLevel: "warn"},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no template", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"-nope"}, wantCode: 2, wantMsg: "flag provided but not defined"},
		{name: "bad level", args: []string{"-log-level", "loud", "p.html"}, wantCode: 2, wantMsg: "invalid log level"},
		{name: "bad deps", args: []string{"-deps", "bundle", "p.html"}, wantCode: 2, wantMsg: "unknown deps strategy"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, exit, err := Parse(tc.args, out)

			if tc.wantCode != 0 {
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, tc.wantCode, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, exit)
			if tc.wantExit {
				assert.Nil(t, cfg)
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			assert.Equal(t, tc.want, cfg)
		})
	}
}
