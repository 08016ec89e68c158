package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/slotkit/internal/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "minimal", cfg: Config{TemplatePath: "page.html"}},
		{name: "missing template", cfg: Config{}, wantErr: "TemplatePath"},
		{name: "bad behavior", cfg: Config{TemplatePath: "p", Behavior: "shared"}, wantErr: "shared"},
		{name: "bad deps", cfg: Config{TemplatePath: "p", Deps: "inline"}, wantErr: "unknown deps strategy"},
		{name: "bad format", cfg: Config{TemplatePath: "p", LogFormat: "xml"}, wantErr: "invalid log format"},
		{name: "bad level", cfg: Config{TemplatePath: "p", LogLevel: "trace"}, wantErr: "invalid log level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.cfg, *cfg)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRun_RendersTemplateWithManifestsAndContext(t *testing.T) {
	// --- Arrange ---
	dir := writeFiles(t, map[string]string{
		"components/settings.hcl": `
settings {
  deps_strategy = "simple"
}
`,
		"components/card.hcl": `
component "card" {
  template_file = "card.html"
  style         = ".card{}"

  input "title" {
    type    = string
    default = "Untitled"
  }
}
`,
		"components/card.html": `<div class="card"><h1>{{ title }}</h1>{% slot "body" default %}empty{% endslot %}</div>`,
		"context.json":         `{"user": {"name": "ada"}}`,
		"page.html":            `<html><head></head><body>{% component "card" %}Hi {{ user.name }}{% endcomponent %}</body></html>`,
	})
	cfg := &Config{
		ComponentsPath: filepath.Join(dir, "components"),
		TemplatePath:   filepath.Join(dir, "page.html"),
		ContextPath:    filepath.Join(dir, "context.json"),
	}
	a, out, logs := SetupAppTest(t, cfg)

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t,
		`<html><head><style data-slotkit-class="`+mustClassID(t, a, "card")+`">.card{}</style></head>`+
			`<body><div class="card"><h1>Untitled</h1>Hi ada</div></body></html>`,
		out.String())
	assert.Contains(t, logs.String(), "Rendering template.")
}

func mustClassID(t *testing.T, a *App, name string) string {
	t.Helper()
	def, ok := a.Registry().Get(name)
	require.True(t, ok)
	return def.ClassID()
}

func TestRun_OverridesManifestSettings(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"components/settings.hcl": `
settings {
  deps_strategy = "simple"
}
`,
		"components/b.hcl": `component "b" { template = "<b>{% slot \"x\" default %}{% endslot %}</b>" }`,
		"page.html":        `{% component "b" %}bold{% endcomponent %}`,
	})
	cfg := &Config{
		ComponentsPath: filepath.Join(dir, "components"),
		TemplatePath:   filepath.Join(dir, "page.html"),
		Deps:           "ignore",
		Behavior:       "isolated",
	}
	a, out, _ := SetupAppTest(t, cfg)

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "<b>bold</b>", out.String())
	assert.Equal(t, "isolated", a.Registry().Settings().ContextBehavior.Name())
}

func TestRun_RegistersGoComponents(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.html": `{% component "shout" word="hey" / %}`,
	})
	shout := &component.Definition{
		Name:     "shout",
		Template: `{{ upper(word) }}!`,
	}
	a, out, _ := SetupAppTest(t, &Config{TemplatePath: filepath.Join(dir, "page.html"), Deps: "ignore"}, shout)

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "HEY!", out.String())
}

func TestRun_RenderErrorCarriesPath(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"components/c.hcl": `
component "outer" { template = "{% component \"inner\" %}{% endcomponent %}" }
component "inner" { template = "{% slot \"must\" required %}{% endslot %}" }
`,
		"page.html": `{% component "outer" / %}`,
	})
	cfg := &Config{ComponentsPath: filepath.Join(dir, "components"), TemplatePath: filepath.Join(dir, "page.html")}
	a, out, _ := SetupAppTest(t, cfg)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outer > inner > slot:must")
	assert.True(t, component.IsConfigError(err))
	assert.Empty(t, out.String())
}

func TestNewApp_PanicsOnInvalidRegistry(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"components/c.hcl": `component "page" { template = "{% component \"ghost\" / %}" }`,
	})
	cfg := &Config{ComponentsPath: filepath.Join(dir, "components"), TemplatePath: "unused.html"}

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		SetupAppTest(t, cfg)
	}()
	require.NotNil(t, recovered)
	err, ok := recovered.(error)
	require.True(t, ok)
	assert.Contains(t, err.Error(), "registry validation failed:")
	assert.Contains(t, err.Error(), "references unknown component 'ghost' at page:1")
}

func TestNewApp_PanicsOnLoadError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"components/c.hcl": `component "x" {`})
	cfg := &Config{ComponentsPath: filepath.Join(dir, "components"), TemplatePath: "unused.html"}

	assert.Panics(t, func() { SetupAppTest(t, cfg) })
}

func TestRun_MissingTemplate(t *testing.T) {
	a, _, _ := SetupAppTest(t, &Config{TemplatePath: filepath.Join(t.TempDir(), "nope.html")})
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read template")
}
