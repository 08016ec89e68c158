package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/slotkit/internal/component"
	"github.com/specialistvlad/slotkit/internal/ctxlog"
)

// Run renders the configured template and writes the result to the output
// writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "template", a.config.TemplatePath)

	src, err := os.ReadFile(a.config.TemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	rootContext := map[string]any{}
	if a.config.ContextPath != "" {
		vars, err := a.loader.LoadContext(ctx, a.config.ContextPath)
		if err != nil {
			return fmt.Errorf("failed to load render context: %w", err)
		}
		for k, v := range vars {
			rootContext[k] = v
		}
		a.logger.Debug("Render context loaded.", "variables", len(vars))
	}

	settings := a.registry.Settings()
	a.logger.Info("Rendering template.",
		"components", len(a.registry.Names()),
		"context_behavior", settings.ContextBehavior.Name(),
		"deps_strategy", string(settings.DepsStrategy),
	)

	out, err := component.RenderString(ctx, a.registry, string(src), component.RenderOptions{
		Context: rootContext,
	})
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if _, err := io.WriteString(a.outW, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Debug("App.Run method finished.", "bytes", len(out))
	return nil
}
