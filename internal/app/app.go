package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/slotkit/internal/component"
	"github.com/specialistvlad/slotkit/internal/config"
	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/deps"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	registry *component.Registry
}

// NewApp is the constructor for the main application. It loads the component
// manifests, builds the registry and validates it. Rendered output goes to
// outW and logs to logW. Go-defined components in defs are registered before
// the manifests.
//
// A configuration that cannot be loaded or validated is a fatal startup error
// and panics; the entrypoint recovers it.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, defs ...*component.Definition) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var configPaths []string
	if appConfig.ComponentsPath != "" {
		configPaths = append(configPaths, appConfig.ComponentsPath)
	}

	cfgModel, converter, err := loader.Load(ctx, configPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.", "components", len(cfgModel.Components))

	settings, err := resolveSettings(appConfig, cfgModel.Settings)
	if err != nil {
		panic(fmt.Errorf("invalid settings: %w", err))
	}

	reg := component.NewRegistry(settings, component.WithConverter(converter))
	for _, def := range defs {
		reg.Register(def)
	}
	logger.Debug("All Go components registered.", "count", len(defs))

	if err := reg.RegisterModel(cfgModel); err != nil {
		panic(err)
	}
	logger.Debug("Registry definitions populated from config model.")

	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		loader:   loader,
		registry: reg,
	}
}

// resolveSettings applies the CLI overrides on top of the manifest settings.
func resolveSettings(appConfig *Config, fromModel *config.Settings) (component.Settings, error) {
	settings, err := component.SettingsFromModel(fromModel)
	if err != nil {
		return settings, err
	}
	if appConfig.Behavior != "" {
		b, err := component.ParseBehavior(appConfig.Behavior)
		if err != nil {
			return settings, err
		}
		settings.ContextBehavior = b
	}
	if appConfig.Deps != "" {
		s, err := deps.ParseStrategy(appConfig.Deps)
		if err != nil {
			return settings, err
		}
		settings.DepsStrategy = s
	}
	return settings, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *component.Registry {
	return a.registry
}
