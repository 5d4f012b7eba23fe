package mcp

import (
	"io"
	"log/slog"

	"github.com/ludo-technologies/treediff/app"
	"github.com/ludo-technologies/treediff/domain"
	"github.com/ludo-technologies/treediff/internal/config"
	"github.com/ludo-technologies/treediff/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	logger     *slog.Logger
	configPath string
}

// NewDependencies constructs the dependency set. An empty configPath
// searches for a configuration file above the compared files; logger may
// be nil.
func NewDependencies(configPath string, logger *slog.Logger) *Dependencies {
	return &Dependencies{configPath: configPath, logger: logger}
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// BuildDiffUseCase assembles a DiffUseCase. Only the settings marked in
// tracker override the configuration file.
func (d *Dependencies) BuildDiffUseCase(tracker *config.FlagTracker) (*app.DiffUseCase, error) {
	return app.NewDiffUseCaseBuilder().
		WithService(service.NewDiffService(d.logger)).
		WithFormatter(service.NewOutputFormatter()).
		WithConfigLoader(service.NewConfigurationLoader(tracker)).
		WithOutputWriter(service.NewFileOutputWriter(io.Discard)).
		Build()
}

// BuildDirDiffUseCase assembles a DirDiffUseCase without progress output
func (d *Dependencies) BuildDirDiffUseCase(tracker *config.FlagTracker) (*app.DirDiffUseCase, error) {
	dirDiff := service.NewDirDiffService(
		service.NewDirectoryComparator(),
		service.NewDiffService(d.logger),
		service.NewParallelExecutor(),
		nil,
		d.logger,
	)
	return app.NewDirDiffUseCaseBuilder().
		WithService(dirDiff).
		WithFormatter(service.NewOutputFormatter()).
		WithConfigLoader(service.NewConfigurationLoader(tracker)).
		WithOutputWriter(service.NewFileOutputWriter(io.Discard)).
		Build()
}

// BuildParseUseCase assembles a ParseUseCase
func (d *Dependencies) BuildParseUseCase() *app.ParseUseCase {
	return app.NewParseUseCase(
		service.NewParseService(),
		service.NewOutputFormatter(),
		service.NewFileOutputWriter(io.Discard),
	)
}

// toolSettings are the settings a tool call may override
func toolSettings(format domain.OutputFormat) domain.DiffSettings {
	return domain.DiffSettings{OutputFormat: format, Color: domain.ColorNever}
}
