package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ludo-technologies/treediff/domain"
)

// DiffUseCase orchestrates the diff of two files: configuration, the diff
// itself and report output
type DiffUseCase struct {
	service      domain.DiffService
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
	output       domain.ReportWriter
}

// NewDiffUseCase creates a new diff use case. configLoader may be nil.
func NewDiffUseCase(
	service domain.DiffService,
	formatter domain.OutputFormatter,
	configLoader domain.ConfigurationLoader,
	output domain.ReportWriter,
) *DiffUseCase {
	return &DiffUseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       output,
	}
}

// Execute diffs req.SrcPath against req.DstPath and writes the report
func (uc *DiffUseCase) Execute(ctx context.Context, req domain.DiffRequest) (*domain.DiffResponse, error) {
	if err := validateDiffRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	settings, err := loadSettings(uc.configLoader, req.ConfigPath, req.SrcPath, req.DiffSettings)
	if err != nil {
		return nil, err
	}
	req.DiffSettings = settings

	response, err := uc.service.Diff(ctx, req)
	if err != nil {
		return nil, wrapDomainError(err, func(err error) error {
			return domain.NewDiffError("diff failed", err)
		})
	}

	format := reportFormat(settings.OutputFormat)
	uc.formatter.SetColorMode(settings.Color)
	err = uc.output.Write(req.OutputWriter, req.OutputPath, format, func(w io.Writer) error {
		return uc.formatter.WriteDiff(response, format, w)
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func validateDiffRequest(req domain.DiffRequest) error {
	if req.SrcPath == "" || req.DstPath == "" {
		return fmt.Errorf("source and destination paths are required")
	}
	return validateOutput(req.OutputWriter, req.OutputPath, req.OutputFormat)
}

// validateOutput checks that the report has somewhere to go and a known
// format. An empty format is resolved later from configuration.
func validateOutput(writer io.Writer, outputPath string, format domain.OutputFormat) error {
	if writer == nil && outputPath == "" {
		return fmt.Errorf("output writer or output path is required")
	}
	if format == "" {
		return nil
	}
	if _, err := domain.ParseOutputFormat(string(format)); err != nil {
		return err
	}
	return nil
}

// loadSettings loads the configuration file, found from configPath or
// searched for above target, and applies the request settings over it
func loadSettings(loader domain.ConfigurationLoader, configPath, target string, requested domain.DiffSettings) (domain.DiffSettings, error) {
	if loader == nil {
		return requested, nil
	}
	base, err := loader.LoadConfig(configPath, target)
	if err != nil {
		return requested, wrapDomainError(err, func(err error) error {
			return domain.NewConfigError("failed to load configuration", err)
		})
	}
	return *loader.MergeConfig(base, &requested), nil
}

func reportFormat(format domain.OutputFormat) domain.OutputFormat {
	if format == "" {
		return domain.OutputFormatText
	}
	return format
}

// wrapDomainError keeps errors that already carry a domain code and wraps
// the others
func wrapDomainError(err error, wrap func(error) error) error {
	if domain.ErrorCode(err) != "" {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return wrap(err)
}

// DiffUseCaseBuilder provides a builder pattern for creating DiffUseCase
type DiffUseCaseBuilder struct {
	service      domain.DiffService
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
	output       domain.ReportWriter
}

// NewDiffUseCaseBuilder creates a new builder
func NewDiffUseCaseBuilder() *DiffUseCaseBuilder {
	return &DiffUseCaseBuilder{}
}

// WithService sets the diff service
func (b *DiffUseCaseBuilder) WithService(service domain.DiffService) *DiffUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *DiffUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *DiffUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *DiffUseCaseBuilder) WithConfigLoader(configLoader domain.ConfigurationLoader) *DiffUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *DiffUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *DiffUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the DiffUseCase with the configured dependencies
func (b *DiffUseCaseBuilder) Build() (*DiffUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("diff service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.output == nil {
		return nil, fmt.Errorf("report writer is required")
	}
	return NewDiffUseCase(b.service, b.formatter, b.configLoader, b.output), nil
}
