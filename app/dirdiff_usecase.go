package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/treediff/domain"
)

// DirDiffUseCase orchestrates the comparison of two directories
type DirDiffUseCase struct {
	service      domain.DirDiffService
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
	output       domain.ReportWriter
}

// NewDirDiffUseCase creates a new directory diff use case. configLoader may
// be nil.
func NewDirDiffUseCase(
	service domain.DirDiffService,
	formatter domain.OutputFormatter,
	configLoader domain.ConfigurationLoader,
	output domain.ReportWriter,
) *DirDiffUseCase {
	return &DirDiffUseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       output,
	}
}

// Execute compares req.SrcDir with req.DstDir and writes the report
func (uc *DirDiffUseCase) Execute(ctx context.Context, req domain.DirDiffRequest) (*domain.DirDiffResponse, error) {
	if err := validateDirDiffRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	settings, err := loadSettings(uc.configLoader, req.ConfigPath, req.SrcDir, req.DiffSettings)
	if err != nil {
		return nil, err
	}
	req.DiffSettings = settings

	response, err := uc.service.DiffDirectories(ctx, req)
	if err != nil {
		return nil, wrapDomainError(err, func(err error) error {
			return domain.NewDiffError("directory comparison failed", err)
		})
	}

	format := reportFormat(settings.OutputFormat)
	uc.formatter.SetColorMode(settings.Color)
	err = uc.output.Write(req.OutputWriter, req.OutputPath, format, func(w io.Writer) error {
		return uc.formatter.WriteDirDiff(response, format, w)
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func validateDirDiffRequest(req domain.DirDiffRequest) error {
	if req.SrcDir == "" || req.DstDir == "" {
		return fmt.Errorf("source and destination directories are required")
	}
	if req.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative")
	}
	if req.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return validateOutput(req.OutputWriter, req.OutputPath, req.OutputFormat)
}

// DirDiffUseCaseBuilder provides a builder pattern for creating DirDiffUseCase
type DirDiffUseCaseBuilder struct {
	service      domain.DirDiffService
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
	output       domain.ReportWriter
}

// NewDirDiffUseCaseBuilder creates a new builder
func NewDirDiffUseCaseBuilder() *DirDiffUseCaseBuilder {
	return &DirDiffUseCaseBuilder{}
}

// WithService sets the directory diff service
func (b *DirDiffUseCaseBuilder) WithService(service domain.DirDiffService) *DirDiffUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *DirDiffUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *DirDiffUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *DirDiffUseCaseBuilder) WithConfigLoader(configLoader domain.ConfigurationLoader) *DirDiffUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *DirDiffUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *DirDiffUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the DirDiffUseCase with the configured dependencies
func (b *DirDiffUseCaseBuilder) Build() (*DirDiffUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("directory diff service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.output == nil {
		return nil, fmt.Errorf("report writer is required")
	}
	return NewDirDiffUseCase(b.service, b.formatter, b.configLoader, b.output), nil
}
