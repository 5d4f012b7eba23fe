package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/treediff/domain"
)

// ParseUseCase dumps the tree generated for one file
type ParseUseCase struct {
	service   domain.ParseService
	formatter domain.OutputFormatter
	output    domain.ReportWriter
}

// NewParseUseCase creates a new parse use case
func NewParseUseCase(service domain.ParseService, formatter domain.OutputFormatter, output domain.ReportWriter) *ParseUseCase {
	return &ParseUseCase{service: service, formatter: formatter, output: output}
}

// ParseRequest represents a request to dump the tree of a file
type ParseRequest struct {
	Path         string
	OutputFormat domain.OutputFormat
	Color        domain.ColorMode
	OutputWriter io.Writer
	OutputPath   string
}

// Execute parses req.Path and writes its tree
func (uc *ParseUseCase) Execute(ctx context.Context, req ParseRequest) error {
	if req.Path == "" {
		return domain.NewInvalidInputError("invalid request", fmt.Errorf("a file path is required"))
	}
	if err := validateOutput(req.OutputWriter, req.OutputPath, req.OutputFormat); err != nil {
		return domain.NewInvalidInputError("invalid request", err)
	}

	response, err := uc.service.Parse(ctx, req.Path)
	if err != nil {
		return wrapDomainError(err, func(err error) error {
			return domain.NewParseError(req.Path, err)
		})
	}

	format := reportFormat(req.OutputFormat)
	uc.formatter.SetColorMode(req.Color)
	return uc.output.Write(req.OutputWriter, req.OutputPath, format, func(w io.Writer) error {
		return uc.formatter.WriteParse(response, format, w)
	})
}
