package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treediff/domain"
)

func TestDiffUseCaseExecute(t *testing.T) {
	var out bytes.Buffer
	req := domain.DiffRequest{
		SrcPath:      "a.json",
		DstPath:      "b.json",
		OutputWriter: &out,
		DiffSettings: domain.DiffSettings{OutputFormat: domain.OutputFormatJSON},
	}
	fileSettings := &domain.DiffSettings{Pipeline: "simple", Color: domain.ColorNever}
	merged := &domain.DiffSettings{Pipeline: "simple", Color: domain.ColorNever, OutputFormat: domain.OutputFormatJSON}
	response := &domain.DiffResponse{Pipeline: "simple"}

	svc := &mockDiffService{}
	formatter := &mockOutputFormatter{}
	loader := &mockConfigurationLoader{}

	loader.On("LoadConfig", "", "a.json").Return(fileSettings, nil)
	loader.On("MergeConfig", fileSettings, &req.DiffSettings).Return(merged)
	svc.On("Diff", mock.Anything, mock.MatchedBy(func(r domain.DiffRequest) bool {
		return r.Pipeline == "simple" && r.SrcPath == "a.json"
	})).Return(response, nil)
	formatter.On("SetColorMode", domain.ColorNever).Return()
	formatter.On("WriteDiff", response, domain.OutputFormatJSON, &out).Return(nil)

	uc, err := NewDiffUseCaseBuilder().
		WithService(svc).
		WithFormatter(formatter).
		WithConfigLoader(loader).
		WithOutputWriter(passthroughWriter{}).
		Build()
	require.NoError(t, err)

	got, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, response, got)
	svc.AssertExpectations(t)
	formatter.AssertExpectations(t)
	loader.AssertExpectations(t)
}

func TestDiffUseCaseErrors(t *testing.T) {
	var out bytes.Buffer
	valid := domain.DiffRequest{SrcPath: "a.json", DstPath: "b.json", OutputWriter: &out}

	tests := []struct {
		name  string
		req   domain.DiffRequest
		setup func(svc *mockDiffService, loader *mockConfigurationLoader)
		code  string
	}{
		{
			name: "missing path",
			req:  domain.DiffRequest{SrcPath: "a.json", OutputWriter: &out},
			code: domain.ErrCodeInvalidInput,
		},
		{
			name: "no output",
			req:  domain.DiffRequest{SrcPath: "a.json", DstPath: "b.json"},
			code: domain.ErrCodeInvalidInput,
		},
		{
			name: "bad format",
			req: domain.DiffRequest{SrcPath: "a.json", DstPath: "b.json", OutputWriter: &out,
				DiffSettings: domain.DiffSettings{OutputFormat: "xml"}},
			code: domain.ErrCodeInvalidInput,
		},
		{
			name: "config failure",
			req:  valid,
			setup: func(_ *mockDiffService, loader *mockConfigurationLoader) {
				loader.On("LoadConfig", "", "a.json").Return(nil, errors.New("broken"))
			},
			code: domain.ErrCodeConfigError,
		},
		{
			name: "service domain error kept",
			req:  valid,
			setup: func(svc *mockDiffService, loader *mockConfigurationLoader) {
				loader.On("LoadConfig", "", "a.json").Return(&domain.DiffSettings{}, nil)
				loader.On("MergeConfig", mock.Anything, mock.Anything).Return(&domain.DiffSettings{})
				svc.On("Diff", mock.Anything, mock.Anything).Return(nil, domain.NewParseError("a.json", nil))
			},
			code: domain.ErrCodeParseError,
		},
		{
			name: "plain service error wrapped",
			req:  valid,
			setup: func(svc *mockDiffService, loader *mockConfigurationLoader) {
				loader.On("LoadConfig", "", "a.json").Return(&domain.DiffSettings{}, nil)
				loader.On("MergeConfig", mock.Anything, mock.Anything).Return(&domain.DiffSettings{})
				svc.On("Diff", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
			},
			code: domain.ErrCodeDiffError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockDiffService{}
			loader := &mockConfigurationLoader{}
			if tt.setup != nil {
				tt.setup(svc, loader)
			}
			uc := NewDiffUseCase(svc, &mockOutputFormatter{}, loader, passthroughWriter{})

			_, err := uc.Execute(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.ErrorCode(err))
		})
	}
}

func TestDiffUseCaseWithoutConfigLoader(t *testing.T) {
	var out bytes.Buffer
	req := domain.DiffRequest{SrcPath: "a.json", DstPath: "b.json", OutputWriter: &out}
	response := &domain.DiffResponse{}

	svc := &mockDiffService{}
	svc.On("Diff", mock.Anything, req).Return(response, nil)
	formatter := &mockOutputFormatter{}
	formatter.On("SetColorMode", domain.ColorMode("")).Return()
	formatter.On("WriteDiff", response, domain.OutputFormatText, &out).Return(nil)

	_, err := NewDiffUseCase(svc, formatter, nil, passthroughWriter{}).Execute(context.Background(), req)
	require.NoError(t, err)
	formatter.AssertExpectations(t)
}

func TestDiffUseCaseBuilderRequiresDependencies(t *testing.T) {
	_, err := NewDiffUseCaseBuilder().Build()
	assert.Error(t, err)

	_, err = NewDiffUseCaseBuilder().WithService(&mockDiffService{}).Build()
	assert.Error(t, err)

	_, err = NewDiffUseCaseBuilder().WithService(&mockDiffService{}).WithFormatter(&mockOutputFormatter{}).Build()
	assert.Error(t, err)
}
