package app

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/ludo-technologies/treediff/domain"
)

type mockDiffService struct {
	mock.Mock
}

func (m *mockDiffService) Diff(ctx context.Context, req domain.DiffRequest) (*domain.DiffResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiffResponse), args.Error(1)
}

func (m *mockDiffService) DiffSources(ctx context.Context, srcPath string, src []byte, dstPath string, dst []byte, settings domain.DiffSettings) (*domain.DiffResponse, error) {
	args := m.Called(ctx, srcPath, src, dstPath, dst, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiffResponse), args.Error(1)
}

type mockDirDiffService struct {
	mock.Mock
}

func (m *mockDirDiffService) DiffDirectories(ctx context.Context, req domain.DirDiffRequest) (*domain.DirDiffResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirDiffResponse), args.Error(1)
}

type mockParseService struct {
	mock.Mock
}

func (m *mockParseService) Parse(ctx context.Context, path string) (*domain.ParseResponse, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseResponse), args.Error(1)
}

type mockOutputFormatter struct {
	mock.Mock
}

func (m *mockOutputFormatter) SetColorMode(mode domain.ColorMode) {
	m.Called(mode)
}

func (m *mockOutputFormatter) WriteDiff(response *domain.DiffResponse, format domain.OutputFormat, writer io.Writer) error {
	return m.Called(response, format, writer).Error(0)
}

func (m *mockOutputFormatter) WriteDirDiff(response *domain.DirDiffResponse, format domain.OutputFormat, writer io.Writer) error {
	return m.Called(response, format, writer).Error(0)
}

func (m *mockOutputFormatter) WriteParse(response *domain.ParseResponse, format domain.OutputFormat, writer io.Writer) error {
	return m.Called(response, format, writer).Error(0)
}

type mockConfigurationLoader struct {
	mock.Mock
}

func (m *mockConfigurationLoader) LoadConfig(path, target string) (*domain.DiffSettings, error) {
	args := m.Called(path, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiffSettings), args.Error(1)
}

func (m *mockConfigurationLoader) MergeConfig(base *domain.DiffSettings, override *domain.DiffSettings) *domain.DiffSettings {
	return m.Called(base, override).Get(0).(*domain.DiffSettings)
}

// passthroughWriter hands the request writer to the report function
type passthroughWriter struct{}

func (passthroughWriter) Write(writer io.Writer, _ string, _ domain.OutputFormat, writeFunc func(io.Writer) error) error {
	return writeFunc(writer)
}
