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

func TestParseUseCase(t *testing.T) {
	var out bytes.Buffer
	response := &domain.ParseResponse{Path: "main.go", Nodes: 3}

	svc := &mockParseService{}
	svc.On("Parse", mock.Anything, "main.go").Return(response, nil)
	svc.On("Parse", mock.Anything, "bad.go").Return(nil, errors.New("syntax"))
	formatter := &mockOutputFormatter{}
	formatter.On("SetColorMode", domain.ColorAlways).Return()
	formatter.On("WriteParse", response, domain.OutputFormatLisp, &out).Return(nil)

	uc := NewParseUseCase(svc, formatter, passthroughWriter{})

	tests := []struct {
		name string
		req  ParseRequest
		code string
	}{
		{
			name: "writes tree",
			req: ParseRequest{Path: "main.go", OutputFormat: domain.OutputFormatLisp,
				Color: domain.ColorAlways, OutputWriter: &out},
		},
		{name: "missing path", req: ParseRequest{OutputWriter: &out}, code: domain.ErrCodeInvalidInput},
		{name: "bad format", req: ParseRequest{Path: "main.go", OutputFormat: "csv", OutputWriter: &out}, code: domain.ErrCodeInvalidInput},
		{name: "parse failure", req: ParseRequest{Path: "bad.go", OutputWriter: &out}, code: domain.ErrCodeParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uc.Execute(context.Background(), tt.req)
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.code, domain.ErrorCode(err))
		})
	}
	formatter.AssertExpectations(t)
}
