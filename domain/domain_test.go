package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		code string
		text string
	}{
		{
			name: "parse error",
			err:  NewParseError("a.py", cause),
			code: ErrCodeParseError,
			text: "[PARSE_ERROR] failed to parse file: a.py: boom",
		},
		{
			name: "diff error",
			err:  NewDiffError("script replay failed", cause),
			code: ErrCodeDiffError,
			text: "[DIFF_ERROR] script replay failed: boom",
		},
		{
			name: "unsupported format",
			err:  NewUnsupportedFormatError("xml"),
			code: ErrCodeUnsupportedFormat,
			text: "[UNSUPPORTED_FORMAT] unsupported format: xml",
		},
		{
			name: "wrapped config error",
			err:  fmt.Errorf("loading: %w", NewConfigError("bad", nil)),
			code: ErrCodeConfigError,
			text: "loading: [CONFIG_ERROR] bad",
		},
		{
			name: "plain error",
			err:  cause,
			code: "",
			text: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(tt.err))
			assert.Equal(t, tt.text, tt.err.Error())
		})
	}

	assert.ErrorIs(t, NewFileNotFoundError("x", cause), cause)
}

func TestParseOutputFormat(t *testing.T) {
	for _, name := range []string{"text", "json", "yaml", "lisp"} {
		f, err := ParseOutputFormat(name)
		require.NoError(t, err)
		assert.Equal(t, OutputFormat(name), f)
	}
	_, err := ParseOutputFormat("html")
	assert.Equal(t, ErrCodeUnsupportedFormat, ErrorCode(err))
}

func TestColorMode(t *testing.T) {
	tests := []struct {
		mode     ColorMode
		terminal bool
		want     bool
	}{
		{ColorAlways, false, true},
		{ColorNever, true, false},
		{ColorAuto, true, true},
		{ColorAuto, false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.mode, tt.terminal), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Enabled(tt.terminal))
		})
	}
}
