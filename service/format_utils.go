package service

import (
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/treediff/domain"
)

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	if err := enc.Close(); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

var (
	lispEscapeChars  = regexp.MustCompile(`[\\"]`)
	lispProtectChars = regexp.MustCompile(`[\s,"()]`)
)

// lispAtom escapes a value for s-expression output. Empty values and values
// containing separators are quoted.
func lispAtom(s string) string {
	text := lispEscapeChars.ReplaceAllString(s, `\$0`)
	if s == "" || lispProtectChars.MatchString(s) {
		return `"` + text + `"`
	}
	return text
}

// indent returns the prefix of a nesting level
func indent(level int) string {
	return strings.Repeat("  ", level)
}
