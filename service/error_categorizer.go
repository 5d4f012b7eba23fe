package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/treediff/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	patterns []categoryPatterns
}

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		patterns: initializeErrorPatterns(),
	}
}

var codeCategories = map[string]domain.ErrorCategory{
	domain.ErrCodeInvalidInput:      domain.ErrorCategoryInput,
	domain.ErrCodeFileNotFound:      domain.ErrorCategoryInput,
	domain.ErrCodeConfigError:       domain.ErrorCategoryConfig,
	domain.ErrCodeParseError:        domain.ErrorCategoryProcessing,
	domain.ErrCodeDiffError:         domain.ErrorCategoryProcessing,
	domain.ErrCodeOutputError:       domain.ErrorCategoryOutput,
	domain.ErrCodeUnsupportedFormat: domain.ErrorCategoryOutput,
}

// initializeErrorPatterns lists message fragments per category, checked in
// order for errors that carry no domain code
func initializeErrorPatterns() []categoryPatterns {
	return []categoryPatterns{
		{domain.ErrorCategoryTimeout, []string{"timeout", "deadline", "context canceled", "timed out"}},
		{domain.ErrorCategoryConfig, []string{"config", "toml", "unknown matcher option", "pipeline"}},
		{domain.ErrorCategoryInput, []string{"no such file", "not found", "permission denied", "directory", "unsupported language"}},
		{domain.ErrorCategoryProcessing, []string{"parse", "syntax", "replay", "validation"}},
		{domain.ErrorCategoryOutput, []string{"write", "output", "format"}},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	category := domain.ErrorCategoryUnknown
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		category = domain.ErrorCategoryTimeout
	default:
		if c, ok := codeCategories[domain.ErrorCode(err)]; ok {
			category = c
			break
		}
		msg := strings.ToLower(err.Error())
		for _, cp := range ec.patterns {
			if containsAnyPattern(msg, cp.patterns) {
				category = cp.category
				break
			}
		}
	}

	message := err.Error()
	if category != domain.ErrorCategoryUnknown {
		message = categoryMessages[category]
	}
	return &domain.CategorizedError{
		Category: category,
		Message:  message,
		Original: err,
	}
}

var categoryMessages = map[domain.ErrorCategory]string{
	domain.ErrorCategoryInput:      "Failed to read input files or directories",
	domain.ErrorCategoryConfig:     "Configuration file or settings error",
	domain.ErrorCategoryTimeout:    "Comparison timed out",
	domain.ErrorCategoryOutput:     "Failed to generate or write output",
	domain.ErrorCategoryProcessing: "Failed to parse or diff the input trees",
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that both paths exist and are of the same kind (two files or two directories)",
			"Supported extensions: .go .java .js .mjs .cjs .py .json .yaml .yml",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration keys and values",
			"Try: treediff init to generate a valid config file",
		},
		domain.ErrorCategoryTimeout: {
			"Increase --timeout or narrow the comparison with --include/--exclude",
			"Large files compare faster with a heuristic pipeline than with --pipeline optimal",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions and the --format value",
		},
		domain.ErrorCategoryProcessing: {
			"Check the input files for syntax errors",
			"Run with --verbose for stage timings and mapping counts",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
