package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildTreediffBinary builds cmd/treediff into a temporary directory
func buildTreediffBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "treediff")

	// Build from the project root, one level up from e2e
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/treediff")
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build treediff binary: %v\n%s", err, out)
	}
	return binaryPath
}

// createTestFile writes content to dir/rel, creating parent directories
func createTestFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", rel, err)
	}
	return path
}
