//go:build windows

package preflight

import (
	"os"
	"testing"
)

func TestCheckDirectoryAccess_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("access check left files behind: %v", entries)
	}
}
