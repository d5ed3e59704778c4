//go:build unix

package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckDirectoryAccess_ReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	result := CheckDirectoryAccess("test", dir)
	if result.Passed {
		t.Fatal("expected failure for read-only dir")
	}
	if !strings.Contains(result.Detail, "insufficient permissions") {
		t.Fatalf("detail = %q, want insufficient permissions", result.Detail)
	}
}
