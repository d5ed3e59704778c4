//go:build windows

package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// checkAccess confirms dir is reachable and that a file can be created and
// removed in it. The read-only attribute on Windows directories does not
// block writes, so only an actual create answers the question.
func checkAccess(dir string) error {
	name, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(name)
	if err != nil {
		return err
	}
	if attrs&windows.FILE_ATTRIBUTE_DIRECTORY == 0 {
		return fmt.Errorf("%s is not a directory", dir)
	}
	f, err := os.CreateTemp(dir, ".stagecast-access-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Remove(tmp)
}
