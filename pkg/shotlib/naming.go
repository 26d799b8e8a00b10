package shotlib

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15-04"
	FileExt    = ".jpeg"
)

// DayFolder is the name of the per-day folder under the save directory.
func DayFolder(now time.Time) string {
	return now.Format(DateLayout)
}

// FileName returns "<date>_<HH-MM>(<n>).jpeg" where n is displayIndex+1.
func FileName(now time.Time, displayIndex int) string {
	return fmt.Sprintf("%s_%s(%d)%s", now.Format(DateLayout), now.Format(TimeLayout), displayIndex+1, FileExt)
}

// ResolveOutputPath maps a capture to its location under root. Two calls
// with the same root, minute and index yield the same path.
func ResolveOutputPath(root string, now time.Time, displayIndex int) string {
	return filepath.Join(root, DayFolder(now), FileName(now, displayIndex))
}

// EnsureDayDir creates the day folder for now under root if it does not
// exist yet and returns its path.
func EnsureDayDir(fs afero.Fs, root string, now time.Time) (string, error) {
	dir := filepath.Join(root, DayFolder(now))
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrIO, dir, err)
	}
	return dir, nil
}

// PrepareSaveDirectory makes sure dir exists, is a directory and accepts
// new files. Failures are reported as ErrConfiguration.
func PrepareSaveDirectory(fs afero.Fs, dir string) error {
	if dir == "" {
		return configError("save directory is required")
	}
	info, err := fs.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return configError("cannot create save directory %s: %v", dir, err)
		}
	case err != nil:
		return configError("cannot access save directory %s: %v", dir, err)
	case !info.IsDir():
		return configError("save directory is not a directory: %s", dir)
	}
	probe := filepath.Join(dir, fmt.Sprintf(".autoshot_write_test_%d", os.Getpid()))
	f, err := fs.OpenFile(probe, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return configError("save directory is not writable: %s", dir)
	}
	_ = f.Close()
	_ = fs.Remove(probe)
	return nil
}
