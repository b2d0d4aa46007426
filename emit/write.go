package emit

import (
	"os"
	"path/filepath"

	"github.com/teranos/jsbind/errors"
)

// WriteFile replaces path with data. The bytes go to a temporary file in
// the same directory which is then renamed over path, so a failed run
// leaves either the previous file or the complete new one.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to create %s", dir), errors.ErrWriteFailed)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to write %s", path), errors.ErrWriteFailed)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Mark(errors.Wrapf(err, "failed to write %s", path), errors.ErrWriteFailed)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Mark(errors.Wrapf(err, "failed to write %s", path), errors.ErrWriteFailed)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return errors.Mark(errors.Wrapf(err, "failed to write %s", path), errors.ErrWriteFailed)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Mark(errors.Wrapf(err, "failed to replace %s", path), errors.ErrWriteFailed)
	}
	return nil
}
