package staging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFileName is the lock file created inside a staged output directory.
const LockFileName = ".simbuild.lock"

// lockRetryDelay is how often a waiting writer polls the directory lock.
const lockRetryDelay = 25 * time.Millisecond

// withDirLock runs fn while holding the exclusive lock of the output directory.
// Writers in other goroutines and processes wait for it until ctx is done.
func withDirLock(ctx context.Context, dir string, fn func() error) error {
	lock := flock.New(filepath.Join(dir, LockFileName))

	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock output directory %s: %w", dir, err)
	}
	if !locked {
		return fmt.Errorf("output directory %s is locked by another build", dir)
	}
	defer lock.Unlock()

	return fn()
}

// replaceFile swaps data into path through a sibling temp file, so a reader
// sees either the previous content or the new one.
func replaceFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	err = errors.Join(err, tmp.Close())
	if err == nil {
		err = os.Chmod(tmp.Name(), 0644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
