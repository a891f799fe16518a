package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/Belphemur/NrkDownload/internal/config"
)

const lockFileName = ".nrkdl.lock"

// acquireOutputLock keeps two runs from picking the same "name (N)" file
// in one output directory
func acquireOutputLock(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another nrkdl run is writing to %s", dir)
	}
	return lock, nil
}

func releaseOutputLock(lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Msg("Failed to release output directory lock")
	}
	_ = os.Remove(lock.Path())
}
