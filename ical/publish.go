package ical

import (
	"fmt"
	"os"
	"path/filepath"
)

const FileName = "calendar.ics"

// Publish writes the serialized calendar to <dir>/<token>/calendar.ics and
// returns the written path. The token segment keeps the URL unguessable, it
// is obscurity and not authentication. The write goes through a temp file and
// a rename so subscribers never fetch a half-written document.
func Publish(dir, token string, payload []byte) (string, error) {
	if len(token) == 0 {
		return "", fmt.Errorf("refusing to publish without a path token")
	}

	target := filepath.Join(dir, token, FileName)
	targetDir := filepath.Dir(target)
	if err := os.MkdirAll(targetDir, 0o700); err != nil {
		return "", fmt.Errorf("unable to create %s: %w", targetDir, err)
	}

	tmp, err := os.CreateTemp(targetDir, ".calendar-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", err
	}
	return target, nil
}
