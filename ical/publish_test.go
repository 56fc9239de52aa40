package ical

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWritesCalendar(t *testing.T) {
	dir := t.TempDir()
	payload := Encode(sampleEvents())

	path, err := Publish(dir, "s3cr3t-t0k3n", payload)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "s3cr3t-t0k3n", FileName), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestPublishOverwrites(t *testing.T) {
	dir := t.TempDir()

	_, err := Publish(dir, "tok", []byte("first"))
	require.NoError(t, err)
	path, err := Publish(dir, "tok", []byte("second"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	leftovers, err := filepath.Glob(filepath.Join(dir, "tok", ".calendar-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files should not survive a publish")
}

func TestPublishNeedsToken(t *testing.T) {
	_, err := Publish(t.TempDir(), "", []byte("data"))
	assert.Error(t, err)
}
