package nativelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterAppendsToDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	w, err := NewWriter(dir)
	require.NoError(t, err)

	day := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return day }

	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	day = day.Add(2 * time.Minute)
	_, err = w.Write([]byte("third\n"))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "stdout_2024-03-09.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(got))

	got, err = os.ReadFile(filepath.Join(dir, "stdout_2024-03-10.log"))
	require.NoError(t, err)
	assert.Equal(t, "third\n", string(got))
}

func TestNewZapLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewZapLogger(dir, false)
	require.NoError(t, err)

	logger.Info("draft created")
	_ = logger.Sync()

	got, err := os.ReadFile(filepath.Join(dir, DailyFilename(time.Now())))
	require.NoError(t, err)
	assert.Contains(t, string(got), `"msg":"draft created"`)
}
