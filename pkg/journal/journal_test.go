package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteRun(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	w.nowFn = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	path, err := w.WriteRun(&RunRecord{
		Surface:     "cost",
		SessionID:   "session-1",
		PayloadJSON: `{"currency":"USD"}`,
		Success:     true,
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "run_20240301_120000_00001.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec RunRecord
	require.NoError(t, json.Unmarshal(raw, &rec))
	require.Equal(t, "cost", rec.Surface)
	require.Equal(t, 1, rec.RunNumber)
	require.True(t, rec.Success)
}

func TestWriteRunNil(t *testing.T) {
	w := NewWriter(t.TempDir())
	_, err := w.WriteRun(nil)
	require.Error(t, err)
}

func TestSequenceIncrements(t *testing.T) {
	w := NewWriter(t.TempDir())
	for i := 1; i <= 3; i++ {
		_, err := w.WriteRun(&RunRecord{Surface: "swot", Success: true})
		require.NoError(t, err)
	}
	require.Equal(t, 3, w.seq)
}
