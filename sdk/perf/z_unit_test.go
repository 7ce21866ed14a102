package perf_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/multinom/sdk/perf"
)

func TestRunPProfModes(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	exe := func() error { calls++; return nil }

	require.NoError(t, perf.RunPProf(exe, perf.ModeNone, dir))
	for _, mode := range []string{perf.ModeCPU, perf.ModeHeap, perf.ModeAllocs} {
		require.NoError(t, perf.RunPProf(exe, mode, dir))
		st, err := os.Stat(filepath.Join(dir, mode+".pprof"))
		require.NoError(t, err, mode)
		assert.Greater(t, st.Size(), int64(0), mode)
	}
	assert.Equal(t, 4, calls)

	assert.Error(t, perf.RunPProf(exe, "trace", dir))
	assert.Equal(t, 4, calls)
}

func TestRunPProfPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	exe := func() error { return boom }
	for _, mode := range []string{perf.ModeNone, perf.ModeCPU, perf.ModeHeap, perf.ModeAllocs} {
		assert.ErrorIs(t, perf.RunPProf(exe, mode, t.TempDir()), boom, mode)
	}
}
