// file: internal/store/store_test.go
// version: 1.0.0
// guid: 8b9c0d1e-2f3a-4b5c-6d7e-8f9a0b1c2d3e

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.pebble"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.LoadSettings()
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should have no settings")

	require.NoError(t, s.SaveSettings([]byte(`{"default_quality":2}`)))

	data, ok, err := s.LoadSettings()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"default_quality":2}`, string(data))
}

func TestRecordAndListDownloads(t *testing.T) {
	s := openTestStore(t)

	base := time.Now().UTC()
	for i, gid := range []string{"aaa", "bbb", "ccc"} {
		require.NoError(t, s.RecordDownload(DownloadRecord{
			GID:         gid,
			UserID:      1,
			URL:         "https://qobuz.com/album/" + gid,
			Platform:    "qobuz",
			Quality:     3,
			Codec:       "flac",
			Files:       10,
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recs, err := s.ListDownloads(0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	// newest first
	assert.Equal(t, "ccc", recs[0].GID)
	assert.Equal(t, "aaa", recs[2].GID)

	limited, err := s.ListDownloads(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, "ccc", limited[0].GID)
}

func TestRecordDownloadRequiresGID(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.RecordDownload(DownloadRecord{}))
}
