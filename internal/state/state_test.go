package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	st := store.Load("nobody")
	require.Equal(t, AccountState{}, st)
}

func TestSaveLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	want := AccountState{
		Fingerprint:         "abc123def456abcd",
		LastUpdateTime:      time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC),
		LastItemCount:       7,
		ConsecutiveFailures: 1,
		LastMirror:          "https://nitter.net",
	}
	require.NoError(t, store.Save("someuser", want))

	got := store.Load("someuser")
	require.Equal(t, want, got)
}

func TestCorruptRecordFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(dir, "someuser.json"), []byte("{not json"), 0644)
	require.NoError(t, err)

	require.Equal(t, AccountState{}, store.Load("someuser"))
}

func TestRecordIsHumanInspectable(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("someuser", AccountState{Fingerprint: "abc", LastItemCount: 3}))

	raw, err := os.ReadFile(filepath.Join(dir, "someuser.json"))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.Contains(t, fields, "fingerprint")
	require.Contains(t, fields, "last_update_time")
	require.Contains(t, fields, "last_item_count")
	require.Contains(t, fields, "consecutive_failures")
	require.Contains(t, fields, "last_mirror")
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("someuser", AccountState{Fingerprint: "abc"}))
	require.NoError(t, store.Save("someuser", AccountState{Fingerprint: "def"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "someuser.json", entries[0].Name())
}

func TestList(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("charlie", AccountState{}))
	require.NoError(t, store.Save("alice", AccountState{}))
	require.NoError(t, store.Save("bob", AccountState{}))

	list, err := store.List()
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob", "charlie"}, list)
}
