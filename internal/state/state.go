// Package state persists one change-detection record per account as a
// human-inspectable JSON file.
package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type AccountState struct {
	// last accepted content fingerprint, "" when the account has
	// never been seen
	Fingerprint string `json:"fingerprint"`
	// time of the last accepted feed write, zero when never written
	LastUpdateTime time.Time `json:"last_update_time"`
	LastItemCount  int       `json:"last_item_count"`
	// incremented when every mirror fails for the account, reset on
	// any successful non-empty fetch
	ConsecutiveFailures int    `json:"consecutive_failures"`
	LastMirror          string `json:"last_mirror"`
}

type Store struct {
	dir string
}

func NewStore(dir string) (Store, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return Store{}, fmt.Errorf("create state dir: %w", err)
	}
	return Store{dir: dir}, nil
}

func (s Store) path(account string) string {
	return filepath.Join(s.dir, account+".json")
}

// Load never fails: a missing or unreadable record yields the zero
// AccountState, which is the defined default for an unseen account.
// Corruption is logged so a mangled record doesn't vanish silently.
func (s Store) Load(account string) AccountState {
	var st AccountState

	raw, err := os.ReadFile(s.path(account))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("unreadable state record, using defaults", "account", account, "err", err)
		}
		return AccountState{}
	}

	err = json.Unmarshal(raw, &st)
	if err != nil {
		slog.Warn("corrupt state record, using defaults", "account", account, "err", err)
		return AccountState{}
	}

	return st
}

// Save writes the record through a temp file and a rename so a
// concurrent reader never observes a half-written document.
func (s Store) Save(account string, st AccountState) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, account+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	_, err = tmp.Write(raw)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write state record: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	err = os.Rename(tmp.Name(), s.path(account))
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state record: %w", err)
	}
	return nil
}

// List returns every stored account in sorted order.
func (s Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}
