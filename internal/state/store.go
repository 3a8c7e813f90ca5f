/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store owns the game state tree and its JSON snapshot on disk. It is not
// safe for concurrent use; the dispatcher serializes all access.
type Store struct {
	fs        afero.Fs
	path      string
	state     *GameState
	recovered string
}

// Open loads the snapshot at path, falling back to empty defaults when the
// file is missing. A file that cannot be parsed is moved aside to
// path+".corrupt" and replaced by defaults.
func Open(fsys afero.Fs, path string) (*Store, error) {
	s := &Store{fs: fsys, path: path}

	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}

	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.state = New()
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var st GameState
	if err := json.Unmarshal(data, &st); err != nil {
		s.recovered = path + ".corrupt"
		if err := fsys.Rename(path, s.recovered); err != nil {
			return nil, fmt.Errorf("moving corrupt state file aside: %w", err)
		}
		s.state = New()
		return s, nil
	}

	st.backfill()
	s.state = &st

	return s, nil
}

func (s *Store) State() *GameState {
	return s.state
}

func (s *Store) Path() string {
	return s.path
}

// Recovered returns where a corrupt snapshot was moved during Open, or "".
func (s *Store) Recovered() string {
	return s.recovered
}

// Snapshot serializes the whole tree.
func (s *Store) Snapshot() ([]byte, error) {
	return json.Marshal(s.state)
}

// Save rewrites the snapshot. The data goes to a sibling temp file, is
// synced, and is renamed over the old snapshot, so a crash leaves either
// version intact.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := writeSynced(s.fs, tmp, data); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}

	// The rename itself is only durable once the directory is synced.
	if dir, err := s.fs.Open(filepath.Dir(s.path)); err == nil {
		_ = dir.Sync()
		_ = dir.Close()
	}

	return nil
}

func writeSynced(fsys afero.Fs, name string, data []byte) error {
	f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
