package node

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	DefaultCredentialFile = "api_key.txt"
	DefaultMarkerFile     = "setup_status.txt"

	markerContent = "setup completed\n"
)

// Store owns the two flag files that record provisioning progress.
// All mutations are serialized; reads take no lock.
type Store struct {
	credentialPath string
	markerPath     string
	mu             sync.Mutex
}

func NewStore(credentialPath, markerPath string) *Store {
	if credentialPath == "" {
		credentialPath = DefaultCredentialFile
	}
	if markerPath == "" {
		markerPath = DefaultMarkerFile
	}
	return &Store{
		credentialPath: credentialPath,
		markerPath:     markerPath,
	}
}

func (s *Store) CredentialPath() string {
	return s.credentialPath
}

func (s *Store) MarkerPath() string {
	return s.markerPath
}

// State re-reads the filesystem and reports the current provisioning state.
func (s *Store) State() (State, error) {
	hasCredential, err := fileExists(s.credentialPath)
	if err != nil {
		return StateUnconfigured, fmt.Errorf("failed to stat credential file: %w", err)
	}
	hasMarker, err := fileExists(s.markerPath)
	if err != nil {
		return StateUnconfigured, fmt.Errorf("failed to stat marker file: %w", err)
	}
	return deriveState(hasCredential, hasMarker), nil
}

// WriteCredential replaces the credential file with exactly key.
func (s *Store) WriteCredential(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.credentialPath, []byte(key), 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	slog.Debug("Credential file written", "path", s.credentialPath)
	return nil
}

// MarkSetupComplete records that the setup command succeeded.
func (s *Store) MarkSetupComplete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.markerPath, []byte(markerContent), 0644); err != nil {
		return fmt.Errorf("failed to write marker file: %w", err)
	}
	slog.Debug("Setup marker written", "path", s.markerPath)
	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, so readers see either the old content or the new one.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	tmpName = ""
	return nil
}
