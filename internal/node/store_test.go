package node

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "api_key.txt"), filepath.Join(dir, "setup_status.txt"))
}

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore("", "")
	assert.Equal(t, DefaultCredentialFile, s.CredentialPath())
	assert.Equal(t, DefaultMarkerFile, s.MarkerPath())
}

func TestStoreStateTransitions(t *testing.T) {
	s := newTestStore(t)

	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, StateUnconfigured, state)

	require.NoError(t, s.WriteCredential("XYZ"))
	state, err = s.State()
	require.NoError(t, err)
	assert.Equal(t, StateConfiguring, state)

	require.NoError(t, s.MarkSetupComplete())
	state, err = s.State()
	require.NoError(t, err)
	assert.Equal(t, StateReady, state)
}

func TestStoreStateObservesManualDeletion(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteCredential("XYZ"))
	require.NoError(t, s.MarkSetupComplete())

	require.NoError(t, os.Remove(s.MarkerPath()))
	state, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, StateConfiguring, state)

	require.NoError(t, os.Remove(s.CredentialPath()))
	state, err = s.State()
	require.NoError(t, err)
	assert.Equal(t, StateUnconfigured, state)
}

func TestWriteCredentialExactContent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.WriteCredential("XYZ"))

	data, err := os.ReadFile(s.CredentialPath())
	require.NoError(t, err)
	assert.Equal(t, "XYZ", string(data))

	info, err := os.Stat(s.CredentialPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteCredentialOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.WriteCredential("a-much-longer-first-key"))
	require.NoError(t, s.WriteCredential("short"))

	data, err := os.ReadFile(s.CredentialPath())
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestWriteCredentialLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.WriteCredential("XYZ"))
	require.NoError(t, s.MarkSetupComplete())

	entries, err := os.ReadDir(filepath.Dir(s.CredentialPath()))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"api_key.txt", "setup_status.txt"}, names)
}

func TestWriteCredentialMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "missing", "api_key.txt"), filepath.Join(dir, "setup_status.txt"))

	err := s.WriteCredential("XYZ")
	assert.Error(t, err)
}

func TestMarkSetupCompleteNonEmpty(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.MarkSetupComplete())

	data, err := os.ReadFile(s.MarkerPath())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "UNCONFIGURED", StateUnconfigured.String())
	assert.Equal(t, "CONFIGURING", StateConfiguring.String())
	assert.Equal(t, "READY", StateReady.String())
	assert.Equal(t, "UNKNOWN", State(42).String())
}
