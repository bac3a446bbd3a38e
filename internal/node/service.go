package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrNotConfigured   = errors.New("node not configured")
	ErrNotReady        = errors.New("node not ready")
	ErrEmptyCredential = errors.New("credential is empty")
	ErrCredentialWrite = errors.New("failed to save credential")
	ErrMarkerWrite     = errors.New("failed to record setup completion")
)

var (
	DefaultStatusCommand = []string{"sudo", "gala-node", "status"}
	DefaultSetupCommand  = []string{"./setup_gala_node.sh"}
)

type Service struct {
	store      *Store
	runner     Runner
	statusArgv []string
	setupArgv  []string

	// provisionMu serializes credential write, setup run and marker write.
	provisionMu sync.Mutex
}

func NewService(store *Store, runner Runner, statusArgv, setupArgv []string) *Service {
	if len(statusArgv) == 0 {
		statusArgv = DefaultStatusCommand
	}
	if len(setupArgv) == 0 {
		setupArgv = DefaultSetupCommand
	}
	return &Service{
		store:      store,
		runner:     runner,
		statusArgv: statusArgv,
		setupArgv:  setupArgv,
	}
}

func (s *Service) State() (State, error) {
	return s.store.State()
}

// Status checks the provisioning preconditions and, once the node is ready,
// runs the status command and returns its stdout.
func (s *Service) Status(ctx context.Context) (string, error) {
	state, err := s.store.State()
	if err != nil {
		return "", err
	}

	switch state {
	case StateUnconfigured:
		return "", ErrNotConfigured
	case StateConfiguring:
		return "", ErrNotReady
	}

	result, err := s.runner.Run(ctx, s.statusArgv)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// Provision persists the credential, runs the setup command with the
// credential as its only extra argument and records completion on success.
// A failed setup leaves the credential in place and the marker absent.
func (s *Service) Provision(ctx context.Context, credential string) error {
	if credential == "" {
		return ErrEmptyCredential
	}

	s.provisionMu.Lock()
	defer s.provisionMu.Unlock()

	if err := s.store.WriteCredential(credential); err != nil {
		return fmt.Errorf("%w: %w", ErrCredentialWrite, err)
	}

	argv := make([]string, 0, len(s.setupArgv)+1)
	argv = append(argv, s.setupArgv...)
	argv = append(argv, credential)

	slog.Info("Running node setup", "command", s.setupArgv[0])
	if _, err := s.runner.Run(ctx, argv); err != nil {
		return err
	}

	if err := s.store.MarkSetupComplete(); err != nil {
		return fmt.Errorf("%w: %w", ErrMarkerWrite, err)
	}

	slog.Info("Node configured and started")
	return nil
}
