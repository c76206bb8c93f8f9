package connectview

import "context"

// LoadDirectory fetches the creator directory. Every loaded entry starts
// with Followed false; follow state from the server is not joined in. On
// failure the previous list is kept and an error toast is shown.
func (s *State) LoadDirectory(ctx context.Context) {
	s.mu.Lock()
	if s.restricted {
		s.mu.Unlock()
		return
	}
	s.loadingDirectory = true
	s.mu.Unlock()

	creators, err := s.backend.ListCreators(ctx, DirectoryLimit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingDirectory = false

	if err != nil {
		s.pushToastLocked(ToastError, "Failed to load creators")
		return
	}

	for i := range creators {
		creators[i].Followed = false
	}
	s.creators = creators
}

// LoadConnections fetches the member's follow list. Failures are logged
// only; the UI keeps whatever it had.
func (s *State) LoadConnections(ctx context.Context) {
	s.mu.Lock()
	if s.restricted {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	connections, err := s.backend.ListConnections(ctx, s.session.ID, ConnectionsLimit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load connections")
		return
	}

	// A connection only exists because a follow edge exists
	for i := range connections {
		connections[i].Following = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections = connections
}

// LoadInbox fetches the most recent messages addressed to the member,
// newest first. Failures are logged only.
func (s *State) LoadInbox(ctx context.Context) {
	s.mu.Lock()
	if s.restricted {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	messages, err := s.backend.ListMessages(ctx, s.session.ID, InboxLimit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load inbox")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inbox = messages
}
