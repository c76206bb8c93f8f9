package connectview

import (
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// State owns all Connect page state. Every read and update goes through its
// mutex, which keeps the single-writer guarantee even when loaders and
// actions are invoked from multiple goroutines. Overlapping loads are not
// sequenced; the last completion wins.
type State struct {
	mu      sync.Mutex
	backend Backend
	session Session
	logger  zerolog.Logger

	clock func() time.Time
	after func(d time.Duration, f func()) *time.Timer

	restricted bool
	tab        Tab
	query      string
	thread     string // profile ID of the selected conversation partner
	draft      string

	creators    []Creator
	connections []Connection
	inbox       []Message

	toasts      []Toast
	toastTimers map[string]*time.Timer

	loadingDirectory bool
	inflight         map[string]bool
}

// New creates the state owner for a session. Non-member sessions are
// restricted: every loader and action is a no-op and the page shows only
// AccessRestrictedMessage.
func New(session Session, backend Backend, logger zerolog.Logger) *State {
	return &State{
		backend:     backend,
		session:     session,
		logger:      logger,
		clock:       time.Now,
		after:       time.AfterFunc,
		restricted:  session.Role != RoleMember,
		tab:         TabDiscover,
		toastTimers: make(map[string]*time.Timer),
		inflight:    make(map[string]bool),
	}
}

// Close stops pending toast timers. Call on navigation away from the page.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.toastTimers {
		if timer != nil {
			timer.Stop()
		}
		delete(s.toastTimers, id)
	}
}

// Restricted reports whether the session is locked out of the page.
func (s *State) Restricted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restricted
}

// Session returns the identified user.
func (s *State) Session() Session {
	return s.session
}

// Tab returns the active tab.
func (s *State) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// SelectTab switches the active tab.
func (s *State) SelectTab(tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = tab
}

// SearchQuery returns the current discovery filter text.
func (s *State) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetSearchQuery updates the discovery filter. The filtered list is derived
// on read, so every keystroke takes effect immediately.
func (s *State) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

// Draft returns the pending message input.
func (s *State) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft updates the pending message input.
func (s *State) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

// ActiveThread returns the profile ID of the selected conversation partner,
// or "" when none is selected.
func (s *State) ActiveThread() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thread
}

// OpenConversation selects a connection as the active thread and switches
// to the messages tab.
func (s *State) OpenConversation(profileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thread = profileID
	s.tab = TabMessages
}

// Creators returns the loaded directory.
func (s *State) Creators() []Creator {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Creator, len(s.creators))
	copy(out, s.creators)
	return out
}

// Connections returns the loaded follow list.
func (s *State) Connections() []Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Connection, len(s.connections))
	copy(out, s.connections)
	return out
}

// Inbox returns the loaded messages, newest first.
func (s *State) Inbox() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.inbox))
	copy(out, s.inbox)
	return out
}

// DirectoryLoading reports whether a directory load is in progress.
func (s *State) DirectoryLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingDirectory
}

// FilteredCreators returns the directory filtered by the search query:
// case-insensitive substring match against name or bio. An empty query
// returns the full list in load order.
func (s *State) FilteredCreators() []Creator {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToLower(s.query)
	if query == "" {
		out := make([]Creator, len(s.creators))
		copy(out, s.creators)
		return out
	}

	out := make([]Creator, 0, len(s.creators))
	for _, c := range s.creators {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Bio), query) {
			out = append(out, c)
		}
	}
	return out
}

// Thread returns the messages from the selected conversation partner, in
// loaded order (newest first; threads are not re-sorted ascending).
func (s *State) Thread() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.thread == "" {
		return nil
	}
	out := make([]Message, 0, len(s.inbox))
	for _, m := range s.inbox {
		if m.SenderID == s.thread {
			out = append(out, m)
		}
	}
	return out
}

// Notifications returns the toasts still within their display window. A
// toast created at T is present for [T, T+ToastDuration) and absent after,
// independent of other toasts.
func (s *State) Notifications() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	out := make([]Toast, 0, len(s.toasts))
	for _, t := range s.toasts {
		if now.Sub(t.CreatedAt) < ToastDuration {
			out = append(out, t)
		}
	}
	return out
}

// pushToastLocked appends a toast and schedules its removal. Expiry is also
// enforced on read in Notifications, so correctness does not depend on the
// timer firing promptly.
func (s *State) pushToastLocked(kind ToastKind, message string) {
	toast := Toast{
		ID:        ulid.Make().String(),
		Kind:      kind,
		Message:   message,
		CreatedAt: s.clock(),
	}
	s.toasts = append(s.toasts, toast)

	id := toast.ID
	s.toastTimers[id] = s.after(ToastDuration, func() {
		s.removeToast(id)
	})
}

func (s *State) removeToast(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			break
		}
	}
	delete(s.toastTimers, id)
}
