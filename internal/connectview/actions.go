package connectview

import (
	"context"
	"strings"
)

// genericErrorMessage is the toast shown for any failed mutation. Failures
// are terminal per action; the user must reissue it.
const genericErrorMessage = "Something went wrong. Please try again."

// beginAction marks an in-flight mutation so rapid repeated input cannot
// issue duplicates. Returns false when the same action is already running.
func (s *State) beginAction(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restricted || s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

func (s *State) endAction(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

// Follow creates a follow connection to a creator. On success the matching
// directory entry is flipped to Followed and a success toast names the
// creator; on failure the directory is untouched and an error toast is
// shown.
func (s *State) Follow(ctx context.Context, creator Creator) {
	key := "follow:" + creator.ID
	if !s.beginAction(key) {
		return
	}
	defer s.endAction(key)

	err := s.backend.CreateConnection(ctx, s.session.ID, creator.ID, KindFollow, s.clock())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.pushToastLocked(ToastError, genericErrorMessage)
		return
	}

	for i := range s.creators {
		if s.creators[i].ID == creator.ID {
			s.creators[i].Followed = true
			break
		}
	}
	s.pushToastLocked(ToastSuccess, "Now following "+creator.Name)
}

// Unfollow removes the follow connection to a creator. On success the
// matching directory entry is flipped back to unfollowed.
func (s *State) Unfollow(ctx context.Context, creatorID string) {
	key := "unfollow:" + creatorID
	if !s.beginAction(key) {
		return
	}
	defer s.endAction(key)

	err := s.backend.DeleteConnection(ctx, s.session.ID, creatorID)

	s.mu.Lock()

	if err != nil {
		s.pushToastLocked(ToastError, genericErrorMessage)
		s.mu.Unlock()
		return
	}

	name := ""
	for i := range s.creators {
		if s.creators[i].ID == creatorID {
			s.creators[i].Followed = false
			name = s.creators[i].Name
			break
		}
	}
	message := "Unfollowed"
	if name != "" {
		message = "Unfollowed " + name
	}
	s.pushToastLocked(ToastSuccess, message)
	s.mu.Unlock()
}

// SendMessage sends the current draft to the selected conversation partner.
// It is a no-op when no partner is selected or the draft is whitespace-only.
// On success the draft is cleared and the inbox is reloaded once; the new
// message is not appended locally. On failure the draft is retained.
func (s *State) SendMessage(ctx context.Context) {
	s.mu.Lock()
	recipient := s.thread
	text := s.draft
	s.mu.Unlock()

	if recipient == "" || strings.TrimSpace(text) == "" {
		return
	}

	key := "send:" + recipient
	if !s.beginAction(key) {
		return
	}
	defer s.endAction(key)

	err := s.backend.CreateMessage(ctx, s.session.ID, recipient, text, s.clock())

	s.mu.Lock()
	if err != nil {
		s.pushToastLocked(ToastError, genericErrorMessage)
		s.mu.Unlock()
		return
	}

	s.draft = ""
	s.pushToastLocked(ToastSuccess, "Message sent")
	s.mu.Unlock()

	// The local list is a cache of server state; refresh it rather than
	// appending the sent message.
	s.LoadInbox(ctx)
}
