// Package listview holds the in-memory conversation list for a single chat
// screen. Mutations apply locally first and are reconciled against the
// backend by re-fetching when a mutation fails; the list never keeps a
// state the backend would contradict.
package listview

import (
	"context"
	"sync"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
	"github.com/bnetpineda/PawScan-sub001/internal/services"
)

type Fetcher interface {
	ListConversations(ctx context.Context, actorID int64, role string) ([]models.ConversationView, error)
}

type Deleter interface {
	DeleteConversation(ctx context.Context, actorID int64, role string, conversationID int64) error
}

// Session owns the list for one screen instance. There is no cross-screen
// cache; each screen refreshes its own session.
type Session struct {
	fetcher Fetcher
	deleter Deleter
	actorID int64
	role    string

	mu         sync.Mutex
	items      []models.ConversationView
	generation uint64
	closed     bool
	deleting   map[int64]struct{}
}

func NewSession(fetcher Fetcher, deleter Deleter, actorID int64, role string) *Session {
	return &Session{
		fetcher:  fetcher,
		deleter:  deleter,
		actorID:  actorID,
		role:     role,
		deleting: make(map[int64]struct{}),
	}
}

// Refresh fetches the authoritative list. A response that arrives after a
// newer Refresh started, or after Close, is discarded instead of clobbering
// current state.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	items, err := s.fetcher.ListConversations(ctx, s.actorID, s.role)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || generation != s.generation {
		return nil
	}
	s.items = items
	return nil
}

// Items returns a copy of the current list.
func (s *Session) Items() []models.ConversationView {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.ConversationView, len(s.items))
	copy(items, s.items)
	return items
}

// MarkRead zeroes the unread badge of a conversation. Safe to call again;
// the count stays zero. Persisting the read state is the message screen's
// job, so no backend call happens here.
func (s *Session) MarkRead(conversationID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ConversationID == conversationID {
			s.items[i].UnreadCount = 0
			return true
		}
	}
	return false
}

// Delete removes the conversation locally, then asks the backend. On
// backend failure the full list is re-fetched so local state matches
// backend truth again, and the error is returned for the UI notice. A
// delete for an id already in flight or already gone is a no-op.
func (s *Session) Delete(ctx context.Context, conversationID int64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if _, inFlight := s.deleting[conversationID]; inFlight {
		s.mu.Unlock()
		return nil
	}
	index := -1
	for i := range s.items {
		if s.items[i].ConversationID == conversationID {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return nil
	}
	s.deleting[conversationID] = struct{}{}
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.mu.Unlock()

	err := s.deleter.DeleteConversation(ctx, s.actorID, s.role, conversationID)

	s.mu.Lock()
	delete(s.deleting, conversationID)
	s.mu.Unlock()

	if err != nil {
		// Not retried; the re-fetch restores whatever the backend says.
		_ = s.Refresh(ctx)
		return err
	}
	return nil
}

// Search filters the loaded list by counterpart name and latest message
// text. It is pure over the current items; debounce keystrokes with
// services.Debouncer before calling.
func (s *Session) Search(query string) []models.ConversationView {
	return services.FilterByFields(s.Items(), query, func(view models.ConversationView) []string {
		fields := []string{view.CounterpartName}
		if view.LastMessage != nil {
			fields = append(fields, view.LastMessage.Content)
		}
		return fields
	})
}

// Close marks the screen dismissed. In-flight refreshes resolve without
// touching state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
	s.items = nil
}
