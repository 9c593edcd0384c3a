package app

import (
	"context"
	"sync"

	"quizrank-service/internal/domain"
)

// Hub is an in-process fan-out of solve events to live leaderboard subscribers.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan domain.SolveEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan domain.SolveEvent]struct{})}
}

// Publish never blocks: a subscriber that has fallen behind loses its oldest pending event.
func (h *Hub) Publish(_ context.Context, event domain.SolveEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
	return nil
}

// Subscribe returns a channel of solve events.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *Hub) Subscribe() (<-chan domain.SolveEvent, func()) {
	ch := make(chan domain.SolveEvent, 8)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Len reports the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
