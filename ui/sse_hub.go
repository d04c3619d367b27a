package ui

import (
	"sync"

	"policysim/domain/core"
	"policysim/ports"
)

// sseHub fans validation progress out to server-sent-event subscribers,
// keyed by run identifier. Subscribers that fall behind are dropped rather
// than allowed to stall the validation goroutine.
type sseHub struct {
	mu      sync.RWMutex
	streams map[core.RunID][]chan ports.ProgressUpdate
}

func newSSEHub() *sseHub {
	return &sseHub{streams: make(map[core.RunID][]chan ports.ProgressUpdate)}
}

// Subscribe registers a listener for one run's progress events.
func (h *sseHub) Subscribe(runID core.RunID) chan ports.ProgressUpdate {
	ch := make(chan ports.ProgressUpdate, 16)
	h.mu.Lock()
	h.streams[runID] = append(h.streams[runID], ch)
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes one listener and closes its channel.
func (h *sseHub) Unsubscribe(runID core.RunID, ch chan ports.ProgressUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.streams[runID]
	for i, sub := range subs {
		if sub == ch {
			h.streams[runID] = append(subs[:i], subs[i+1:]...)
			close(sub)
			break
		}
	}
	if len(h.streams[runID]) == 0 {
		delete(h.streams, runID)
	}
}

// Publish delivers an update to every listener of runID without blocking.
func (h *sseHub) Publish(runID core.RunID, update ports.ProgressUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.streams[runID] {
		select {
		case ch <- update:
		default:
		}
	}
}

// CloseRun closes every listener of runID after the final event.
func (h *sseHub) CloseRun(runID core.RunID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.streams[runID] {
		close(ch)
	}
	delete(h.streams, runID)
}
