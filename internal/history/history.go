// Package history keeps a per-user append log of past summarization
// requests for reporting. It holds non-owning references: requests belong
// to whoever created them.
package history

import (
	"sync"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/request"
)

type History struct {
	mu     sync.Mutex
	byUser map[string][]*request.Request
}

func New() *History {
	return &History{
		byUser: make(map[string][]*request.Request),
	}
}

// Add appends a request reference to its user's log. It does not copy.
func (h *History) Add(req *request.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.byUser[req.UserID()] = append(h.byUser[req.UserID()], req)
}

// Recent returns the user's most recent limit requests in chronological
// order; limit <= 0 returns everything.
func (h *History) Recent(userID string, limit int) []*request.Request {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.byUser[userID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	copied := make([]*request.Request, len(entries))
	copy(copied, entries)
	return copied
}

// Successful filters the user's log down to requests that ended in
// Success, preserving chronological order.
func (h *History) Successful(userID string) []*request.Request {
	h.mu.Lock()
	defer h.mu.Unlock()

	var result []*request.Request
	for _, req := range h.byUser[userID] {
		if req.Status() == request.StatusSuccess {
			result = append(result, req)
		}
	}
	return result
}
