package contracts

import (
	"sync"

	"github.com/gammazero/deque"
)

// EventHistory keeps the most recent contract events. When it reaches its capacity,
// the oldest event is dropped
type EventHistory struct {
	data *deque.Deque[*ContractEvent]
	cap  int
	mu   sync.RWMutex
}

func NewEventHistory(cap int) *EventHistory {
	if cap < 1 {
		cap = 1
	}
	return &EventHistory{
		data: deque.New[*ContractEvent](cap, cap),
		cap:  cap,
	}
}

func (h *EventHistory) Add(ev *ContractEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.data.Len() >= h.cap {
		h.data.PopFront()
	}
	h.data.PushBack(ev)
}

func (h *EventHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data.Len()
}

// Recent returns up to limit events, newest first. Non-positive limit returns all of them
func (h *EventHistory) Recent(limit int) []*ContractEvent {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := h.data.Len()
	if limit <= 0 || limit > n {
		limit = n
	}

	res := make([]*ContractEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		res = append(res, h.data.At(i))
	}
	return res
}

// Filter returns events, newest first, for which f returns true
func (h *EventHistory) Filter(f func(ev *ContractEvent) bool) []*ContractEvent {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var res []*ContractEvent
	for i := h.data.Len() - 1; i >= 0; i-- {
		ev := h.data.At(i)
		if f(ev) {
			res = append(res, ev)
		}
	}
	return res
}
