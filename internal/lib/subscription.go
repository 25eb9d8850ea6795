package lib

import "github.com/ethereum/go-ethereum/event"

// Subscription couples an event.Subscription with the channel its producer writes to
type Subscription struct {
	event.Subscription
	ch <-chan interface{}
}

// NewSubscription runs producer in a goroutine. The producer must stop writing to sink once
// quit is closed; its returned error is delivered on Err()
func NewSubscription(producer func(quit <-chan struct{}) error, sink <-chan interface{}) *Subscription {
	return &Subscription{
		Subscription: event.NewSubscription(producer),
		ch:           sink,
	}
}

func (s *Subscription) Events() <-chan interface{} {
	return s.ch
}
