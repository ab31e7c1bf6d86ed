// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package native

import (
	"sync"

	"github.com/google/uuid"
)

// Notification names posted by controls.
const (
	TextDidChange       = "TextDidChange"
	TextDidBeginEditing = "TextDidBeginEditing"
	TextDidEndEditing   = "TextDidEndEditing"
)

// Notification is one posted event.
type Notification struct {
	Name   string
	Source uuid.UUID
	Text   string
}

// NotificationCenter fans notifications out to subscribers. Posting is
// synchronous: subscribers run on the poster's goroutine, in subscription
// order.
type NotificationCenter struct {
	mu        sync.Mutex
	nextID    int
	observers []subscription
}

type subscription struct {
	id   int
	name string
	fn   func(Notification)
}

// DefaultCenter is used by controls created without WithCenter.
var DefaultCenter = NewNotificationCenter()

// NewNotificationCenter returns an empty center.
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{}
}

// Subscribe registers fn for notifications called name. An empty name
// receives every notification. The returned func removes the subscription.
func (nc *NotificationCenter) Subscribe(name string, fn func(Notification)) (cancel func()) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	nc.nextID++
	id := nc.nextID
	nc.observers = append(nc.observers, subscription{id: id, name: name, fn: fn})

	return func() {
		nc.mu.Lock()
		defer nc.mu.Unlock()
		for i, s := range nc.observers {
			if s.id == id {
				nc.observers = append(nc.observers[:i], nc.observers[i+1:]...)
				return
			}
		}
	}
}

// Post delivers n to matching subscribers. Subscribers may subscribe or
// cancel from inside the callback.
func (nc *NotificationCenter) Post(n Notification) {
	nc.mu.Lock()
	targets := make([]func(Notification), 0, len(nc.observers))
	for _, s := range nc.observers {
		if s.name == "" || s.name == n.Name {
			targets = append(targets, s.fn)
		}
	}
	nc.mu.Unlock()

	for _, fn := range targets {
		fn(n)
	}
}
