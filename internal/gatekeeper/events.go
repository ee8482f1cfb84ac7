package gatekeeper

import (
	"context"
	"time"
)

type EventKind string

const (
	EventStarted    EventKind = "started"
	EventApproved   EventKind = "approved"
	EventRejected   EventKind = "rejected"
	EventExpired    EventKind = "expired"
	EventSuperseded EventKind = "superseded"
)

type Event struct {
	Kind   EventKind `json:"kind"`
	Record Record    `json:"record"`
	At     time.Time `json:"at"`
}

// Listener observes challenge lifecycle events. Listeners are called
// synchronously after the store transition, outside any store lock.
type Listener interface {
	OnChallengeEvent(ctx context.Context, ev Event)
}

type ListenerFunc func(ctx context.Context, ev Event)

func (f ListenerFunc) OnChallengeEvent(ctx context.Context, ev Event) { f(ctx, ev) }
