package gatekeeper

import (
	"context"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/looplab/fsm"
)

const (
	eventApprove = "approve"
	eventReject  = "reject"
	eventExpire  = "expire"

	DefaultRecentSize = 256
)

var challengeEvents = fsm.Events{
	{Name: eventApprove, Src: []string{string(StatePending)}, Dst: string(StateApproved)},
	{Name: eventReject, Src: []string{string(StatePending)}, Dst: string(StateRejected)},
	{Name: eventExpire, Src: []string{string(StatePending)}, Dst: string(StateExpired)},
}

type storeEntry struct {
	record  Record
	machine *fsm.FSM
}

// Store holds the latest challenge per member. Only pending records live
// in the store; terminal ones move to a bounded recent-outcome cache.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*storeEntry
	recent  *lru.Cache
	now     func() time.Time
}

func NewStore(recentSize int, now func() time.Time) (*Store, error) {
	if recentSize <= 0 {
		recentSize = DefaultRecentSize
	}
	if now == nil {
		now = time.Now
	}
	recent, err := lru.New(recentSize)
	if err != nil {
		return nil, err
	}
	return &Store{
		entries: make(map[int64]*storeEntry),
		recent:  recent,
		now:     now,
	}, nil
}

// Put stores rec as the member's pending challenge. If a pending record
// was replaced it is returned so the caller can cancel its timer and
// clean up its message.
func (s *Store) Put(rec Record) (Record, bool) {
	rec = rec.clone()
	rec.State = StatePending

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, replaced := s.entries[rec.MemberID]
	s.entries[rec.MemberID] = &storeEntry{
		record:  rec,
		machine: fsm.NewFSM(string(StatePending), challengeEvents, fsm.Callbacks{}),
	}
	if !replaced {
		return Record{}, false
	}
	return prev.record.clone(), true
}

func (s *Store) Get(memberID int64) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[memberID]
	if !ok {
		return Record{}, false
	}
	return entry.record.clone(), true
}

// Resolve moves the member's pending record to the outcome's state. An
// empty challengeID matches any pending record; otherwise the ids must
// match. It returns false when nothing was transitioned.
func (s *Store) Resolve(memberID int64, challengeID string, outcome Outcome) (Record, bool) {
	event := eventReject
	if outcome == OutcomeApproved {
		event = eventApprove
	}
	return s.transition(memberID, challengeID, event)
}

func (s *Store) Expire(memberID int64, challengeID string) (Record, bool) {
	return s.transition(memberID, challengeID, eventExpire)
}

// Discard drops the member's pending record without recording an outcome.
func (s *Store) Discard(memberID int64) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[memberID]
	if !ok {
		return Record{}, false
	}
	delete(s.entries, memberID)
	return entry.record.clone(), true
}

func (s *Store) transition(memberID int64, challengeID, event string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[memberID]
	if !ok {
		return Record{}, false
	}
	if challengeID != "" && entry.record.ID != challengeID {
		return Record{}, false
	}
	if err := entry.machine.Event(context.Background(), event); err != nil {
		return Record{}, false
	}

	delete(s.entries, memberID)
	entry.record.State = State(entry.machine.Current())
	entry.record.ResolvedAt = s.now()
	s.recent.Add(memberID, entry.record)
	return entry.record.clone(), true
}

// Recent returns the last terminal record for the member, if still cached.
func (s *Store) Recent(memberID int64) (Record, bool) {
	v, ok := s.recent.Get(memberID)
	if !ok {
		return Record{}, false
	}
	return v.(Record).clone(), true
}

// Pending lists pending records ordered by creation time.
func (s *Store) Pending() []Record {
	s.mu.Lock()
	out := make([]Record, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.record.clone())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
