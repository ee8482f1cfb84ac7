package gatekeeper

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewStore(8, func() time.Time { return now })
	require.NoError(t, err)
	return s
}

func pendingRecord(memberID int64, id string) Record {
	return Record{
		ID:         id,
		MemberID:   memberID,
		ChatID:     -100,
		MessageID:  7,
		CorrectTag: "mech",
		Options:    DefaultChoices.Options,
		CreatedAt:  time.Date(2024, 3, 1, 11, 59, 0, 0, time.UTC),
	}
}

func TestStore_PutGet(t *testing.T) {
	s := newTestStore(t)

	_, replaced := s.Put(pendingRecord(42, "one"))
	assert.False(t, replaced)

	rec, ok := s.Get(42)
	require.True(t, ok)
	assert.Equal(t, "one", rec.ID)
	assert.Equal(t, StatePending, rec.State)

	rec.Options[0].Label = "changed"
	again, _ := s.Get(42)
	assert.Equal(t, "Mechanical", again.Options[0].Label)

	_, ok = s.Get(43)
	assert.False(t, ok)
}

func TestStore_PutReplacesPending(t *testing.T) {
	s := newTestStore(t)

	s.Put(pendingRecord(42, "one"))
	prev, replaced := s.Put(pendingRecord(42, "two"))
	require.True(t, replaced)
	assert.Equal(t, "one", prev.ID)
	assert.Equal(t, 1, s.Len())

	_, ok := s.Resolve(42, "one", OutcomeApproved)
	assert.False(t, ok, "superseded id must not resolve")

	rec, ok := s.Resolve(42, "two", OutcomeApproved)
	require.True(t, ok)
	assert.Equal(t, "two", rec.ID)
}

func TestStore_ResolveTransitions(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    State
	}{
		{name: "approved", outcome: OutcomeApproved, want: StateApproved},
		{name: "rejected", outcome: OutcomeRejected, want: StateRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			s.Put(pendingRecord(42, "one"))

			rec, ok := s.Resolve(42, "", tt.outcome)
			require.True(t, ok)
			assert.Equal(t, tt.want, rec.State)
			assert.False(t, rec.ResolvedAt.IsZero())

			_, ok = s.Get(42)
			assert.False(t, ok)

			recent, ok := s.Recent(42)
			require.True(t, ok)
			assert.Equal(t, tt.want, recent.State)
		})
	}
}

func TestStore_TerminalIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	s.Put(pendingRecord(42, "one"))

	_, ok := s.Expire(42, "one")
	require.True(t, ok)

	_, ok = s.Expire(42, "one")
	assert.False(t, ok)
	_, ok = s.Resolve(42, "one", OutcomeApproved)
	assert.False(t, ok)

	recent, ok := s.Recent(42)
	require.True(t, ok)
	assert.Equal(t, StateExpired, recent.State)
}

func TestStore_Discard(t *testing.T) {
	s := newTestStore(t)
	s.Put(pendingRecord(42, "one"))

	rec, ok := s.Discard(42)
	require.True(t, ok)
	assert.Equal(t, "one", rec.ID)
	assert.Equal(t, 0, s.Len())

	_, ok = s.Recent(42)
	assert.False(t, ok)
	_, ok = s.Discard(42)
	assert.False(t, ok)
}

func TestStore_PendingOrdered(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []int64{3, 1, 2} {
		rec := pendingRecord(id, "c")
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		s.Put(rec)
	}

	pending := s.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{pending[0].MemberID, pending[1].MemberID, pending[2].MemberID})
}

func TestStore_ConcurrentResolutionHasOneWinner(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := newTestStore(t)
		s.Put(pendingRecord(42, "one"))

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		attempt := func(fn func() bool) {
			defer wg.Done()
			if fn() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}
		wg.Add(3)
		go attempt(func() bool { _, ok := s.Resolve(42, "one", OutcomeApproved); return ok })
		go attempt(func() bool { _, ok := s.Resolve(42, "one", OutcomeRejected); return ok })
		go attempt(func() bool { _, ok := s.Expire(42, "one"); return ok })
		wg.Wait()

		assert.Equal(t, 1, wins)
	}
}
