package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
	"github.com/savf/gatekeeper-bot/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func nullLog() *logrus.Entry {
	l, _ := test.NewNullLogger()
	return logrus.NewEntry(l)
}

func TestOutcomeService_Save(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewOutcomeService(db, nullLog())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "challenge_outcomes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	row := &models.ChallengeOutcome{
		ChallengeID:  "0123456789abcdef",
		ChatID:       -1001,
		MemberID:     42,
		Outcome:      "approved",
		ChallengedAt: time.Now().Add(-time.Minute),
		ResolvedAt:   time.Now(),
	}
	require.NoError(t, s.Save(context.Background(), row))
	assert.Equal(t, uint(1), row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutcomeService_List(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewOutcomeService(db, nullLog())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "challenge_outcomes" WHERE member_id = $1 AND outcome = $2 ORDER BY resolved_at desc LIMIT`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "challenge_id", "chat_id", "member_id", "outcome", "resolved_at"}).
			AddRow(2, "b", -1001, 42, "expired", now).
			AddRow(1, "a", -1001, 42, "expired", now.Add(-time.Hour)))

	rows, err := s.List(context.Background(), OutcomeFilter{MemberID: 42, Outcome: "expired", Limit: 10000})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].ChallengeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutcomeService_RunWritesTerminalEvents(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewOutcomeService(db, nullLog())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "challenge_outcomes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	rec := gatekeeper.Record{ID: "0123456789abcdef", ChatID: -1001, MemberID: 42, State: gatekeeper.StateRejected}
	s.OnChallengeEvent(ctx, gatekeeper.Event{Kind: gatekeeper.EventStarted, Record: rec})
	s.OnChallengeEvent(ctx, gatekeeper.Event{Kind: gatekeeper.EventRejected, Record: rec, At: time.Now()})

	require.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestOutcomeService_Disabled(t *testing.T) {
	s := NewOutcomeService(nil, nullLog())
	assert.False(t, s.Enabled())

	s.OnChallengeEvent(context.Background(), gatekeeper.Event{Kind: gatekeeper.EventExpired})
	_, err := s.List(context.Background(), OutcomeFilter{})
	assert.ErrorIs(t, err, ErrAuditDisabled)
}
