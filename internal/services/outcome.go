package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
	"github.com/savf/gatekeeper-bot/internal/models"
)

const (
	outcomeQueueSize = 256
	defaultPageSize  = 50
	maxPageSize      = 500
)

// ErrAuditDisabled is returned by queries when no database is configured.
var ErrAuditDisabled = errors.New("outcome audit log is disabled")

type OutcomeFilter struct {
	MemberID int64
	Outcome  string
	Limit    int
}

// OutcomeService persists finished challenges. Events are queued by
// OnChallengeEvent and written by Run so the state machine never waits
// on the database.
type OutcomeService struct {
	db    *gorm.DB
	log   *logrus.Entry
	queue chan models.ChallengeOutcome
}

// NewOutcomeService returns a service backed by db. A nil db yields a
// disabled service that drops events and fails queries.
func NewOutcomeService(db *gorm.DB, log *logrus.Entry) *OutcomeService {
	return &OutcomeService{
		db:    db,
		log:   log.WithField("component", "outcomes"),
		queue: make(chan models.ChallengeOutcome, outcomeQueueSize),
	}
}

func (s *OutcomeService) Enabled() bool { return s.db != nil }

// OnChallengeEvent implements gatekeeper.Listener.
func (s *OutcomeService) OnChallengeEvent(_ context.Context, ev gatekeeper.Event) {
	if s.db == nil || ev.Kind == gatekeeper.EventStarted {
		return
	}

	row := models.ChallengeOutcome{
		ChallengeID:  ev.Record.ID,
		ChatID:       ev.Record.ChatID,
		MemberID:     ev.Record.MemberID,
		DisplayName:  ev.Record.DisplayName,
		Outcome:      string(ev.Kind),
		ChallengedAt: ev.Record.CreatedAt,
		ResolvedAt:   ev.Record.ResolvedAt,
	}
	if row.ResolvedAt.IsZero() {
		row.ResolvedAt = ev.At
	}

	select {
	case s.queue <- row:
	default:
		s.log.WithField("challenge_id", row.ChallengeID).Warn("outcome queue full, dropping audit row")
	}
}

// Run writes queued outcomes until ctx is canceled, then flushes what is
// left in the queue.
func (s *OutcomeService) Run(ctx context.Context) error {
	if s.db == nil {
		<-ctx.Done()
		return nil
	}
	for {
		select {
		case row := <-s.queue:
			s.write(ctx, row)
		case <-ctx.Done():
			flush, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for {
				select {
				case row := <-s.queue:
					s.write(flush, row)
				default:
					return nil
				}
			}
		}
	}
}

func (s *OutcomeService) write(ctx context.Context, row models.ChallengeOutcome) {
	if err := s.Save(ctx, &row); err != nil {
		s.log.WithError(err).WithField("challenge_id", row.ChallengeID).Warn("write outcome failed")
	}
}

func (s *OutcomeService) Save(ctx context.Context, row *models.ChallengeOutcome) error {
	if s.db == nil {
		return ErrAuditDisabled
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// List returns outcomes newest first.
func (s *OutcomeService) List(ctx context.Context, f OutcomeFilter) ([]models.ChallengeOutcome, error) {
	if s.db == nil {
		return nil, ErrAuditDisabled
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	q := s.db.WithContext(ctx).Model(&models.ChallengeOutcome{})
	if f.MemberID != 0 {
		q = q.Where("member_id = ?", f.MemberID)
	}
	if f.Outcome != "" {
		q = q.Where("outcome = ?", f.Outcome)
	}

	var rows []models.ChallengeOutcome
	if err := q.Order("resolved_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	return rows, nil
}
