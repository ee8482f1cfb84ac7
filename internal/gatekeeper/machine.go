package gatekeeper

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

const timeoutCallTimeout = 15 * time.Second

// Result tells the dispatcher how a button press was handled.
type Result int

const (
	// ResultStale means no pending challenge matched the press.
	ResultStale Result = iota
	// ResultForeign means someone other than the challenged member pressed.
	ResultForeign
	ResultApproved
	ResultRejected
)

func (r Result) String() string {
	switch r {
	case ResultForeign:
		return "foreign"
	case ResultApproved:
		return "approved"
	case ResultRejected:
		return "rejected"
	default:
		return "stale"
	}
}

type Config struct {
	Timeout  time.Duration
	ChatName string
	Choices  ChoiceSet
	// Clock drives timestamps and timers; nil means wall clock.
	Clock clock.Clock
	// Shuffle permutes options; nil means math/rand/v2.
	Shuffle Shuffler
}

// Machine drives one challenge per joining member through
// pending -> approved | rejected | expired.
type Machine struct {
	cfg       Config
	gateway   Gateway
	store     *Store
	timers    *TimerRegistry
	log       *logrus.Entry
	listeners []Listener
}

func NewMachine(cfg Config, gateway Gateway, store *Store, timers *TimerRegistry, log *logrus.Entry) (*Machine, error) {
	if gateway == nil || store == nil || timers == nil {
		return nil, errors.New("gatekeeper: gateway, store and timers are required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("gatekeeper: timeout must be positive")
	}
	if len(cfg.Choices.Options) == 0 {
		cfg.Choices = DefaultChoices
	}
	if err := cfg.Choices.Validate(); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Machine{
		cfg:     cfg,
		gateway: gateway,
		store:   store,
		timers:  timers,
		log:     log.WithField("component", "gatekeeper"),
	}, nil
}

// AddListener registers l for lifecycle events. Not safe to call once
// events are flowing.
func (m *Machine) AddListener(l Listener) {
	m.listeners = append(m.listeners, l)
}

func (m *Machine) Store() *Store { return m.store }

func (m *Machine) Timers() *TimerRegistry { return m.timers }

func (m *Machine) Timeout() time.Duration { return m.cfg.Timeout }

// OnMemberJoined restricts the member, posts a fresh challenge and arms
// its timeout. It reports false when no challenge could be posted; the
// member then stays restricted.
func (m *Machine) OnMemberJoined(ctx context.Context, member Member) (Record, bool) {
	log := m.log.WithFields(logrus.Fields{
		"member_id": member.MemberID,
		"chat_id":   member.ChatID,
	})

	if prior, ok := m.store.Get(member.MemberID); ok {
		m.timers.Cancel(prior.ID)
		log.WithField("challenge_id", prior.ID).Info("repeat join, superseding pending challenge")
	}

	now := m.cfg.Clock.Now()
	rec := Record{
		ID:          newChallengeID(),
		MemberID:    member.MemberID,
		DisplayName: member.DisplayName,
		ChatID:      member.ChatID,
		CorrectTag:  m.cfg.Choices.CorrectTag,
		Options:     m.cfg.Choices.Shuffled(m.cfg.Shuffle),
		CreatedAt:   now,
		Deadline:    now.Add(m.cfg.Timeout),
		State:       StatePending,
	}
	log = log.WithField("challenge_id", rec.ID)

	if err := m.gateway.RestrictMember(ctx, member.ChatID, member.MemberID, Restricted); err != nil {
		log.WithError(err).Warn("restrict member failed")
	}

	buttons := make([]Button, 0, len(rec.Options))
	for _, opt := range rec.Options {
		buttons = append(buttons, Button{Text: opt.Label, Data: EncodeCallback(rec.MemberID, rec.ID, opt.Tag)})
	}
	msgID, err := m.gateway.SendMessage(ctx, OutgoingMessage{
		ChatID:  member.ChatID,
		Text:    challengeText(member.DisplayName, m.cfg.ChatName, m.cfg.Choices.CorrectLabel(), m.cfg.Timeout),
		Buttons: buttons,
		ReplyTo: member.JoinMessageID,
		Silent:  true,
	})
	if err != nil {
		log.WithError(err).Error("send challenge failed, member stays restricted")
		if prev, ok := m.store.Discard(member.MemberID); ok {
			m.dropSuperseded(ctx, prev)
		}
		return Record{}, false
	}
	rec.MessageID = msgID

	if prev, ok := m.store.Put(rec); ok {
		m.timers.Cancel(prev.ID)
		m.dropSuperseded(ctx, prev)
	}

	memberID, challengeID := rec.MemberID, rec.ID
	m.timers.Schedule(challengeID, m.cfg.Timeout, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeoutCallTimeout)
		defer cancel()
		m.OnTimeout(ctx, memberID, challengeID)
	})

	log.WithFields(logrus.Fields{
		"message_id": msgID,
		"deadline":   rec.Deadline,
	}).Info("challenge sent")
	m.notify(ctx, EventStarted, rec)
	return rec, true
}

// OnButtonPressed settles the member's pending challenge. Presses by
// other users and presses on finished or superseded challenges change
// nothing.
func (m *Machine) OnButtonPressed(ctx context.Context, press ButtonPress) Result {
	log := m.log.WithFields(logrus.Fields{
		"member_id": press.MemberID,
		"actor_id":  press.ActorID,
		"tag":       press.Tag,
	})

	if press.ActorID != press.MemberID {
		log.Info("challenge button pressed by another user, ignoring")
		return ResultForeign
	}

	current, ok := m.store.Get(press.MemberID)
	if !ok || (press.ChallengeID != "" && press.ChallengeID != current.ID) {
		log.Debug("no pending challenge for button press")
		return ResultStale
	}

	outcome := current.Grade(press.Tag)
	rec, ok := m.store.Resolve(press.MemberID, current.ID, outcome)
	if !ok {
		log.Debug("challenge already settled")
		return ResultStale
	}
	m.timers.Cancel(rec.ID)
	log = log.WithField("challenge_id", rec.ID)

	if outcome == OutcomeApproved {
		if err := m.gateway.DeleteMessage(ctx, rec.ChatID, rec.MessageID); err != nil {
			log.WithError(err).Warn("delete challenge message failed")
		}
		if err := m.gateway.UnrestrictMember(ctx, rec.ChatID, rec.MemberID, FullPermissions); err != nil {
			log.WithError(err).Error("unrestrict member failed")
		}
		log.Info("member passed the challenge")
		m.notify(ctx, EventApproved, rec)
		return ResultApproved
	}

	if err := m.gateway.EditMessageText(ctx, rec.ChatID, rec.MessageID, RejectedText); err != nil {
		log.WithError(err).Warn("edit challenge message failed")
	}
	log.Info("member failed the challenge")
	m.notify(ctx, EventRejected, rec)
	return ResultRejected
}

// OnTimeout expires the challenge if it is still pending and removes its
// message. The member stays restricted.
func (m *Machine) OnTimeout(ctx context.Context, memberID int64, challengeID string) bool {
	log := m.log.WithFields(logrus.Fields{
		"member_id":    memberID,
		"challenge_id": challengeID,
	})

	rec, ok := m.store.Expire(memberID, challengeID)
	if !ok {
		log.Debug("timeout fired for settled challenge")
		return false
	}

	if rec.MessageID != 0 {
		if err := m.gateway.DeleteMessage(ctx, rec.ChatID, rec.MessageID); err != nil {
			log.WithError(err).Warn("delete expired challenge message failed")
		}
	}
	log.WithField("display_name", rec.DisplayName).
		Infof("challenge timed out after %s", m.cfg.Timeout)
	m.notify(ctx, EventExpired, rec)
	return true
}

// Stop cancels all outstanding timers. Pending challenges are lost.
func (m *Machine) Stop() {
	m.timers.Stop()
}

func (m *Machine) dropSuperseded(ctx context.Context, prev Record) {
	if prev.MessageID != 0 {
		if err := m.gateway.DeleteMessage(ctx, prev.ChatID, prev.MessageID); err != nil {
			m.log.WithError(err).WithField("challenge_id", prev.ID).Warn("delete superseded challenge message failed")
		}
	}
	m.notify(ctx, EventSuperseded, prev)
}

func (m *Machine) notify(ctx context.Context, kind EventKind, rec Record) {
	ev := Event{Kind: kind, Record: rec, At: m.cfg.Clock.Now()}
	for _, l := range m.listeners {
		l.OnChallengeEvent(ctx, ev)
	}
}
