package gatekeeper

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
	StateExpired  State = "expired"
)

func (s State) Terminal() bool {
	return s == StateApproved || s == StateRejected || s == StateExpired
}

// Outcome is the verdict of a button press.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

type Member struct {
	ChatID      int64
	MemberID    int64
	DisplayName string
	// JoinMessageID is the service message announcing the join; the
	// challenge is sent as a reply to it when set.
	JoinMessageID int64
}

type Option struct {
	Label string `json:"label"`
	Tag   string `json:"tag"`
}

type Record struct {
	ID          string    `json:"id"`
	MemberID    int64     `json:"member_id"`
	DisplayName string    `json:"display_name"`
	ChatID      int64     `json:"chat_id"`
	MessageID   int64     `json:"message_id"`
	CorrectTag  string    `json:"-"`
	Options     []Option  `json:"options"`
	CreatedAt   time.Time `json:"created_at"`
	Deadline    time.Time `json:"deadline"`
	State       State     `json:"state"`
	ResolvedAt  time.Time `json:"resolved_at,omitempty"`
}

// Grade reports the outcome a press of tag would produce.
func (r Record) Grade(tag string) Outcome {
	if tag == r.CorrectTag {
		return OutcomeApproved
	}
	return OutcomeRejected
}

func (r Record) clone() Record {
	cp := r
	cp.Options = append([]Option(nil), r.Options...)
	return cp
}

func newChallengeID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

type Permissions struct {
	CanSendMessages      bool
	CanSendMedia         bool
	CanSendOther         bool
	CanAddWebPagePreview bool
}

var (
	Restricted = Permissions{}

	FullPermissions = Permissions{
		CanSendMessages:      true,
		CanSendMedia:         true,
		CanSendOther:         true,
		CanAddWebPagePreview: true,
	}
)

type Button struct {
	Text string
	Data string
}
