package telegram

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
)

const (
	startText = "Hello, I am the Swiss Mechanical Keyboard Enthusiasts Gatekeeper. " +
		"As soon as a new user joins, they will be restricted to keep them " +
		"from posting until they prove they are not a robot."
	helpText = "Available commands:\n\n/id"
)

var callbackToasts = map[gatekeeper.Result]string{
	gatekeeper.ResultApproved: "Welcome! You can post now.",
	gatekeeper.ResultRejected: "Wrong answer.",
	gatekeeper.ResultForeign:  "This challenge is not for you.",
	gatekeeper.ResultStale:    "This challenge is no longer active.",
}

// UpdateHandler routes Bot API updates to the challenge machine and
// answers the static commands.
type UpdateHandler struct {
	client  *Client
	machine *gatekeeper.Machine
	chatID  int64
	selfID  atomic.Int64
	log     *logrus.Entry
}

func NewUpdateHandler(client *Client, machine *gatekeeper.Machine, chatID int64, log *logrus.Entry) *UpdateHandler {
	return &UpdateHandler{
		client:  client,
		machine: machine,
		chatID:  chatID,
		log:     log.WithField("component", "dispatcher"),
	}
}

// SetSelfID excludes the bot's own account from join challenges.
func (h *UpdateHandler) SetSelfID(id int64) {
	h.selfID.Store(id)
}

// Handle processes one update. Failures are logged and never escape.
func (h *UpdateHandler) Handle(ctx context.Context, upd Update) {
	defer func() {
		if r := recover(); r != nil {
			h.log.WithFields(logrus.Fields{
				"update_id": upd.UpdateID,
				"panic":     r,
			}).Error("update caused a panic")
		}
	}()

	if upd.CallbackQuery != nil {
		h.handleCallback(ctx, upd.CallbackQuery)
		return
	}
	if upd.Message != nil {
		h.handleMessage(ctx, upd.Message)
	}
}

func (h *UpdateHandler) handleMessage(ctx context.Context, msg *Message) {
	if cmd := command(msg); cmd != "" {
		h.handleCommand(ctx, msg, cmd)
		return
	}

	if msg.Chat.ID != h.chatID {
		return
	}
	members, ok := ParseJoinEvent(msg)
	if !ok {
		return
	}
	self := h.selfID.Load()
	for _, m := range members {
		if m.MemberID == self {
			continue
		}
		h.machine.OnMemberJoined(ctx, m)
	}
}

func (h *UpdateHandler) handleCommand(ctx context.Context, msg *Message, cmd string) {
	var text string
	switch cmd {
	case "start":
		text = startText
	case "help":
		text = helpText
	case "id":
		text = strconv.FormatInt(msg.Chat.ID, 10)
	default:
		return
	}

	req := SendMessageRequest{ChatID: msg.Chat.ID, Text: text, ReplyToMessageID: msg.MessageID}
	if _, err := h.client.SendMessage(ctx, req, nil); err != nil {
		h.log.WithError(err).WithField("command", cmd).Warn("reply to command failed")
	}
}

func (h *UpdateHandler) handleCallback(ctx context.Context, cb *CallbackQuery) {
	press, ok := gatekeeper.DecodeCallback(cb.Data)
	if !ok {
		h.log.WithField("data", cb.Data).Info("unrecognized callback data")
		h.answer(ctx, cb.ID, callbackToasts[gatekeeper.ResultStale])
		return
	}
	press.ActorID = cb.From.ID

	res := h.machine.OnButtonPressed(ctx, press)
	h.log.WithFields(logrus.Fields{
		"member_id": press.MemberID,
		"actor_id":  press.ActorID,
		"result":    res.String(),
	}).Debug("button press handled")
	h.answer(ctx, cb.ID, callbackToasts[res])
}

func (h *UpdateHandler) answer(ctx context.Context, callbackID, text string) {
	if err := h.client.AnswerCallbackQuery(ctx, callbackID, text, false); err != nil {
		h.log.WithError(err).Debug("answer callback query failed")
	}
}

// ParseJoinEvent extracts the joining members of a service message. It
// reports false for messages that announce no new members.
func ParseJoinEvent(msg *Message) ([]gatekeeper.Member, bool) {
	if msg == nil || len(msg.NewChatMembers) == 0 {
		return nil, false
	}
	members := make([]gatekeeper.Member, 0, len(msg.NewChatMembers))
	for _, u := range msg.NewChatMembers {
		if u.ID == 0 {
			continue
		}
		members = append(members, gatekeeper.Member{
			ChatID:        msg.Chat.ID,
			MemberID:      u.ID,
			DisplayName:   displayName(u),
			JoinMessageID: msg.MessageID,
		})
	}
	return members, len(members) > 0
}

func displayName(u User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return strconv.FormatInt(u.ID, 10)
}

// command returns the bot command at the start of msg without the slash
// and any @botname suffix.
func command(msg *Message) string {
	for _, e := range msg.Entities {
		if e.Type != "bot_command" || e.Offset != 0 {
			continue
		}
		if e.Length < 2 || e.Length > len(msg.Text) {
			return ""
		}
		cmd := msg.Text[1:e.Length]
		cmd, _, _ = strings.Cut(cmd, "@")
		return cmd
	}
	return ""
}
