package gatekeeper

//go:generate mockgen -destination=mock/gateway.go -package=mock github.com/savf/gatekeeper-bot/internal/gatekeeper Gateway

import "context"

// OutgoingMessage is a challenge message to post in the monitored chat.
type OutgoingMessage struct {
	ChatID  int64
	Text    string
	Buttons []Button
	// ReplyTo is the message being answered, zero for none.
	ReplyTo int64
	Silent  bool
}

// Gateway performs the chat-transport side effects of the state machine.
// Implementations must treat deleting an already-gone message as success.
type Gateway interface {
	RestrictMember(ctx context.Context, chatID, memberID int64, perms Permissions) error
	UnrestrictMember(ctx context.Context, chatID, memberID int64, perms Permissions) error
	SendMessage(ctx context.Context, msg OutgoingMessage) (int64, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
}
