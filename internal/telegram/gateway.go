package telegram

import (
	"context"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
)

// Gateway performs challenge side effects through the Bot API.
type Gateway struct {
	client *Client
}

var _ gatekeeper.Gateway = (*Gateway)(nil)

func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

func chatPermissions(p gatekeeper.Permissions) ChatPermissions {
	return ChatPermissions{
		CanSendMessages:       p.CanSendMessages,
		CanSendMediaMessages:  p.CanSendMedia,
		CanSendOtherMessages:  p.CanSendOther,
		CanAddWebPagePreviews: p.CanAddWebPagePreview,
	}
}

func (g *Gateway) RestrictMember(ctx context.Context, chatID, memberID int64, perms gatekeeper.Permissions) error {
	return g.client.RestrictChatMember(ctx, chatID, memberID, chatPermissions(perms))
}

// UnrestrictMember is restrictChatMember with the granted rights; the
// Bot API has no separate call.
func (g *Gateway) UnrestrictMember(ctx context.Context, chatID, memberID int64, perms gatekeeper.Permissions) error {
	return g.client.RestrictChatMember(ctx, chatID, memberID, chatPermissions(perms))
}

func (g *Gateway) SendMessage(ctx context.Context, msg gatekeeper.OutgoingMessage) (int64, error) {
	req := SendMessageRequest{
		ChatID:              msg.ChatID,
		Text:                msg.Text,
		ReplyToMessageID:    msg.ReplyTo,
		DisableNotification: msg.Silent,
	}
	var markup interface{}
	if len(msg.Buttons) > 0 {
		markup = ChallengeKeyboard(msg.Buttons)
	}
	return g.client.SendMessage(ctx, req, markup)
}

func (g *Gateway) EditMessageText(ctx context.Context, chatID, messageID int64, text string) error {
	return g.client.EditMessageText(ctx, chatID, messageID, text, RemoveKeyboard())
}

// DeleteMessage treats an already deleted message as success.
func (g *Gateway) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	err := g.client.DeleteMessage(ctx, chatID, messageID)
	if err != nil && IsNotFound(err) {
		return nil
	}
	return err
}
