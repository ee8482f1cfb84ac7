package telegram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
)

func TestGateway_RestrictSendsDeniedRights(t *testing.T) {
	api := newFakeAPI(t)
	gw := NewGateway(api.client())

	require.NoError(t, gw.RestrictMember(context.Background(), -1001, 42, gatekeeper.Restricted))
	require.NoError(t, gw.UnrestrictMember(context.Background(), -1001, 42, gatekeeper.FullPermissions))

	calls := api.callsTo("restrictChatMember")
	require.Len(t, calls, 2)

	denied := calls[0]["permissions"].(map[string]interface{})
	assert.Equal(t, false, denied["can_send_messages"])
	assert.Equal(t, false, denied["can_add_web_page_previews"])

	granted := calls[1]["permissions"].(map[string]interface{})
	assert.Equal(t, true, granted["can_send_messages"])
	assert.Equal(t, true, granted["can_send_media_messages"])
	assert.Equal(t, true, granted["can_send_other_messages"])
	assert.Equal(t, true, granted["can_add_web_page_previews"])
}

func TestGateway_SendMessageKeyboard(t *testing.T) {
	api := newFakeAPI(t)
	api.respond("sendMessage", `{"ok":true,"result":{"message_id":9}}`)
	gw := NewGateway(api.client())

	id, err := gw.SendMessage(context.Background(), gatekeeper.OutgoingMessage{
		ChatID: -1001,
		Text:   "prove it",
		Buttons: []gatekeeper.Button{
			{Text: "Rubberdome", Data: "gk:42:abc:rubber"},
			{Text: "Mechanical", Data: "gk:42:abc:mech"},
		},
		ReplyTo: 3,
		Silent:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)

	calls := api.callsTo("sendMessage")
	require.Len(t, calls, 1)
	markup := calls[0]["reply_markup"].(map[string]interface{})
	rows := markup["inline_keyboard"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Rubberdome", first["text"])
	assert.Equal(t, "gk:42:abc:rubber", first["callback_data"])
}

func TestGateway_DeleteMessageNotFoundIsSuccess(t *testing.T) {
	api := newFakeAPI(t)
	gw := NewGateway(api.client())

	api.respond("deleteMessage", `{"ok":false,"error_code":400,"description":"Bad Request: message to delete not found"}`)
	assert.NoError(t, gw.DeleteMessage(context.Background(), -1001, 9))

	api.respond("deleteMessage", `{"ok":false,"error_code":403,"description":"Forbidden: bot was kicked from the supergroup chat"}`)
	assert.Error(t, gw.DeleteMessage(context.Background(), -1001, 9))
}

func TestGateway_EditMessageTextDropsButtons(t *testing.T) {
	api := newFakeAPI(t)
	gw := NewGateway(api.client())

	require.NoError(t, gw.EditMessageText(context.Background(), -1001, 9, gatekeeper.RejectedText))

	calls := api.callsTo("editMessageText")
	require.Len(t, calls, 1)
	assert.Equal(t, gatekeeper.RejectedText, calls[0]["text"])
	markup := calls[0]["reply_markup"].(map[string]interface{})
	assert.Empty(t, markup["inline_keyboard"])
}
