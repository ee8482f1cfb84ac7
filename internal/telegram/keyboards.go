package telegram

import "github.com/savf/gatekeeper-bot/internal/gatekeeper"

// ChallengeKeyboard lays out one challenge button per row.
func ChallengeKeyboard(buttons []gatekeeper.Button) *InlineKeyboardMarkup {
	rows := make([][]InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []InlineKeyboardButton{
			{Text: b.Text, CallbackData: b.Data},
		})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

// RemoveKeyboard is an empty inline keyboard; sending it strips buttons
// from an edited message.
func RemoveKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{}}
}
