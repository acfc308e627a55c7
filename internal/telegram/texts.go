package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/denprystai/mediamonitor/internal/domain"
)

// UI texts
const (
	startText = "Welcome! Use /addkeyword to add a keyword for news monitoring.\n\n" +
		"Commands:\n" +
		"/addkeyword <keyword> — monitor a keyword\n" +
		"/listkeywords — show monitored keywords\n" +
		"/deletekeyword <keyword> — stop monitoring\n" +
		"/setfrequency <hours> — polling frequency\n" +
		"/savednews — your saved articles\n" +
		"/summary — titles and links of saved articles\n" +
		"/digest — short prose digest of saved articles"

	addKeywordUsage    = "Please provide a keyword after the command. Example: /addkeyword technology"
	deleteKeywordUsage = "Please provide a keyword to delete. Example: /deletekeyword technology"
	setFrequencyUsage  = "Please provide a valid frequency in hours. Example: /setfrequency 3"

	noKeywordsText = "You don't have any keywords being monitored."
	noSavedText    = "You don't have any saved news."
	summaryHeader  = "Summary of your saved news:"

	savePromptText     = "Do you want to save this news?"
	digestDisabledText = "Digest is not configured on this bot. Use /summary instead."
	internalErrorText  = "Something went wrong. Please try again later."
)

// articleCaption renders an article the way it appears in chat.
func articleCaption(a domain.Article) string {
	return fmt.Sprintf("Title: %s\nSummary: %s\nSource: %s", a.Title, a.Summary, a.URL)
}

// saveKeyboard builds the inline keyboard carrying the save affordance.
// Callback data holds only the opaque prompt token; the article itself
// stays server-side.
func saveKeyboard(promptID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Save", saveCallbackPrefix+promptID),
		),
	)
}
