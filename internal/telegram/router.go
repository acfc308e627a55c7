package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/denprystai/mediamonitor/internal/digest"
	"github.com/denprystai/mediamonitor/internal/domain"
	"github.com/denprystai/mediamonitor/internal/saver"
	"github.com/denprystai/mediamonitor/internal/store"
)

// saveCallbackPrefix marks callback data carrying a save-prompt token.
const saveCallbackPrefix = "save:"

// Router wires Telegram updates to handlers. It also implements the
// scheduler's Notifier port, so pushed articles and command replies go
// through the same bot API.
type Router struct {
	bot      *tgbotapi.BotAPI
	log      *zap.Logger
	repo     store.Repo
	saver    *saver.Saver
	digester *digest.OpenAIDigester
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, sv *saver.Saver, dg *digest.OpenAIDigester) *Router {
	return &Router{bot: bot, log: log, repo: repo, saver: sv, digester: dg}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil && upd.Message.IsCommand() {
		msg := upd.Message
		chatID := msg.Chat.ID
		args := strings.TrimSpace(msg.CommandArguments())

		switch msg.Command() {
		case "start":
			r.sendText(chatID, startText)
		case "addkeyword":
			r.handleAddKeyword(ctx, chatID, args)
		case "listkeywords":
			r.handleListKeywords(ctx, chatID)
		case "deletekeyword":
			r.handleDeleteKeyword(ctx, chatID, args)
		case "savednews":
			r.handleSavedNews(ctx, chatID)
		case "setfrequency":
			r.handleSetFrequency(ctx, chatID, args)
		case "summary":
			r.handleSummary(ctx, chatID)
		case "digest":
			r.handleDigest(ctx, chatID)
		default:
			// Unknown command — ignore silently
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if strings.HasPrefix(cb.Data, saveCallbackPrefix) {
			r.handleSaveCallback(ctx, cb)
		}
		return
	}
}

// DeliverArticle pushes an article to the user followed by a message
// carrying the save affordance. This makes Router satisfy
// scheduler.Notifier.
func (r *Router) DeliverArticle(userID int64, a domain.Article, promptID string) error {
	if err := r.sendArticle(userID, a); err != nil {
		return err
	}

	prompt := tgbotapi.NewMessage(userID, savePromptText)
	prompt.ReplyMarkup = saveKeyboard(promptID)
	_, err := r.bot.Send(prompt)
	return err
}

// DeliverText sends a plain text message to the user.
func (r *Router) DeliverText(userID int64, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(userID, text))
	return err
}

// sendArticle renders one article: photo with caption when an image is
// available, plain text otherwise.
func (r *Router) sendArticle(chatID int64, a domain.Article) error {
	caption := articleCaption(a)
	if a.ImageURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(a.ImageURL))
		photo.Caption = caption
		_, err := r.bot.Send(photo)
		return err
	}
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, caption))
	return err
}

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

func (r *Router) answerCallback(id, text string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		r.log.Warn("answer callback failed", zap.Error(err))
	}
}
