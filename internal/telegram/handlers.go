package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/denprystai/mediamonitor/internal/digest"
	"github.com/denprystai/mediamonitor/internal/domain"
)

func (r *Router) handleAddKeyword(ctx context.Context, chatID int64, keyword string) {
	keyword = strings.TrimSpace(keyword)
	err := r.repo.AddKeyword(ctx, chatID, keyword)
	switch {
	case errors.Is(err, domain.ErrEmptyKeyword):
		r.sendText(chatID, addKeywordUsage)
	case errors.Is(err, domain.ErrKeywordExists):
		r.sendText(chatID, fmt.Sprintf("Keyword %q is already being monitored.", keyword))
	case err != nil:
		r.log.Error("add keyword failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, internalErrorText)
	default:
		r.sendText(chatID, fmt.Sprintf("Keyword %q has been added for monitoring.", keyword))
	}
}

func (r *Router) handleListKeywords(ctx context.Context, chatID int64) {
	keywords, err := r.repo.ListKeywords(ctx, chatID)
	if err != nil {
		r.log.Error("list keywords failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, internalErrorText)
		return
	}
	if len(keywords) == 0 {
		r.sendText(chatID, noKeywordsText)
		return
	}
	r.sendText(chatID, "Your monitored keywords: "+strings.Join(keywords, ", "))
}

func (r *Router) handleDeleteKeyword(ctx context.Context, chatID int64, keyword string) {
	if keyword == "" {
		r.sendText(chatID, deleteKeywordUsage)
		return
	}
	err := r.repo.RemoveKeyword(ctx, chatID, keyword)
	switch {
	case errors.Is(err, domain.ErrKeywordNotFound):
		r.sendText(chatID, fmt.Sprintf("Keyword %q not found in your monitored list.", keyword))
	case err != nil:
		r.log.Error("remove keyword failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, internalErrorText)
	default:
		r.sendText(chatID, fmt.Sprintf("Keyword %q has been deleted from monitoring.", keyword))
	}
}

func (r *Router) handleSavedNews(ctx context.Context, chatID int64) {
	saved, err := r.repo.ListSaved(ctx, chatID)
	if err != nil {
		r.log.Error("list saved failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, internalErrorText)
		return
	}
	if len(saved) == 0 {
		r.sendText(chatID, noSavedText)
		return
	}
	for _, s := range saved {
		if err := r.sendArticle(chatID, s.Article); err != nil {
			r.log.Warn("send saved article failed", zap.Error(err), zap.String("url", s.Article.URL))
		}
	}
}

func (r *Router) handleSetFrequency(ctx context.Context, chatID int64, arg string) {
	hours, err := strconv.Atoi(arg)
	if err != nil {
		r.sendText(chatID, setFrequencyUsage)
		return
	}
	err = r.repo.SetFrequency(ctx, chatID, hours)
	switch {
	case errors.Is(err, domain.ErrInvalidFrequency):
		r.sendText(chatID, "Please provide a valid frequency in hours (minimum 1 hour).")
	case err != nil:
		r.log.Error("set frequency failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, internalErrorText)
	default:
		r.sendText(chatID, fmt.Sprintf("Monitoring frequency set to every %d hour(s).", hours))
	}
}

func (r *Router) handleSummary(ctx context.Context, chatID int64) {
	refs, err := r.repo.Summarize(ctx, chatID)
	if err != nil {
		r.log.Error("summarize failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, internalErrorText)
		return
	}
	if len(refs) == 0 {
		r.sendText(chatID, noSavedText)
		return
	}

	lines := lo.Map(refs, func(ref domain.ArticleRef, _ int) string {
		return fmt.Sprintf("- %s: %s", ref.Title, ref.URL)
	})
	r.sendText(chatID, summaryHeader+"\n"+strings.Join(lines, "\n"))
}

func (r *Router) handleDigest(ctx context.Context, chatID int64) {
	if !r.digester.Enabled() {
		r.sendText(chatID, digestDisabledText)
		return
	}
	saved, err := r.repo.ListSaved(ctx, chatID)
	if err != nil {
		r.log.Error("list saved failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, internalErrorText)
		return
	}
	if len(saved) == 0 {
		r.sendText(chatID, noSavedText)
		return
	}

	text, err := r.digester.Digest(ctx, saved)
	if err != nil {
		if !errors.Is(err, digest.ErrDisabled) {
			r.log.Error("digest failed", zap.Error(err), zap.Int64("chatID", chatID))
		}
		r.sendText(chatID, "Could not produce a digest right now. Try /summary instead.")
		return
	}
	r.sendText(chatID, text)
}

// handleSaveCallback consumes a save prompt. A repeated press of the
// same button lands in the ErrPromptNotFound branch.
func (r *Router) handleSaveCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	r.answerCallback(cb.ID, "")

	promptID := strings.TrimPrefix(cb.Data, saveCallbackPrefix)
	saved, err := r.saver.OnSave(ctx, promptID)

	var text string
	switch {
	case errors.Is(err, domain.ErrPromptNotFound):
		text = "This save prompt is no longer available."
	case errors.Is(err, domain.ErrAlreadySaved):
		text = "You already saved this article."
	case err != nil:
		r.log.Error("save failed", zap.Error(err), zap.String("promptID", promptID))
		text = internalErrorText
	default:
		text = "Saved: " + saved.Article.Title
	}

	if cb.Message != nil {
		edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
		if _, err := r.bot.Send(edit); err != nil {
			r.log.Warn("edit message failed", zap.Error(err))
		}
	}
}
