package saver

import (
	"context"
	"time"

	"github.com/denprystai/mediamonitor/internal/domain"
	"github.com/denprystai/mediamonitor/internal/store"
)

// Saver turns a save-affordance activation into an archive write.
type Saver struct {
	prompts *Prompts
	archive store.ArchiveRepo
}

// New creates a Saver over the given prompt table and archive.
func New(prompts *Prompts, archive store.ArchiveRepo) *Saver {
	return &Saver{prompts: prompts, archive: archive}
}

// Prompts exposes the prompt table so the scheduler can create prompts
// at notify time.
func (s *Saver) Prompts() *Prompts {
	return s.prompts
}

// OnSave consumes the prompt and appends its article to the user's
// archive. The prompt is consumed even when the archive reports a
// duplicate, so repeating the same token always yields ErrPromptNotFound.
func (s *Saver) OnSave(ctx context.Context, promptID string) (domain.SavedArticle, error) {
	prompt, ok := s.prompts.Consume(promptID)
	if !ok {
		return domain.SavedArticle{}, domain.ErrPromptNotFound
	}

	if err := s.archive.SaveArticle(ctx, prompt.UserID, prompt.Article); err != nil {
		return domain.SavedArticle{}, err
	}

	return domain.SavedArticle{
		UserID:  prompt.UserID,
		Article: prompt.Article,
		SavedAt: time.Now().UTC(),
	}, nil
}
