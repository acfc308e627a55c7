package store

import (
	"context"
	"time"

	"github.com/denprystai/mediamonitor/internal/domain"
)

// SubscriptionRepo defines storage operations for per-user keyword
// subscriptions and polling frequencies.
type SubscriptionRepo interface {
	AddKeyword(ctx context.Context, userID int64, keyword string) error
	RemoveKeyword(ctx context.Context, userID int64, keyword string) error
	ListKeywords(ctx context.Context, userID int64) ([]string, error)
	SetFrequency(ctx context.Context, userID int64, hours int) error
	GetFrequency(ctx context.Context, userID int64) (time.Duration, error)
	ListUsers(ctx context.Context) ([]int64, error)
}

// ArchiveRepo defines storage operations for saved articles.
type ArchiveRepo interface {
	SaveArticle(ctx context.Context, userID int64, a domain.Article) error
	ListSaved(ctx context.Context, userID int64) ([]domain.SavedArticle, error)
	Summarize(ctx context.Context, userID int64) ([]domain.ArticleRef, error)
}

// Repo is the full storage surface backed by a single database.
type Repo interface {
	SubscriptionRepo
	ArchiveRepo
	Close() error
}
