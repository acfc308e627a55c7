package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/denprystai/mediamonitor/internal/domain"
	"github.com/denprystai/mediamonitor/internal/seen"
	"github.com/denprystai/mediamonitor/internal/store"
)

// Provider is the news-search capability the scheduler polls.
// newsapi.Client implements it.
type Provider interface {
	Search(ctx context.Context, keyword string) ([]domain.Article, error)
}

// Notifier delivers articles and save prompts to users.
// telegram.Router implements it.
type Notifier interface {
	DeliverArticle(userID int64, a domain.Article, promptID string) error
	DeliverText(userID int64, text string) error
}

// PromptTable creates save prompts at notify time.
type PromptTable interface {
	Create(userID int64, a domain.Article) string
}

// pair is the unit of polling: one user watching one keyword.
type pair struct {
	userID  int64
	keyword string
}

// Scheduler periodically re-evaluates every (user, keyword) pair and
// polls the provider for pairs whose interval has elapsed.
type Scheduler struct {
	subs     store.SubscriptionRepo
	seen     seen.Store
	provider Provider
	notifier Notifier
	prompts  PromptTable
	log      *zap.Logger

	tickInterval  time.Duration
	searchTimeout time.Duration
	maxPerPoll    int

	mu         sync.Mutex
	lastPolled map[pair]time.Time
}

// Config carries the scheduler's tuning knobs.
type Config struct {
	TickInterval  time.Duration // granularity of due-pair evaluation
	SearchTimeout time.Duration // per provider call
	MaxPerPoll    int           // delivery cap per pair per poll
}

// New creates a Scheduler. Zero config fields fall back to defaults.
func New(subs store.SubscriptionRepo, seenStore seen.Store, provider Provider, notifier Notifier, prompts PromptTable, log *zap.Logger, cfg Config) *Scheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Minute
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 5 * time.Second
	}
	if cfg.MaxPerPoll <= 0 {
		cfg.MaxPerPoll = 3
	}
	return &Scheduler{
		subs:          subs,
		seen:          seenStore,
		provider:      provider,
		notifier:      notifier,
		prompts:       prompts,
		log:           log,
		tickInterval:  cfg.TickInterval,
		searchTimeout: cfg.SearchTimeout,
		maxPerPoll:    cfg.MaxPerPoll,
		lastPolled:    make(map[pair]time.Time),
	}
}

// Run starts the tick loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.RunOnce(ctx, time.Now().UTC())
		}
	}
}

// RunOnce performs one scheduling cycle at the given instant: snapshot
// subscriptions, poll every due pair, deduplicate, cap, and notify.
// A failed pair is logged and retried on the next tick without
// advancing its lastPolledAt.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) {
	users, err := s.subs.ListUsers(ctx)
	if err != nil {
		s.log.Error("list users failed", zap.Error(err))
		return
	}

	for _, userID := range users {
		sub, err := s.snapshot(ctx, userID)
		if err != nil {
			s.log.Error("subscription snapshot failed", zap.Error(err), zap.Int64("userID", userID))
			continue
		}

		for _, keyword := range sub.Keywords {
			p := pair{sub.UserID, keyword}
			if !s.due(p, sub.PollInterval, now) {
				continue
			}
			s.poll(ctx, p, now)
		}
	}
}

// snapshot loads one user's subscription as of this cycle. Changes made
// after the snapshot take effect on the next tick.
func (s *Scheduler) snapshot(ctx context.Context, userID int64) (domain.Subscription, error) {
	keywords, err := s.subs.ListKeywords(ctx, userID)
	if err != nil {
		return domain.Subscription{}, err
	}
	interval, err := s.subs.GetFrequency(ctx, userID)
	if err != nil {
		return domain.Subscription{}, err
	}
	return domain.Subscription{UserID: userID, Keywords: keywords, PollInterval: interval}, nil
}

// due reports whether the pair's interval elapsed since its last
// successful poll. Unpolled pairs are due immediately.
func (s *Scheduler) due(p pair, interval time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastPolled[p]
	if !ok {
		return true
	}
	return now.Sub(last) >= interval
}

// poll queries the provider for one pair and dispatches unseen results.
// lastPolledAt advances only on provider success, so a failed or
// timed-out call is retried on the next tick.
func (s *Scheduler) poll(ctx context.Context, p pair, now time.Time) {
	sctx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	articles, err := s.provider.Search(sctx, p.keyword)
	cancel()
	if err != nil {
		s.log.Warn("provider search failed",
			zap.Error(err),
			zap.Int64("userID", p.userID),
			zap.String("keyword", p.keyword),
		)
		return
	}

	s.dispatch(p, articles)

	s.mu.Lock()
	s.lastPolled[p] = now
	s.mu.Unlock()
}

// dispatch filters the result set against the pair's seen set and
// delivers at most maxPerPoll surviving articles, each with a fresh
// save prompt. Only delivered articles are marked seen; the surplus
// stays eligible for the next poll.
func (s *Scheduler) dispatch(p pair, articles []domain.Article) {
	delivered := 0
	for _, a := range articles {
		if delivered >= s.maxPerPoll {
			break
		}
		if a.URL == "" {
			continue
		}

		already, err := s.seen.Seen(p.userID, p.keyword, a.URL)
		if err != nil {
			s.log.Error("seen lookup failed", zap.Error(err), zap.String("url", a.URL))
			continue
		}
		if already {
			continue
		}

		if err := s.seen.Mark(p.userID, p.keyword, a.URL); err != nil {
			s.log.Error("seen mark failed", zap.Error(err), zap.String("url", a.URL))
			continue
		}

		promptID := s.prompts.Create(p.userID, a)
		if err := s.notifier.DeliverArticle(p.userID, a, promptID); err != nil {
			s.log.Warn("deliver failed",
				zap.Error(err),
				zap.Int64("userID", p.userID),
				zap.String("url", a.URL),
			)
		}
		delivered++
	}
}
