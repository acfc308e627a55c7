package saver

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/denprystai/mediamonitor/internal/domain"
)

// Prompt correlates a delivered save affordance back to its article.
type Prompt struct {
	ID        string
	UserID    int64
	Article   domain.Article
	CreatedAt time.Time
}

// Prompts is an in-memory table of pending save prompts. A prompt is
// consumed at most once; a TTL of zero keeps prompts forever, matching
// the unlimited lifetime of the original inline buttons.
type Prompts struct {
	mu      sync.Mutex
	pending map[string]Prompt
	ttl     time.Duration
	now     func() time.Time
}

// NewPrompts creates a prompt table with the given expiry policy.
func NewPrompts(ttl time.Duration) *Prompts {
	return &Prompts{
		pending: make(map[string]Prompt),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create registers a pending prompt for the article and returns its
// opaque token.
func (p *Prompts) Create(userID int64, a domain.Article) string {
	id := uuid.NewString()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked()
	p.pending[id] = Prompt{
		ID:        id,
		UserID:    userID,
		Article:   a,
		CreatedAt: p.now().UTC(),
	}
	return id
}

// Consume removes and returns the prompt with the given token. The
// second return is false when the prompt was already consumed, has
// expired, or never existed.
func (p *Prompts) Consume(id string) (Prompt, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked()
	prompt, ok := p.pending[id]
	if !ok {
		return Prompt{}, false
	}
	delete(p.pending, id)
	return prompt, true
}

// Len reports the number of pending prompts.
func (p *Prompts) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked()
	return len(p.pending)
}

// sweepLocked drops expired prompts. Callers hold p.mu.
func (p *Prompts) sweepLocked() {
	if p.ttl <= 0 {
		return
	}
	cutoff := p.now().Add(-p.ttl)
	for id, prompt := range p.pending {
		if prompt.CreatedAt.Before(cutoff) {
			delete(p.pending, id)
		}
	}
}
