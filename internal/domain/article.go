package domain

import "time"

// Article is a single news item returned by the provider.
// Two articles are the same article iff their URLs are equal.
type Article struct {
	Title    string
	Summary  string
	URL      string
	ImageURL string
}

// SavedArticle is an article a user chose to keep.
type SavedArticle struct {
	UserID  int64
	Article Article
	SavedAt time.Time // UTC
}

// ArticleRef is the {title, url} projection used by /summary.
type ArticleRef struct {
	Title string
	URL   string
}

// Subscription holds a user's monitored keywords and polling interval.
type Subscription struct {
	UserID       int64
	Keywords     []string // insertion order
	PollInterval time.Duration
}

// DefaultPollInterval applies when a user never set a frequency.
const DefaultPollInterval = time.Hour
