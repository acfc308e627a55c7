package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/denprystai/mediamonitor/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	// The single connection also serializes read-modify-write sequences,
	// which is what gives Add/Remove their per-key atomicity.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// AddKeyword registers a keyword for monitoring. The keyword is trimmed;
// an empty result is rejected, as is a keyword the user already monitors.
func (r *SQLiteRepo) AddKeyword(ctx context.Context, userID int64, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return domain.ErrEmptyKeyword
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO keywords (user_id, keyword, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, keyword) DO NOTHING`,
		userID, keyword, time.Now().UTC().Unix(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrKeywordExists
	}
	return nil
}

// RemoveKeyword stops monitoring a keyword for the user.
func (r *SQLiteRepo) RemoveKeyword(ctx context.Context, userID int64, keyword string) error {
	keyword = strings.TrimSpace(keyword)

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM keywords
		WHERE user_id = ? AND keyword = ?`,
		userID, keyword,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrKeywordNotFound
	}
	return nil
}

// ListKeywords returns the user's keywords in insertion order.
// Unknown users get an empty slice, not an error.
func (r *SQLiteRepo) ListKeywords(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT keyword
		FROM keywords
		WHERE user_id = ?
		ORDER BY rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []string{}
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, err
		}
		res = append(res, kw)
	}
	return res, rows.Err()
}

// SetFrequency stores the user's polling interval, given in whole hours.
func (r *SQLiteRepo) SetFrequency(ctx context.Context, userID int64, hours int) error {
	if hours < 1 {
		return domain.ErrInvalidFrequency
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO frequencies (user_id, poll_interval_sec)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			poll_interval_sec = excluded.poll_interval_sec`,
		userID, hours*3600,
	)
	return err
}

// GetFrequency returns the user's polling interval, defaulting to one hour.
func (r *SQLiteRepo) GetFrequency(ctx context.Context, userID int64) (time.Duration, error) {
	var sec int64
	err := r.db.QueryRowContext(ctx, `
		SELECT poll_interval_sec
		FROM frequencies
		WHERE user_id = ?`,
		userID,
	).Scan(&sec)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultPollInterval, nil
	}
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}

// ListUsers returns the IDs of all users with at least one keyword,
// ordered by first appearance. This is the scheduler's snapshot source.
func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id
		FROM keywords
		GROUP BY user_id
		ORDER BY MIN(rowid) ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}

// SaveArticle appends an article to the user's archive. A second save of
// the same URL for the same user reports ErrAlreadySaved instead of
// duplicating the row.
func (r *SQLiteRepo) SaveArticle(ctx context.Context, userID int64, a domain.Article) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_articles (user_id, url, title, summary, image_url, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, url) DO NOTHING`,
		userID, a.URL, a.Title, a.Summary, a.ImageURL, time.Now().UTC().Unix(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAlreadySaved
	}
	return nil
}

// ListSaved returns the user's saved articles in save order.
func (r *SQLiteRepo) ListSaved(ctx context.Context, userID int64) ([]domain.SavedArticle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT url, title, summary, image_url, saved_at
		FROM saved_articles
		WHERE user_id = ?
		ORDER BY rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.SavedArticle
	for rows.Next() {
		var (
			a       domain.Article
			savedAt int64
		)
		if err := rows.Scan(&a.URL, &a.Title, &a.Summary, &a.ImageURL, &savedAt); err != nil {
			return nil, err
		}
		res = append(res, domain.SavedArticle{
			UserID:  userID,
			Article: a,
			SavedAt: time.Unix(savedAt, 0).UTC(),
		})
	}
	return res, rows.Err()
}

// Summarize returns the {title, url} projection of the user's archive.
func (r *SQLiteRepo) Summarize(ctx context.Context, userID int64) ([]domain.ArticleRef, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT title, url
		FROM saved_articles
		WHERE user_id = ?
		ORDER BY rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.ArticleRef{}
	for rows.Next() {
		var ref domain.ArticleRef
		if err := rows.Scan(&ref.Title, &ref.URL); err != nil {
			return nil, err
		}
		res = append(res, ref)
	}
	return res, rows.Err()
}
