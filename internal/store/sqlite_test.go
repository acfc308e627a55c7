package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/denprystai/mediamonitor/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestAddKeyword_DuplicateRejected(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.AddKeyword(ctx, 1, "rust"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := repo.AddKeyword(ctx, 1, "rust"); !errors.Is(err, domain.ErrKeywordExists) {
		t.Fatalf("want ErrKeywordExists, got %v", err)
	}

	keywords, err := repo.ListKeywords(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keywords) != 1 || keywords[0] != "rust" {
		t.Fatalf("want [rust], got %v", keywords)
	}
}

func TestAddKeyword_EmptyRejected(t *testing.T) {
	repo := openTestRepo(t)

	if err := repo.AddKeyword(context.Background(), 1, "   "); !errors.Is(err, domain.ErrEmptyKeyword) {
		t.Fatalf("want ErrEmptyKeyword, got %v", err)
	}
}

func TestAddKeyword_TrimsBeforeStoring(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.AddKeyword(ctx, 1, "  golang  "); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.AddKeyword(ctx, 1, "golang"); !errors.Is(err, domain.ErrKeywordExists) {
		t.Fatalf("want ErrKeywordExists for trimmed duplicate, got %v", err)
	}
}

func TestRemoveKeyword(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.AddKeyword(ctx, 1, "ai"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.RemoveKeyword(ctx, 1, "ai"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.RemoveKeyword(ctx, 1, "ai"); !errors.Is(err, domain.ErrKeywordNotFound) {
		t.Fatalf("want ErrKeywordNotFound, got %v", err)
	}

	keywords, err := repo.ListKeywords(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keywords) != 0 {
		t.Fatalf("want empty list, got %v", keywords)
	}
}

func TestListKeywords_InsertionOrder(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, kw := range []string{"zebra", "apple", "mango"} {
		if err := repo.AddKeyword(ctx, 1, kw); err != nil {
			t.Fatalf("add %s: %v", kw, err)
		}
	}

	keywords, err := repo.ListKeywords(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"zebra", "apple", "mango"}
	for i, kw := range want {
		if keywords[i] != kw {
			t.Fatalf("want %v, got %v", want, keywords)
		}
	}
}

func TestListKeywords_UnknownUserEmpty(t *testing.T) {
	repo := openTestRepo(t)

	keywords, err := repo.ListKeywords(context.Background(), 404)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keywords) != 0 {
		t.Fatalf("want empty, got %v", keywords)
	}
}

func TestSetFrequency_InvalidKeepsPrior(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.SetFrequency(ctx, 1, 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.SetFrequency(ctx, 1, 0); !errors.Is(err, domain.ErrInvalidFrequency) {
		t.Fatalf("want ErrInvalidFrequency, got %v", err)
	}

	got, err := repo.GetFrequency(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != 2*time.Hour {
		t.Fatalf("want 2h, got %s", got)
	}
}

func TestGetFrequency_Default(t *testing.T) {
	repo := openTestRepo(t)

	got, err := repo.GetFrequency(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != time.Hour {
		t.Fatalf("want 1h default, got %s", got)
	}
}

func TestSaveArticle_Idempotent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	a := domain.Article{Title: "T", Summary: "S", URL: "https://example.com/a"}

	if err := repo.SaveArticle(ctx, 1, a); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.SaveArticle(ctx, 1, a); !errors.Is(err, domain.ErrAlreadySaved) {
		t.Fatalf("want ErrAlreadySaved, got %v", err)
	}

	saved, err := repo.ListSaved(ctx, 1)
	if err != nil {
		t.Fatalf("list saved: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("want 1 saved article, got %d", len(saved))
	}
	if saved[0].Article != a {
		t.Fatalf("want %+v, got %+v", a, saved[0].Article)
	}
}

func TestSaveArticle_SameURLDifferentUsers(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	a := domain.Article{Title: "T", URL: "https://example.com/a"}

	if err := repo.SaveArticle(ctx, 1, a); err != nil {
		t.Fatalf("user 1 save: %v", err)
	}
	if err := repo.SaveArticle(ctx, 2, a); err != nil {
		t.Fatalf("user 2 save: %v", err)
	}
}

func TestSummarize_EmptyIsNotAnError(t *testing.T) {
	repo := openTestRepo(t)

	refs, err := repo.Summarize(context.Background(), 1)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("want empty, got %v", refs)
	}
}

func TestSummarize_Projection(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	articles := []domain.Article{
		{Title: "first", Summary: "s1", URL: "https://example.com/1", ImageURL: "https://img/1"},
		{Title: "second", Summary: "s2", URL: "https://example.com/2"},
	}
	for _, a := range articles {
		if err := repo.SaveArticle(ctx, 1, a); err != nil {
			t.Fatalf("save %s: %v", a.URL, err)
		}
	}

	refs, err := repo.Summarize(ctx, 1)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("want 2 refs, got %d", len(refs))
	}
	for i, a := range articles {
		if refs[i].Title != a.Title || refs[i].URL != a.URL {
			t.Fatalf("ref %d: want {%s %s}, got %+v", i, a.Title, a.URL, refs[i])
		}
	}
}

func TestListUsers(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.AddKeyword(ctx, 7, "go"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.AddKeyword(ctx, 3, "go"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.AddKeyword(ctx, 7, "rust"); err != nil {
		t.Fatalf("add: %v", err)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 || users[0] != 7 || users[1] != 3 {
		t.Fatalf("want [7 3], got %v", users)
	}
}
