package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/denprystai/mediamonitor/internal/digest"
	"github.com/denprystai/mediamonitor/internal/saver"
	"github.com/denprystai/mediamonitor/internal/store"
)

// newTestBot points a real bot client at a local server and records the
// text of every sendMessage call.
func newTestBot(t *testing.T) (*tgbotapi.BotAPI, *[]string) {
	t.Helper()
	sent := &[]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"test","username":"test_bot"}}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			*sent = append(*sent, r.Form.Get("text"))
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"chat":{"id":1}}}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":{}}`)
		}
	}))
	t.Cleanup(srv.Close)

	bot, err := tgbotapi.NewBotAPIWithClient("test-token", srv.URL+"/bot%s/%s", srv.Client())
	if err != nil {
		t.Fatalf("new bot: %v", err)
	}
	return bot, sent
}

func newTestRouter(t *testing.T) (*Router, *[]string) {
	t.Helper()
	repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	bot, sent := newTestBot(t)
	sv := saver.New(saver.NewPrompts(0), repo)
	return NewRouter(bot, zap.NewNop(), repo, sv, digest.NewOpenAIDigester("", "")), sent
}

func TestHandleAddKeyword_RepliesQuoteTrimmedKeyword(t *testing.T) {
	r, sent := newTestRouter(t)
	ctx := context.Background()

	r.handleAddKeyword(ctx, 1, "  golang  ")
	r.handleAddKeyword(ctx, 1, " golang")

	if len(*sent) != 2 {
		t.Fatalf("want 2 replies, got %d", len(*sent))
	}
	if want := `Keyword "golang" has been added for monitoring.`; (*sent)[0] != want {
		t.Fatalf("success reply %q, want %q", (*sent)[0], want)
	}
	if want := `Keyword "golang" is already being monitored.`; (*sent)[1] != want {
		t.Fatalf("duplicate reply %q, want %q", (*sent)[1], want)
	}
}
