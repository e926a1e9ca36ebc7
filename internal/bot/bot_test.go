package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/ledgerbot/internal/auth"
	"github.com/mmynk/ledgerbot/internal/metrics"
	"github.com/mmynk/ledgerbot/internal/models"
	"github.com/mmynk/ledgerbot/internal/report"
	"github.com/mmynk/ledgerbot/internal/session"
	"github.com/mmynk/ledgerbot/internal/storage"
	"github.com/mmynk/ledgerbot/internal/storage/sqlite"
)

const owner = "chat-1"

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	bot     *Bot
	store   storage.Store
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, wrap func(storage.Store) storage.Store, sessionTTL time.Duration) *testEnv {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var store storage.Store = db
	if wrap != nil {
		store = wrap(db)
	}

	keys, err := auth.DeriveKeys("test secret that is long enough to use")
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	b := New(store, session.NewMemoryStore(), auth.NewChoiceSigner(keys.Choice, time.Hour), Options{
		SessionTTL: sessionTTL,
		Metrics:    m,
		Now:        func() time.Time { return fixedNow },
	})
	return &testEnv{bot: b, store: store, metrics: m}
}

func (e *testEnv) command(t *testing.T, text string) Reply {
	t.Helper()
	reply, err := e.bot.HandleCommand(context.Background(), owner, text)
	require.NoError(t, err)
	return reply
}

func (e *testEnv) press(t *testing.T, token string) Reply {
	t.Helper()
	reply, err := e.bot.HandleChoice(context.Background(), owner, token)
	require.NoError(t, err)
	return reply
}

// tokenFor returns the token of the button labelled label.
func tokenFor(t *testing.T, reply Reply, label string) string {
	t.Helper()
	for _, row := range reply.Keyboard {
		for _, btn := range row {
			if btn.Text == label {
				return btn.Token
			}
		}
	}
	t.Fatalf("no %q button in %+v", label, reply.Keyboard)
	return ""
}

func labels(reply Reply) []string {
	var out []string
	for _, row := range reply.Keyboard {
		for _, btn := range row {
			out = append(out, btn.Text)
		}
	}
	return out
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantBody string
	}{
		{"/add 150 lunch", "add", "150 lunch"},
		{"add 150 lunch", "add", "150 lunch"},
		{"/add@ledger_bot 150 lunch", "add", "150 lunch"},
		{"  /settle  ", "settle", ""},
		{"/shared\n90 akash lunch jai", "shared", "90 akash lunch jai"},
		{"/Daily", "daily", ""},
	}
	for _, tt := range tests {
		name, body := splitCommand(tt.in)
		assert.Equal(t, tt.wantName, name, tt.in)
		assert.Equal(t, tt.wantBody, body, tt.in)
	}
}

func TestStaticCommands(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	start := env.command(t, "/start")
	assert.Contains(t, start.Text, "Welcome")
	assert.Equal(t, report.ParseModeMarkdownV2, start.ParseMode)

	help := env.command(t, "/help@ledger_bot")
	assert.Contains(t, help.Text, "Expense Tracker Help")

	unknown := env.command(t, "/frobnicate")
	assert.Equal(t, textUnknown, unknown.Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Commands.WithLabelValues("unknown", metrics.OutcomeUsage)))
}

func TestAdd(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	assert.Equal(t, textAddUsage, env.command(t, "/add").Text)
	assert.Equal(t, textAddError, env.command(t, "/add abc lunch").Text)
	assert.Equal(t, textAddError, env.command(t, "/add 0 lunch").Text)

	reply := env.command(t, "/add 150 lunch")
	assert.Equal(t, ModeSend, reply.Mode)
	assert.Equal(t, "✅ Added ₹150\\.00 for *lunch*", reply.Text)

	misc := env.command(t, "/add 12.5")
	assert.Contains(t, misc.Text, "*misc*")

	expenses, err := env.store.ListExpenses(context.Background(), owner, fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "lunch", expenses[0].Category)
	assert.Equal(t, "misc", expenses[1].Category)
}

func TestSummaries(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	assert.Equal(t, "No expenses found in last 1 day(s).", env.command(t, "/daily").Text)
	assert.Equal(t, "No expenses found for the current month.", env.command(t, "/monthly").Text)

	env.command(t, "/add 100 food")
	env.command(t, "/add 20 food")
	env.command(t, "/add 20 transport")

	weekly := env.command(t, "/weekly")
	assert.Contains(t, weekly.Text, "Total in last 7 day(s): ₹140.00")

	fifteen := env.command(t, "/15days")
	assert.Contains(t, fifteen.Text, "Total in last 15 day(s): ₹140.00")

	monthly := env.command(t, "/monthly")
	food := strings.Index(monthly.Text, "`food")
	transport := strings.Index(monthly.Text, "`transport")
	require.True(t, food >= 0 && transport >= 0, monthly.Text)
	assert.Less(t, food, transport)
	assert.Contains(t, monthly.Text, "₹120\\.00")
	assert.Contains(t, monthly.Text, "*Total this month:* ₹140\\.00")
}

func TestSharedIncludePayerFlow(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	assert.Equal(t, textSharedUsage, env.command(t, "/shared").Text)
	assert.Equal(t, textSharedError, env.command(t, "/shared 90 akash").Text)

	ask := env.command(t, "/shared 90 akash lunch jai swaraj")
	assert.Equal(t, textHowToSplit, ask.Text)
	assert.Equal(t, []string{labelSplit, labelOwe, labelClose}, labels(ask))

	includeOrNot := env.press(t, tokenFor(t, ask, labelSplit))
	assert.Equal(t, ModeEdit, includeOrNot.Mode)
	assert.Equal(t, textIncludePayer, includeOrNot.Text)

	include := tokenFor(t, includeOrNot, labelInclude)
	recorded := env.press(t, include)
	assert.Equal(t, ModeEdit, recorded.Mode)
	assert.Contains(t, recorded.Text, "Total split among 3 people")
	assert.Contains(t, recorded.Text, "*jai* split ₹30\\.00")

	// A second press finds the intent already consumed.
	again := env.press(t, include)
	assert.Equal(t, ModeNotice, again.Mode)
	assert.Equal(t, textExpired, again.Text)

	settle := env.command(t, "/settle")
	assert.Contains(t, settle.Text, "*akash*: gets ₹60\\.00")
	assert.Contains(t, settle.Text, "*jai*: owes ₹30\\.00")
	assert.Contains(t, settle.Text, "*swaraj*: owes ₹30\\.00")
	assert.Equal(t, []string{labelClearAll, labelBack, labelClose}, labels(settle))

	assert.Equal(t, 3.0, testutil.ToFloat64(env.metrics.ObligationsWritten))
}

func TestSharedFullOwe(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	ask := env.command(t, "/shared 600 jai dinner swaraj")
	recorded := env.press(t, tokenFor(t, ask, labelOwe))
	assert.Contains(t, recorded.Text, "*swaraj* owes ₹600\\.00")

	obligations, err := env.store.ListObligations(context.Background(), owner, storage.OldestFirst)
	require.NoError(t, err)
	require.Len(t, obligations, 1)
	assert.False(t, obligations[0].Split)
	assert.Equal(t, "jai", obligations[0].Payer)
	assert.Equal(t, "dinner", obligations[0].Description)
}

func TestCloseDiscardsIntent(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	ask := env.command(t, "/shared 50 jai cab swaraj")
	closed := env.press(t, tokenFor(t, ask, labelClose))
	assert.Equal(t, ModeDelete, closed.Mode)

	late := env.press(t, tokenFor(t, ask, labelOwe))
	assert.Equal(t, textExpired, late.Text)
}

func TestExpiredSession(t *testing.T) {
	env := newTestEnv(t, nil, time.Nanosecond)

	ask := env.command(t, "/shared 50 jai cab swaraj")
	time.Sleep(time.Millisecond)

	reply := env.press(t, tokenFor(t, ask, labelOwe))
	assert.Equal(t, ModeNotice, reply.Mode)
	assert.Equal(t, textExpired, reply.Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Choices.WithLabelValues("owe", metrics.OutcomeExpired)))
}

func TestRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t, nil, 0)
	ask := env.command(t, "/shared 50 jai cab swaraj")
	token := tokenFor(t, ask, labelOwe)

	forged := env.press(t, "owe|50|jai|cab|swaraj")
	assert.Equal(t, ModeNotice, forged.Mode)
	assert.Equal(t, textMalformed, forged.Text)

	stolen, err := env.bot.HandleChoice(context.Background(), "chat-2", token)
	require.NoError(t, err)
	assert.Equal(t, textMalformed, stolen.Text)

	// Neither attempt consumed the intent.
	recorded := env.press(t, token)
	assert.Equal(t, ModeEdit, recorded.Mode)
}

func TestShowAndSettle(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	empty := env.command(t, "/settle")
	assert.Equal(t, "No balances to show.", empty.Text)
	assert.Empty(t, empty.Keyboard)
	assert.Empty(t, empty.ParseMode)

	assert.Equal(t, "No shared expenses found.", env.command(t, "/show").Text)

	ask := env.command(t, "/shared 600 jai dinner swaraj")
	env.press(t, tokenFor(t, ask, labelOwe))

	show := env.command(t, "/show")
	assert.Contains(t, show.Text, "• *jai* paid ₹600\\.00 ➝ *swaraj* owes for *dinner* \\(`15 Mar 2024`\\)")
	assert.Equal(t, []string{labelSettleNow, labelClose}, labels(show))

	balances := env.press(t, tokenFor(t, show, labelSettleNow))
	assert.Equal(t, ModeEdit, balances.Mode)
	assert.Contains(t, balances.Text, "*jai*: gets ₹600\\.00")
	assert.Contains(t, balances.Text, "• *swaraj* ➝ *jai*: ₹600\\.00")

	back := env.press(t, tokenFor(t, balances, labelBack))
	assert.Contains(t, back.Text, "Shared Expense History")

	cleared := env.press(t, tokenFor(t, balances, labelClearAll))
	assert.Equal(t, "✅ All your shared expenses cleared.", cleared.Text)
	assert.Equal(t, "No balances to show.", env.command(t, "/settle").Text)
}

func TestOwnersAreIsolated(t *testing.T) {
	env := newTestEnv(t, nil, 0)

	ask := env.command(t, "/shared 600 jai dinner swaraj")
	env.press(t, tokenFor(t, ask, labelOwe))
	env.command(t, "/add 100 food")

	other, err := env.bot.HandleCommand(context.Background(), "chat-2", "/settle")
	require.NoError(t, err)
	assert.Equal(t, "No balances to show.", other.Text)

	other, err = env.bot.HandleCommand(context.Background(), "chat-2", "/daily")
	require.NoError(t, err)
	assert.Equal(t, "No expenses found in last 1 day(s).", other.Text)
}

// failingStore fails obligation writes after the first ok writes.
type failingStore struct {
	storage.Store
	ok int
}

func (f *failingStore) InsertObligation(ctx context.Context, o *models.Obligation) error {
	if f.ok == 0 {
		return errors.New("disk full")
	}
	f.ok--
	return f.Store.InsertObligation(ctx, o)
}

func TestPartialWriteFailure(t *testing.T) {
	env := newTestEnv(t, func(s storage.Store) storage.Store {
		return &failingStore{Store: s, ok: 1}
	}, 0)

	ask := env.command(t, "/shared 90 akash lunch jai swaraj")
	split := env.press(t, tokenFor(t, ask, labelSplit))

	reply, err := env.bot.HandleChoice(context.Background(), owner, tokenFor(t, split, labelExclude))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreFailure))
	assert.Equal(t, textStoreFailure, reply.Text)

	// The first obligation stays; nothing is rolled back.
	obligations, err := env.store.ListObligations(context.Background(), owner, storage.OldestFirst)
	require.NoError(t, err)
	require.Len(t, obligations, 1)
	assert.Equal(t, "jai", obligations[0].Payee)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.StoreErrors.WithLabelValues("insert_obligation")))
}
