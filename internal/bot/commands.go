package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/mmynk/ledgerbot/internal/calculator"
	"github.com/mmynk/ledgerbot/internal/metrics"
	"github.com/mmynk/ledgerbot/internal/models"
	"github.com/mmynk/ledgerbot/internal/parser"
	"github.com/mmynk/ledgerbot/internal/report"
	"github.com/mmynk/ledgerbot/internal/session"
	"github.com/mmynk/ledgerbot/internal/storage"
)

// windows maps the summary commands to their look-back in days.
var windows = map[string]int{
	"daily":  1,
	"weekly": 7,
	"15days": 15,
}

// splitCommand separates "/name@bot body" into name and body. The slash
// and the bot suffix are optional.
func splitCommand(text string) (string, string) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "/")

	name, body := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		name, body = text[:i], text[i:]
	}
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), strings.TrimSpace(body)
}

// HandleCommand runs one text command for ownerID. The returned Reply is
// always renderable; a non-nil error wraps ErrStoreFailure.
func (b *Bot) HandleCommand(ctx context.Context, ownerID, text string) (Reply, error) {
	name, body := splitCommand(text)

	reply, outcome, err := b.dispatch(ctx, ownerID, name, body)
	if _, known := commandNames[name]; !known {
		name = "unknown"
	}
	b.metrics.Commands.WithLabelValues(name, outcome).Inc()
	return reply, err
}

var commandNames = map[string]struct{}{
	"start": {}, "help": {}, "add": {}, "shared": {}, "daily": {}, "weekly": {},
	"15days": {}, "monthly": {}, "show": {}, "settle": {},
}

func (b *Bot) dispatch(ctx context.Context, ownerID, name, body string) (Reply, string, error) {
	switch name {
	case "start":
		return Reply{Mode: ModeSend, Text: textStart, ParseMode: report.ParseModeMarkdownV2}, metrics.OutcomeOK, nil
	case "help":
		return Reply{Mode: ModeSend, Text: textHelp, ParseMode: report.ParseModeMarkdownV2}, metrics.OutcomeOK, nil
	case "add":
		return b.add(ctx, ownerID, body)
	case "shared":
		return b.shared(ctx, ownerID, body)
	case "daily", "weekly", "15days":
		return b.window(ctx, ownerID, windows[name])
	case "monthly":
		return b.monthly(ctx, ownerID)
	case "show":
		return b.showShared(ctx, ownerID, ModeSend)
	case "settle":
		return b.settle(ctx, ownerID, ModeSend)
	default:
		return Reply{Mode: ModeSend, Text: textUnknown}, metrics.OutcomeUsage, nil
	}
}

func (b *Bot) add(ctx context.Context, ownerID, body string) (Reply, string, error) {
	if body == "" {
		return Reply{Mode: ModeSend, Text: textAddUsage, ParseMode: report.ParseModeMarkdownV2}, metrics.OutcomeUsage, nil
	}

	amount, category, err := parser.ParseExpense(body)
	if err != nil {
		b.logger.DebugContext(ctx, "Rejected /add", "owner_id", ownerID, "error", err)
		return Reply{Mode: ModeSend, Text: textAddError}, metrics.OutcomeUsage, nil
	}

	expense := &models.Expense{
		OwnerID:   ownerID,
		Amount:    amount,
		Category:  category,
		CreatedAt: b.now().UTC(),
	}
	if err := b.store.InsertExpense(ctx, expense); err != nil {
		return b.fail(ctx, "insert_expense", err, "owner_id", ownerID, "amount", amount.String(), "category", category)
	}

	b.logger.InfoContext(ctx, "Recorded expense", "owner_id", ownerID, "amount", amount.String(), "category", category)
	return fromMessage(ModeSend, report.Added(amount, category)), metrics.OutcomeOK, nil
}

func (b *Bot) shared(ctx context.Context, ownerID, body string) (Reply, string, error) {
	if body == "" {
		return Reply{Mode: ModeSend, Text: textSharedUsage, ParseMode: report.ParseModeMarkdownV2}, metrics.OutcomeUsage, nil
	}

	intent, err := parser.ParseShared(body)
	if err != nil {
		b.logger.DebugContext(ctx, "Rejected /shared", "owner_id", ownerID, "error", err)
		return Reply{Mode: ModeSend, Text: textSharedError}, metrics.OutcomeUsage, nil
	}

	sessionID := session.NewID()
	if err := b.sessions.Put(ctx, sessionID, session.NewEntry(ownerID, intent), b.sessionTTL); err != nil {
		return b.fail(ctx, "put_session", err, "owner_id", ownerID)
	}

	keyboard, err := b.keyboard(ownerID, sessionID,
		[]buttonSpec{{labelSplit, actionSplit}, {labelOwe, string(calculator.FullOwe)}},
		[]buttonSpec{{labelClose, actionClose}},
	)
	if err != nil {
		return b.fail(ctx, "sign_choice", err, "owner_id", ownerID)
	}

	return Reply{Mode: ModeSend, Text: textHowToSplit, Keyboard: keyboard}, metrics.OutcomeOK, nil
}

func (b *Bot) window(ctx context.Context, ownerID string, days int) (Reply, string, error) {
	entries, err := b.store.ListExpenses(ctx, ownerID, b.reporter.WindowStart(days))
	if err != nil {
		return b.fail(ctx, "list_expenses", err, "owner_id", ownerID, "days", days)
	}
	return fromMessage(ModeSend, b.reporter.Window(entries, days)), metrics.OutcomeOK, nil
}

func (b *Bot) monthly(ctx context.Context, ownerID string) (Reply, string, error) {
	totals, err := b.store.SumExpensesByCategory(ctx, ownerID, b.reporter.MonthStart())
	if err != nil {
		return b.fail(ctx, "sum_expenses", err, "owner_id", ownerID)
	}
	return fromMessage(ModeSend, b.reporter.Monthly(totals)), metrics.OutcomeOK, nil
}

func (b *Bot) showShared(ctx context.Context, ownerID string, mode Mode) (Reply, string, error) {
	obligations, err := b.store.ListObligations(ctx, ownerID, storage.NewestFirst)
	if err != nil {
		return b.fail(ctx, "list_obligations", err, "owner_id", ownerID)
	}

	msg := b.reporter.History(obligations)
	reply := fromMessage(mode, msg)
	if msg.Empty {
		return reply, metrics.OutcomeOK, nil
	}

	reply.Keyboard, err = b.keyboard(ownerID, "",
		[]buttonSpec{{labelSettleNow, actionSettleNow}, {labelClose, actionClose}},
	)
	if err != nil {
		return b.fail(ctx, "sign_choice", err, "owner_id", ownerID)
	}
	return reply, metrics.OutcomeOK, nil
}

func (b *Bot) settle(ctx context.Context, ownerID string, mode Mode) (Reply, string, error) {
	obligations, err := b.store.ListObligations(ctx, ownerID, storage.OldestFirst)
	if err != nil {
		return b.fail(ctx, "list_obligations", err, "owner_id", ownerID)
	}

	balances := calculator.NetBalances(obligations)
	msg := b.reporter.Balances(balances, calculator.SimplifyDebts(balances))
	reply := fromMessage(mode, msg)
	if msg.Empty {
		return reply, metrics.OutcomeOK, nil
	}

	reply.Keyboard, err = b.keyboard(ownerID, "",
		[]buttonSpec{{labelClearAll, actionClearAll}, {labelBack, actionShowShared}, {labelClose, actionClose}},
	)
	if err != nil {
		return b.fail(ctx, "sign_choice", err, "owner_id", ownerID)
	}
	return reply, metrics.OutcomeOK, nil
}

// fail logs a store error with its context and returns the generic reply.
func (b *Bot) fail(ctx context.Context, op string, err error, attrs ...any) (Reply, string, error) {
	b.metrics.StoreErrors.WithLabelValues(op).Inc()
	b.logger.ErrorContext(ctx, "Store operation failed", append([]any{"op", op, "error", err}, attrs...)...)
	return storeFailure(), metrics.OutcomeError, fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
