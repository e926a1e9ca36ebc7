package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/ledgerbot/internal/calculator"
	"github.com/mmynk/ledgerbot/internal/metrics"
	"github.com/mmynk/ledgerbot/internal/report"
	"github.com/mmynk/ledgerbot/internal/session"
)

// Choice actions carried by button tokens. The split strategies reuse the
// calculator.Strategy values.
const (
	actionSplit      = "split"
	actionSettleNow  = "settle_now"
	actionClearAll   = "clear_all"
	actionShowShared = "show_shared"
	actionClose      = "close"
)

// HandleChoice runs the action behind a pressed button. Bad or expired
// tokens produce a ModeNotice reply and no error; a non-nil error wraps
// ErrStoreFailure.
func (b *Bot) HandleChoice(ctx context.Context, ownerID, token string) (Reply, error) {
	claims, err := b.signer.Verify(token, ownerID)
	if err != nil {
		b.logger.WarnContext(ctx, "Rejected choice token", "owner_id", ownerID, "error", err)
		b.metrics.Choices.WithLabelValues("invalid", metrics.OutcomeMalformed).Inc()
		return Reply{Mode: ModeNotice, Text: textMalformed}, nil
	}

	reply, err := b.choose(ctx, ownerID, claims.Action, claims.SessionID)
	switch {
	case err == nil:
		b.metrics.Choices.WithLabelValues(claims.Action, metrics.OutcomeOK).Inc()
		return reply, nil
	case errors.Is(err, ErrChoiceExpired):
		b.metrics.Choices.WithLabelValues(claims.Action, metrics.OutcomeExpired).Inc()
		return Reply{Mode: ModeNotice, Text: textExpired}, nil
	case errors.Is(err, ErrMalformedChoicePayload):
		b.logger.WarnContext(ctx, "Malformed choice", "owner_id", ownerID, "action", claims.Action, "error", err)
		b.metrics.Choices.WithLabelValues(claims.Action, metrics.OutcomeMalformed).Inc()
		return Reply{Mode: ModeNotice, Text: textMalformed}, nil
	default:
		b.metrics.Choices.WithLabelValues(claims.Action, metrics.OutcomeError).Inc()
		return storeFailure(), err
	}
}

// choose executes a verified action. It returns ErrMalformedChoicePayload,
// ErrChoiceExpired or an ErrStoreFailure-wrapped error.
func (b *Bot) choose(ctx context.Context, ownerID, action, sessionID string) (Reply, error) {
	switch action {
	case actionSplit:
		return b.askIncludePayer(ctx, ownerID, sessionID)
	case string(calculator.EqualSplitIncludePayer), string(calculator.EqualSplitExcludePayer), string(calculator.FullOwe):
		return b.record(ctx, ownerID, calculator.Strategy(action), sessionID)
	case actionSettleNow:
		reply, _, err := b.settle(ctx, ownerID, ModeEdit)
		return reply, err
	case actionShowShared:
		reply, _, err := b.showShared(ctx, ownerID, ModeEdit)
		return reply, err
	case actionClearAll:
		return b.clearAll(ctx, ownerID)
	case actionClose:
		if sessionID != "" {
			if err := b.sessions.Delete(ctx, sessionID); err != nil {
				b.logger.WarnContext(ctx, "Failed to discard session", "owner_id", ownerID, "error", err)
			}
		}
		return Reply{Mode: ModeDelete}, nil
	default:
		return Reply{}, fmt.Errorf("%w: unknown action %q", ErrMalformedChoicePayload, action)
	}
}

// pending loads the live intent behind sessionID, optionally consuming it.
func (b *Bot) pending(ctx context.Context, ownerID, sessionID string, take bool) (session.Entry, error) {
	if sessionID == "" {
		return session.Entry{}, fmt.Errorf("%w: missing session", ErrMalformedChoicePayload)
	}

	var entry session.Entry
	var err error
	if take {
		entry, err = b.sessions.Take(ctx, sessionID)
	} else {
		entry, err = b.sessions.Get(ctx, sessionID)
	}
	if errors.Is(err, session.ErrNotFound) {
		return session.Entry{}, ErrChoiceExpired
	} else if err != nil {
		return session.Entry{}, fmt.Errorf("%w: read session: %w", ErrStoreFailure, err)
	}

	if entry.OwnerID != ownerID {
		return session.Entry{}, fmt.Errorf("%w: session belongs to another owner", ErrMalformedChoicePayload)
	}
	return entry, nil
}

func (b *Bot) askIncludePayer(ctx context.Context, ownerID, sessionID string) (Reply, error) {
	if _, err := b.pending(ctx, ownerID, sessionID, false); err != nil {
		return Reply{}, err
	}

	keyboard, err := b.keyboard(ownerID, sessionID,
		[]buttonSpec{
			{labelInclude, string(calculator.EqualSplitIncludePayer)},
			{labelExclude, string(calculator.EqualSplitExcludePayer)},
		},
		[]buttonSpec{{labelClose, actionClose}},
	)
	if err != nil {
		return storeFailure(), fmt.Errorf("%w: sign choice: %w", ErrStoreFailure, err)
	}
	return Reply{Mode: ModeEdit, Text: textIncludePayer, Keyboard: keyboard}, nil
}

// record resolves the pending intent and appends one obligation per share.
// Writes are not transactional: the first failure stops the loop and the
// obligations already written stay.
func (b *Bot) record(ctx context.Context, ownerID string, strategy calculator.Strategy, sessionID string) (Reply, error) {
	entry, err := b.pending(ctx, ownerID, sessionID, true)
	if err != nil {
		return Reply{}, err
	}
	intent := entry.Pending

	res, err := calculator.ResolveSplit(intent, strategy)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrMalformedChoicePayload, err)
	}

	obligations := res.Obligations(ownerID, intent, b.now().UTC())
	for i := range obligations {
		o := &obligations[i]
		if err := b.store.InsertObligation(ctx, o); err != nil {
			reply, _, err := b.fail(ctx, "insert_obligation", err,
				"owner_id", ownerID,
				"payer", o.Payer,
				"payee", o.Payee,
				"amount", o.Amount.String(),
				"written", i,
				"total", len(obligations),
			)
			return reply, err
		}
		b.metrics.ObligationsWritten.Inc()
	}

	b.logger.InfoContext(ctx, "Recorded shared expense",
		"owner_id", ownerID,
		"strategy", string(strategy),
		"payer", intent.Payer,
		"obligations", len(obligations),
	)
	return fromMessage(ModeEdit, report.Recorded(intent, res)), nil
}

func (b *Bot) clearAll(ctx context.Context, ownerID string) (Reply, error) {
	n, err := b.store.DeleteObligations(ctx, ownerID)
	if err != nil {
		reply, _, err := b.fail(ctx, "delete_obligations", err, "owner_id", ownerID)
		return reply, err
	}

	b.logger.InfoContext(ctx, "Cleared shared expenses", "owner_id", ownerID, "deleted", n)
	return fromMessage(ModeEdit, report.Cleared()), nil
}
