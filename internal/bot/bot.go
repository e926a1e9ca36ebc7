// Package bot turns chat commands and button presses into ledger operations
// and transport-neutral replies.
package bot

import (
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/ledgerbot/internal/auth"
	"github.com/mmynk/ledgerbot/internal/metrics"
	"github.com/mmynk/ledgerbot/internal/report"
	"github.com/mmynk/ledgerbot/internal/session"
	"github.com/mmynk/ledgerbot/internal/storage"
)

var (
	// ErrMalformedChoicePayload covers forged, stale or mismatched button tokens.
	ErrMalformedChoicePayload = errors.New("malformed choice payload")
	// ErrChoiceExpired means the pending intent behind a button is gone.
	ErrChoiceExpired = errors.New("choice expired")
	// ErrStoreFailure wraps ledger and session store errors.
	ErrStoreFailure = errors.New("store failure")
)

// Mode tells the transport what to do with a Reply.
type Mode string

const (
	// ModeSend posts a new message.
	ModeSend Mode = "send"
	// ModeEdit replaces the message that carried the pressed button.
	ModeEdit Mode = "edit"
	// ModeDelete removes the message that carried the pressed button.
	ModeDelete Mode = "delete"
	// ModeNotice shows a transient notice and leaves the message alone.
	ModeNotice Mode = "notice"
)

// Button is one inline button. Token is sent back verbatim on press.
type Button struct {
	Text  string `json:"text"`
	Token string `json:"token"`
}

// Reply is what the transport renders back to the chat.
type Reply struct {
	Mode      Mode       `json:"mode"`
	Text      string     `json:"text,omitempty"`
	ParseMode string     `json:"parse_mode,omitempty"`
	Keyboard  [][]Button `json:"keyboard,omitempty"`
}

func fromMessage(mode Mode, msg report.Message) Reply {
	return Reply{Mode: mode, Text: msg.Text, ParseMode: msg.ParseMode}
}

// Options holds the optional collaborators of a Bot.
type Options struct {
	SessionTTL time.Duration
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Now        func() time.Time
}

// Bot handles commands for any number of chats. Every call is scoped to
// the owner id it is given.
type Bot struct {
	store      storage.Store
	sessions   session.Store
	signer     *auth.ChoiceSigner
	reporter   *report.Reporter
	metrics    *metrics.Metrics
	logger     *slog.Logger
	sessionTTL time.Duration
	now        func() time.Time
}

// New creates a Bot.
func New(store storage.Store, sessions session.Store, signer *auth.ChoiceSigner, opts Options) *Bot {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Bot{
		store:      store,
		sessions:   sessions,
		signer:     signer,
		reporter:   report.New(opts.Now),
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		sessionTTL: opts.SessionTTL,
		now:        opts.Now,
	}
}

// button signs a choice token for a button.
func (b *Bot) button(ownerID, text, action, sessionID string) (Button, error) {
	token, err := b.signer.Sign(ownerID, action, sessionID)
	if err != nil {
		return Button{}, err
	}
	return Button{Text: text, Token: token}, nil
}

// keyboard builds rows of buttons from (text, action) pairs bound to one session.
func (b *Bot) keyboard(ownerID, sessionID string, rows ...[]buttonSpec) ([][]Button, error) {
	out := make([][]Button, len(rows))
	for i, row := range rows {
		out[i] = make([]Button, len(row))
		for j, bs := range row {
			btn, err := b.button(ownerID, bs.text, bs.action, sessionID)
			if err != nil {
				return nil, err
			}
			out[i][j] = btn
		}
	}
	return out, nil
}

type buttonSpec struct {
	text   string
	action string
}

func storeFailure() Reply {
	return Reply{Mode: ModeSend, Text: textStoreFailure}
}
