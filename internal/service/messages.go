package service

import (
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mmynk/ledgerbot/internal/bot"
)

// SendCommandRequest carries one chat message, e.g. "/add 150 lunch".
type SendCommandRequest struct {
	Text string `json:"text"`
}

// ChooseRequest carries the token of a pressed button.
type ChooseRequest struct {
	Token string `json:"token"`
}

// ReplyResponse wraps the reply to render.
type ReplyResponse struct {
	Reply bot.Reply `json:"reply"`
}

type GetBalancesRequest struct{}

type Balance struct {
	Name string          `json:"name"`
	Net  decimal.Decimal `json:"net"`
}

type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type GetBalancesResponse struct {
	Balances  []Balance  `json:"balances"`
	Transfers []Transfer `json:"transfers"`
}

type ListSharedRequest struct{}

// SharedEntry is one stored obligation.
type SharedEntry struct {
	ID          string                 `json:"id"`
	Amount      decimal.Decimal        `json:"amount"`
	Payer       string                 `json:"payer"`
	Payee       string                 `json:"payee"`
	Description string                 `json:"description"`
	Split       bool                   `json:"split"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at"`
}

type ListSharedResponse struct {
	Entries []SharedEntry `json:"entries"`
}
