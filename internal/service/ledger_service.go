package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mmynk/ledgerbot/internal/bot"
	"github.com/mmynk/ledgerbot/internal/calculator"
	"github.com/mmynk/ledgerbot/internal/middleware"
	"github.com/mmynk/ledgerbot/internal/storage"
)

var errNoOwner = errors.New("no ledger owner in context")

// LedgerService exposes the bot and the ledger over Connect.
type LedgerService struct {
	bot   *bot.Bot
	store storage.Store
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(b *bot.Bot, store storage.Store) *LedgerService {
	return &LedgerService{bot: b, store: store}
}

func owner(ctx context.Context) (string, error) {
	ownerID := middleware.GetOwnerID(ctx)
	if ownerID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errNoOwner)
	}
	return ownerID, nil
}

// replyError maps a bot failure to a Connect error carrying the user-facing text.
func replyError(reply bot.Reply, err error) error {
	if errors.Is(err, bot.ErrStoreFailure) {
		return connect.NewError(connect.CodeInternal, errors.New(reply.Text))
	}
	return connect.NewError(connect.CodeUnknown, err)
}

// SendCommand runs one text command.
func (s *LedgerService) SendCommand(ctx context.Context, req *connect.Request[SendCommandRequest]) (*connect.Response[ReplyResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Text == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("text is required"))
	}

	reply, err := s.bot.HandleCommand(ctx, ownerID, req.Msg.Text)
	if err != nil {
		return nil, replyError(reply, err)
	}
	return connect.NewResponse(&ReplyResponse{Reply: reply}), nil
}

// Choose runs the action behind a button token.
func (s *LedgerService) Choose(ctx context.Context, req *connect.Request[ChooseRequest]) (*connect.Response[ReplyResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Token == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("token is required"))
	}

	reply, err := s.bot.HandleChoice(ctx, ownerID, req.Msg.Token)
	if err != nil {
		return nil, replyError(reply, err)
	}
	return connect.NewResponse(&ReplyResponse{Reply: reply}), nil
}

// GetBalances returns every participant's net position and a settlement plan.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	obligations, err := s.store.ListObligations(ctx, ownerID, storage.OldestFirst)
	if err != nil {
		slog.Error("GetBalances failed", "owner_id", ownerID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errors.New("failed to load balances"))
	}

	balances := calculator.NetBalances(obligations)
	transfers := calculator.SimplifyDebts(balances)

	resp := &GetBalancesResponse{
		Balances:  make([]Balance, len(balances)),
		Transfers: make([]Transfer, len(transfers)),
	}
	for i, b := range balances {
		resp.Balances[i] = Balance{Name: b.Name, Net: b.Net}
	}
	for i, t := range transfers {
		resp.Transfers[i] = Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return connect.NewResponse(resp), nil
}

// ListShared returns the stored obligations, newest first.
func (s *LedgerService) ListShared(ctx context.Context, req *connect.Request[ListSharedRequest]) (*connect.Response[ListSharedResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	obligations, err := s.store.ListObligations(ctx, ownerID, storage.NewestFirst)
	if err != nil {
		slog.Error("ListShared failed", "owner_id", ownerID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errors.New("failed to load shared expenses"))
	}

	resp := &ListSharedResponse{Entries: make([]SharedEntry, len(obligations))}
	for i, o := range obligations {
		resp.Entries[i] = SharedEntry{
			ID:          o.ID,
			Amount:      o.Amount,
			Payer:       o.Payer,
			Payee:       o.Payee,
			Description: o.Description,
			Split:       o.Split,
			CreatedAt:   timestamppb.New(o.CreatedAt),
		}
	}
	return connect.NewResponse(resp), nil
}
