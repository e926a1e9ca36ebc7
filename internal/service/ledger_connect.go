package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the service.
const LedgerServiceName = "ledgerbot.v1.LedgerService"

// Procedure paths.
const (
	SendCommandProcedure = "/" + LedgerServiceName + "/SendCommand"
	ChooseProcedure      = "/" + LedgerServiceName + "/Choose"
	GetBalancesProcedure = "/" + LedgerServiceName + "/GetBalances"
	ListSharedProcedure  = "/" + LedgerServiceName + "/ListShared"
)

// NewLedgerServiceHandler builds an HTTP handler for svc and returns the
// path to mount it on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(SendCommandProcedure, connect.NewUnaryHandler(SendCommandProcedure, svc.SendCommand, opts...))
	mux.Handle(ChooseProcedure, connect.NewUnaryHandler(ChooseProcedure, svc.Choose, opts...))
	mux.Handle(GetBalancesProcedure, connect.NewUnaryHandler(GetBalancesProcedure, svc.GetBalances, opts...))
	mux.Handle(ListSharedProcedure, connect.NewUnaryHandler(ListSharedProcedure, svc.ListShared, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls a LedgerService over Connect.
type LedgerServiceClient struct {
	sendCommand *connect.Client[SendCommandRequest, ReplyResponse]
	choose      *connect.Client[ChooseRequest, ReplyResponse]
	getBalances *connect.Client[GetBalancesRequest, GetBalancesResponse]
	listShared  *connect.Client[ListSharedRequest, ListSharedResponse]
}

// NewLedgerServiceClient creates a client for the service at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &LedgerServiceClient{
		sendCommand: connect.NewClient[SendCommandRequest, ReplyResponse](httpClient, baseURL+SendCommandProcedure, opts...),
		choose:      connect.NewClient[ChooseRequest, ReplyResponse](httpClient, baseURL+ChooseProcedure, opts...),
		getBalances: connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+GetBalancesProcedure, opts...),
		listShared:  connect.NewClient[ListSharedRequest, ListSharedResponse](httpClient, baseURL+ListSharedProcedure, opts...),
	}
}

func (c *LedgerServiceClient) SendCommand(ctx context.Context, req *connect.Request[SendCommandRequest]) (*connect.Response[ReplyResponse], error) {
	return c.sendCommand.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) Choose(ctx context.Context, req *connect.Request[ChooseRequest]) (*connect.Response[ReplyResponse], error) {
	return c.choose.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListShared(ctx context.Context, req *connect.Request[ListSharedRequest]) (*connect.Response[ListSharedResponse], error) {
	return c.listShared.CallUnary(ctx, req)
}
