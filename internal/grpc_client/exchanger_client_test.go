package grpc_client

import (
	"context"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type ratesServer interface {
	GetExchangeRates(ctx context.Context, req *Empty) (*ExchangeRatesResponse, error)
}

type stubServer struct {
	resp  *ExchangeRatesResponse
	err   error
	delay time.Duration
}

func (s *stubServer) GetExchangeRates(ctx context.Context, _ *Empty) (*ExchangeRatesResponse, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.resp, s.err
}

var exchangeServiceDesc = grpc.ServiceDesc{
	ServiceName: "exchange.ExchangeService",
	HandlerType: (*ratesServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetExchangeRates",
			Handler: func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
				in := new(Empty)
				if err := dec(in); err != nil {
					return nil, err
				}
				return srv.(ratesServer).GetExchangeRates(ctx, in)
			},
		},
	},
	Streams: []grpc.StreamDesc{},
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupClient(t *testing.T, srv *stubServer, timeout time.Duration) ExchangerClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	s.RegisterService(&exchangeServiceDesc, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	client, err := NewExchangerClient("passthrough:///bufnet", timeout, testLogger(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestExchangerClient_FetchRates_Success(t *testing.T) {
	client := setupClient(t, &stubServer{resp: &ExchangeRatesResponse{
		Base:  "EUR",
		Date:  "2026-05-01",
		Rates: map[string]float64{"EUR": 1, "USD": 1.1, "PHP": 61.3},
	}}, time.Second)

	rates, err := client.FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "EUR", rates.Base)
	assert.Equal(t, "2026-05-01", rates.Date)
	assert.Equal(t, 1.1, rates.Rates["USD"])
	assert.Len(t, rates.Rates, 3)
}

func TestExchangerClient_FetchRates_ServerError(t *testing.T) {
	client := setupClient(t, &stubServer{err: status.Error(codes.Internal, "failed to get exchange rates")}, time.Second)

	_, err := client.FetchRates(context.Background())

	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestExchangerClient_FetchRates_Timeout(t *testing.T) {
	client := setupClient(t, &stubServer{
		resp:  &ExchangeRatesResponse{Rates: map[string]float64{"USD": 1.1}},
		delay: time.Second,
	}, 50*time.Millisecond)

	_, err := client.FetchRates(context.Background())

	require.Error(t, err)
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}
