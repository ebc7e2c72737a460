package trader

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mako/internal/gateway/exchange"
)

// MockExchange is a testify mock of the trading gateway.
type MockExchange struct {
	mock.Mock
}

var _ exchange.Exchange = (*MockExchange)(nil)

func (m *MockExchange) Name() string { return "mock" }

func (m *MockExchange) GetPositions(ctx context.Context, productType string) ([]exchange.Position, error) {
	args := m.Called(ctx, productType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]exchange.Position), args.Error(1)
}

func (m *MockExchange) GetOpenOrders(ctx context.Context, symbol, productType string) ([]exchange.PendingOrder, error) {
	args := m.Called(ctx, symbol, productType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]exchange.PendingOrder), args.Error(1)
}

func (m *MockExchange) ClosePosition(ctx context.Context, symbol string, holdSide exchange.HoldSide) error {
	return m.Called(ctx, symbol, holdSide).Error(0)
}

func (m *MockExchange) FlashClosePosition(ctx context.Context, symbol string, holdSide exchange.HoldSide) error {
	return m.Called(ctx, symbol, holdSide).Error(0)
}

func (m *MockExchange) CancelOrder(ctx context.Context, symbol, orderID string) error {
	return m.Called(ctx, symbol, orderID).Error(0)
}

func (m *MockExchange) SetLeverage(ctx context.Context, symbol string, holdSide exchange.HoldSide, leverage float64) error {
	return m.Called(ctx, symbol, holdSide, leverage).Error(0)
}

func (m *MockExchange) SubmitOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.OrderResult), args.Error(1)
}
