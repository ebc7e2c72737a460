package trader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mako/internal/gateway/exchange"
)

const productType = "USDT-FUTURES"

func TestReconcileClosesOpposingPosition(t *testing.T) {
	gw := new(MockExchange)
	short := exchange.Position{Symbol: "BTC/USDT", HoldSide: exchange.HoldShort, Size: 1}

	gw.On("GetPositions", mock.Anything, productType).Return([]exchange.Position{short}, nil).Once()
	gw.On("GetOpenOrders", mock.Anything, "BTC/USDT", productType).Return([]exchange.PendingOrder{}, nil)
	gw.On("ClosePosition", mock.Anything, "BTC/USDT", exchange.HoldShort).Return(nil).Once()
	// Re-fetch after the close sees a clean book.
	gw.On("GetPositions", mock.Anything, productType).Return([]exchange.Position{}, nil).Once()

	r := NewReconciler(gw, productType)
	outcome, report, err := r.Reconcile(context.Background(), "BTC/USDT", exchange.SideBuy)
	require.NoError(t, err)
	assert.Equal(t, OutcomeProceed, outcome)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "close", report.Items[0].Kind)
	assert.False(t, report.Items[0].FlashFallback)
	gw.AssertExpectations(t)
}

func TestReconcileFlashCloseFallback(t *testing.T) {
	gw := new(MockExchange)
	short := exchange.Position{Symbol: "BTC/USDT", HoldSide: exchange.HoldShort, Size: 1}

	gw.On("GetPositions", mock.Anything, productType).Return([]exchange.Position{short}, nil).Once()
	gw.On("GetOpenOrders", mock.Anything, "BTC/USDT", productType).Return([]exchange.PendingOrder{}, nil)
	gw.On("ClosePosition", mock.Anything, "BTC/USDT", exchange.HoldShort).Return(errors.New("busy")).Once()
	gw.On("FlashClosePosition", mock.Anything, "BTC/USDT", exchange.HoldShort).Return(nil).Once()
	gw.On("GetPositions", mock.Anything, productType).Return([]exchange.Position{}, nil).Once()

	r := NewReconciler(gw, productType)
	outcome, report, err := r.Reconcile(context.Background(), "BTC/USDT", exchange.SideBuy)
	require.NoError(t, err)
	assert.Equal(t, OutcomeProceed, outcome)
	require.Len(t, report.Items, 1)
	assert.True(t, report.Items[0].FlashFallback)
	gw.AssertExpectations(t)
}

func TestReconcileSameSidePositionSkips(t *testing.T) {
	gw := new(MockExchange)
	long := exchange.Position{Symbol: "BTC/USDT", HoldSide: exchange.HoldLong, Size: 1}

	gw.On("GetPositions", mock.Anything, productType).Return([]exchange.Position{long}, nil)
	gw.On("GetOpenOrders", mock.Anything, "BTC/USDT", productType).Return([]exchange.PendingOrder{}, nil)

	r := NewReconciler(gw, productType)
	outcome, report, err := r.Reconcile(context.Background(), "BTC/USDT", exchange.SideBuy)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoAction, outcome)
	assert.True(t, report.SameSidePosition)
	// Nothing was closed or cancelled.
	assert.Empty(t, report.Items)
	gw.AssertNotCalled(t, "ClosePosition", mock.Anything, mock.Anything, mock.Anything)
}

// A failed close of one opposing position must not prevent cancelling
// unrelated opposing orders in the same pass.
func TestReconcileBestEffortIsolation(t *testing.T) {
	gw := new(MockExchange)
	short := exchange.Position{Symbol: "BTC/USDT", HoldSide: exchange.HoldShort, Size: 1}
	sellOrder := exchange.PendingOrder{OrderID: "o-1", Symbol: "BTC/USDT", Side: exchange.SideSell}

	gw.On("GetPositions", mock.Anything, productType).Return([]exchange.Position{short}, nil).Once()
	gw.On("GetOpenOrders", mock.Anything, "BTC/USDT", productType).Return([]exchange.PendingOrder{sellOrder}, nil).Once()
	gw.On("ClosePosition", mock.Anything, "BTC/USDT", exchange.HoldShort).Return(errors.New("down")).Once()
	gw.On("FlashClosePosition", mock.Anything, "BTC/USDT", exchange.HoldShort).Return(errors.New("down")).Once()
	gw.On("CancelOrder", mock.Anything, "BTC/USDT", "o-1").Return(nil).Once()
	// The short survives the pass; the cancel still went through.
	gw.On("GetPositions", mock.Anything, productType).Return([]exchange.Position{short}, nil).Once()
	gw.On("GetOpenOrders", mock.Anything, "BTC/USDT", productType).Return([]exchange.PendingOrder{}, nil).Once()

	r := NewReconciler(gw, productType)
	_, report, err := r.Reconcile(context.Background(), "BTC/USDT", exchange.SideBuy)
	require.Error(t, err)
	gw.AssertCalled(t, "CancelOrder", mock.Anything, "BTC/USDT", "o-1")
	require.Len(t, report.Failures(), 1)
	assert.Equal(t, "close", report.Failures()[0].Kind)
}

func TestReconcileFetchErrorIsTransient(t *testing.T) {
	gw := new(MockExchange)
	gw.On("GetPositions", mock.Anything, productType).Return(nil, errors.New("rate limited"))

	r := NewReconciler(gw, productType)
	_, _, err := r.Reconcile(context.Background(), "BTC/USDT", exchange.SideBuy)
	require.Error(t, err)
	assert.True(t, exchange.IsTransient(err))
}

func TestReconcileIgnoresOtherSymbols(t *testing.T) {
	gw := new(MockExchange)
	otherShort := exchange.Position{Symbol: "ETH/USDT", HoldSide: exchange.HoldShort, Size: 2}

	gw.On("GetPositions", mock.Anything, productType).Return([]exchange.Position{otherShort}, nil)
	gw.On("GetOpenOrders", mock.Anything, "BTC/USDT", productType).Return([]exchange.PendingOrder{}, nil)

	r := NewReconciler(gw, productType)
	outcome, report, err := r.Reconcile(context.Background(), "BTC/USDT", exchange.SideBuy)
	require.NoError(t, err)
	assert.Equal(t, OutcomeProceed, outcome)
	assert.Empty(t, report.Items)
	gw.AssertNotCalled(t, "ClosePosition", mock.Anything, mock.Anything, mock.Anything)
}
