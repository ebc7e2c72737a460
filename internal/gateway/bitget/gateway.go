package bitget

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"mako/internal/gateway/exchange"
	symbolpkg "mako/internal/pkg/symbol"
)

const (
	pathAllPositions  = "/api/v2/mix/position/all-position"
	pathOrdersPending = "/api/v2/mix/order/orders-pending"
	pathPlaceOrder    = "/api/v2/mix/order/place-order"
	pathCancelOrder   = "/api/v2/mix/order/cancel-order"
	pathClosePosition = "/api/v2/mix/order/close-positions"
	pathSetLeverage   = "/api/v2/mix/account/set-leverage"
)

// Gateway implements exchange.Exchange over the signed REST client.
type Gateway struct {
	client *Client
}

var _ exchange.Exchange = (*Gateway)(nil)

func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) Name() string { return "bitget" }

func (g *Gateway) GetPositions(ctx context.Context, productType string) ([]exchange.Position, error) {
	if productType == "" {
		productType = g.client.cfg.ProductType
	}
	query := url.Values{}
	query.Set("productType", productType)
	query.Set("marginCoin", g.client.cfg.MarginCoin)
	data, err := g.client.get(ctx, pathAllPositions, query)
	if err != nil {
		return nil, err
	}
	var out []exchange.Position
	data.ForEach(func(_, item gjson.Result) bool {
		size := item.Get("total").Float()
		if size <= 0 {
			return true
		}
		out = append(out, exchange.Position{
			Symbol:        symbolpkg.Bitget.FromExchange(item.Get("symbol").String()),
			MarginCoin:    item.Get("marginCoin").String(),
			HoldSide:      exchange.HoldSide(item.Get("holdSide").String()),
			Size:          size,
			EntryPrice:    item.Get("openPriceAvg").Float(),
			Leverage:      item.Get("leverage").Float(),
			UnrealizedPnL: item.Get("unrealizedPL").Float(),
			UpdatedAt:     time.UnixMilli(item.Get("uTime").Int()),
		})
		return true
	})
	return out, nil
}

func (g *Gateway) GetOpenOrders(ctx context.Context, symbol, productType string) ([]exchange.PendingOrder, error) {
	if productType == "" {
		productType = g.client.cfg.ProductType
	}
	query := url.Values{}
	query.Set("productType", productType)
	query.Set("symbol", symbolpkg.Bitget.ToExchange(symbol))
	data, err := g.client.get(ctx, pathOrdersPending, query)
	if err != nil {
		return nil, err
	}
	var out []exchange.PendingOrder
	data.Get("entrustedList").ForEach(func(_, item gjson.Result) bool {
		out = append(out, exchange.PendingOrder{
			OrderID:   item.Get("orderId").String(),
			Symbol:    symbolpkg.Bitget.FromExchange(item.Get("symbol").String()),
			Side:      exchange.Side(item.Get("side").String()),
			Price:     item.Get("price").Float(),
			Size:      item.Get("size").Float(),
			CreatedAt: time.UnixMilli(item.Get("cTime").Int()),
		})
		return true
	})
	return out, nil
}

// ClosePosition submits a reduce (tradeSide=close) market order for the
// full current size. The position snapshot is fetched here because the
// close endpoint needs an explicit size.
func (g *Gateway) ClosePosition(ctx context.Context, symbol string, holdSide exchange.HoldSide) error {
	positions, err := g.GetPositions(ctx, g.client.cfg.ProductType)
	if err != nil {
		return err
	}
	var target *exchange.Position
	for i := range positions {
		if positions[i].Symbol == symbolpkg.Normalize(symbol) && positions[i].HoldSide == holdSide {
			target = &positions[i]
			break
		}
	}
	if target == nil {
		// Already gone; closing is idempotent.
		return nil
	}
	closeSide := exchange.SideSell
	if holdSide == exchange.HoldShort {
		closeSide = exchange.SideBuy
	}
	body := map[string]any{
		"symbol":      symbolpkg.Bitget.ToExchange(symbol),
		"productType": g.client.cfg.ProductType,
		"marginMode":  "crossed",
		"marginCoin":  target.MarginCoin,
		"size":        formatFloat(target.Size),
		"side":        string(closeSide),
		"tradeSide":   "close",
		"orderType":   "market",
	}
	_, err = g.client.post(ctx, pathPlaceOrder, body)
	return err
}

// FlashClosePosition uses the venue's forced market close endpoint.
func (g *Gateway) FlashClosePosition(ctx context.Context, symbol string, holdSide exchange.HoldSide) error {
	body := map[string]any{
		"symbol":      symbolpkg.Bitget.ToExchange(symbol),
		"productType": g.client.cfg.ProductType,
		"holdSide":    string(holdSide),
	}
	_, err := g.client.post(ctx, pathClosePosition, body)
	return err
}

func (g *Gateway) CancelOrder(ctx context.Context, symbol, orderID string) error {
	body := map[string]any{
		"symbol":      symbolpkg.Bitget.ToExchange(symbol),
		"productType": g.client.cfg.ProductType,
		"orderId":     orderID,
	}
	_, err := g.client.post(ctx, pathCancelOrder, body)
	return err
}

func (g *Gateway) SetLeverage(ctx context.Context, symbol string, holdSide exchange.HoldSide, leverage float64) error {
	if leverage <= 0 {
		return fmt.Errorf("leverage must be positive, got %v", leverage)
	}
	body := map[string]any{
		"symbol":      symbolpkg.Bitget.ToExchange(symbol),
		"productType": g.client.cfg.ProductType,
		"marginCoin":  g.client.cfg.MarginCoin,
		"leverage":    formatFloat(leverage),
		"holdSide":    string(holdSide),
	}
	_, err := g.client.post(ctx, pathSetLeverage, body)
	return err
}

func (g *Gateway) SubmitOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error) {
	marginCoin := req.MarginCoin
	if marginCoin == "" {
		marginCoin = g.client.cfg.MarginCoin
	}
	orderType := req.OrderType
	if orderType == "" {
		orderType = "limit"
	}
	body := map[string]any{
		"symbol":      symbolpkg.Bitget.ToExchange(req.Symbol),
		"productType": g.client.cfg.ProductType,
		"marginMode":  "crossed",
		"marginCoin":  marginCoin,
		"size":        formatFloat(req.Size),
		"side":        string(req.Side),
		"tradeSide":   "open",
		"orderType":   orderType,
		"force":       "gtc",
	}
	if orderType == "limit" {
		body["price"] = formatFloat(req.Price)
	}
	if req.ClientOrderID != "" {
		body["clientOid"] = req.ClientOrderID
	}
	if req.PresetTakeProfitPrice > 0 {
		body["presetStopSurplusPrice"] = formatFloat(req.PresetTakeProfitPrice)
	}
	if req.PresetStopLossPrice > 0 {
		body["presetStopLossPrice"] = formatFloat(req.PresetStopLossPrice)
	}
	data, err := g.client.post(ctx, pathPlaceOrder, body)
	if err != nil {
		return nil, err
	}
	return &exchange.OrderResult{
		OrderID:       data.Get("orderId").String(),
		ClientOrderID: data.Get("clientOid").String(),
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
