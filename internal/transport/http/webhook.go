package transporthttp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"mako/internal/gateway/exchange"
	"mako/internal/logger"
	"mako/internal/pkg/symbol"
	"mako/internal/strategy"
	"mako/internal/trader"
)

// webhookSchema gates external signal payloads before they reach the
// orchestrator. Missing or malformed fields are rejected with 400.
const webhookSchema = `{
  "type": "object",
  "required": ["symbol", "price", "size", "side"],
  "properties": {
    "symbol": {"type": "string", "minLength": 1},
    "price": {"type": "number", "exclusiveMinimum": 0},
    "size": {"type": "number", "exclusiveMinimum": 0},
    "side": {"type": "string", "enum": ["buy", "sell"]},
    "orderType": {"type": "string", "enum": ["limit", "market"]},
    "marginCoin": {"type": "string"},
    "leverage": {"type": "number", "minimum": 1},
    "presetTakeProfitPrice": {"type": "number", "minimum": 0},
    "presetStopLossPrice": {"type": "number", "minimum": 0}
  }
}`

type webhookRequest struct {
	Symbol                string  `json:"symbol"`
	Price                 float64 `json:"price"`
	Size                  float64 `json:"size"`
	Side                  string  `json:"side"`
	OrderType             string  `json:"orderType"`
	MarginCoin            string  `json:"marginCoin"`
	Leverage              float64 `json:"leverage"`
	PresetTakeProfitPrice float64 `json:"presetTakeProfitPrice"`
	PresetStopLossPrice   float64 `json:"presetStopLossPrice"`
}

type webhookHandler struct {
	orchestrator SignalHandler
	schema       *jsonschema.Schema
}

func newWebhookHandler(orchestrator SignalHandler) (*webhookHandler, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("webhook.json", strings.NewReader(webhookSchema)); err != nil {
		return nil, err
	}
	schema, err := compiler.Compile("webhook.json")
	if err != nil {
		return nil, err
	}
	return &webhookHandler{orchestrator: orchestrator, schema: schema}, nil
}

func (h *webhookHandler) handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if err := h.schema.Validate(raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req webhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent := trader.TradeIntent{
		Signal: &strategy.Signal{
			Symbol:         symbol.Normalize(req.Symbol),
			Side:           exchange.Side(req.Side),
			ReferencePrice: req.Price,
			GeneratedAt:    time.Now(),
		},
		Trigger:         trader.TriggerWebhook,
		Size:            req.Size,
		Leverage:        req.Leverage,
		OrderType:       req.OrderType,
		TakeProfitPrice: req.PresetTakeProfitPrice,
		StopLossPrice:   req.PresetStopLossPrice,
	}

	res, err := h.orchestrator.OnSignal(c.Request.Context(), intent)
	if err != nil {
		if errors.Is(err, trader.ErrCycleInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "symbol": intent.Signal.Symbol})
			return
		}
		logger.Errorf("webhook: cycle failed for %s: %v", intent.Signal.Symbol, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "symbol": intent.Signal.Symbol})
		return
	}
	c.JSON(http.StatusOK, cycleResponse(res))
}

func cycleResponse(res *trader.CycleResult) gin.H {
	out := gin.H{
		"symbol":  res.Symbol,
		"side":    res.Side,
		"outcome": res.Outcome,
	}
	if res.Order != nil {
		out["orderId"] = res.Order.OrderID
		out["clientOid"] = res.Order.ClientOrderID
	}
	return out
}
