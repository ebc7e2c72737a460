// Package bitget implements the market data source and trading gateway
// against the Bitget UM futures REST API (v2 mix endpoints).
package bitget

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"mako/internal/gateway/exchange"
	"mako/internal/pkg/circuit"
)

const codeOK = "00000"

// Client is the shared signed REST core behind both the candle source and
// the trading gateway. All requests pass through one circuit breaker;
// business rejections do not count as breaker failures.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *circuit.Breaker
	nowFn   func() time.Time
}

func NewClient(cfg Config) *Client {
	final := cfg.withDefaults()
	return &Client{
		cfg:     final,
		http:    &http.Client{Timeout: final.HTTPTimeout},
		breaker: circuit.NewBreaker("bitget-rest", final.BreakerThreshold, final.BreakerCooldown),
		nowFn:   time.Now,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (gjson.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("encoding %s body: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, nil, payload)
}

// do executes one REST call and returns the envelope's data field.
// Transport failures come back as *exchange.FetchError and trip the
// breaker; a non-zero envelope code becomes *exchange.RejectionError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (gjson.Result, error) {
	requestPath := path
	if len(query) > 0 {
		requestPath += "?" + query.Encode()
	}

	var raw []byte
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+requestPath, bytes.NewReader(body))
		if err != nil {
			return err
		}
		c.sign(req, method, requestPath, body)
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("http %d: %s", resp.StatusCode, truncate(raw))
		}
		return nil
	}
	if err := c.breaker.Do(call); err != nil {
		return gjson.Result{}, exchange.NewFetchError("bitget "+path, err)
	}

	envelope := gjson.ParseBytes(raw)
	if code := envelope.Get("code").String(); code != codeOK {
		return gjson.Result{}, &exchange.RejectionError{
			Op:      "bitget " + path,
			Code:    code,
			Message: envelope.Get("msg").String(),
		}
	}
	return envelope.Get("data"), nil
}

// sign attaches the ACCESS-* headers Bitget expects:
// base64(hmac-sha256(secret, timestamp + METHOD + requestPath + body)).
func (c *Client) sign(req *http.Request, method, requestPath string, body []byte) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("locale", "en-US")
	if c.cfg.APIKey == "" {
		return
	}
	ts := strconv.FormatInt(c.nowFn().UnixMilli(), 10)
	mac := hmac.New(sha256.New, []byte(c.cfg.APISecret))
	mac.Write([]byte(ts))
	mac.Write([]byte(strings.ToUpper(method)))
	mac.Write([]byte(requestPath))
	mac.Write(body)
	req.Header.Set("ACCESS-KEY", c.cfg.APIKey)
	req.Header.Set("ACCESS-SIGN", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	req.Header.Set("ACCESS-TIMESTAMP", ts)
	req.Header.Set("ACCESS-PASSPHRASE", c.cfg.Passphrase)
}

func truncate(raw []byte) string {
	const max = 256
	s := strings.TrimSpace(string(raw))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
