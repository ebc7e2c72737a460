// Package symbol normalizes trading pair notation between the internal
// "BASE/QUOTE" form and the flat form the exchanges expect.
package symbol

import "strings"

// Known quote currencies, longest first so USDT wins over USD.
var quoteSuffixes = []string{"USDT", "USDC", "FDUSD", "BUSD", "USD", "BTC", "ETH"}

// Pair is a parsed trading pair.
type Pair struct {
	Base  string
	Quote string
}

// Internal renders the pair in "BASE/QUOTE" form.
func (p Pair) Internal() string {
	if p.Base == "" {
		return ""
	}
	if p.Quote == "" {
		return p.Base
	}
	return p.Base + "/" + p.Quote
}

// Parse accepts "BTC/USDT", "BTC-USDT" or "BTCUSDT" and splits it into
// base and quote. Unknown quotes leave the whole string in Base.
func Parse(raw string) Pair {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return Pair{}
	}
	for _, sep := range []string{"/", "-", "_"} {
		if i := strings.Index(s, sep); i > 0 {
			return Pair{Base: s[:i], Quote: strings.SplitN(s[i+1:], ":", 2)[0]}
		}
	}
	for _, quote := range quoteSuffixes {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return Pair{Base: strings.TrimSuffix(s, quote), Quote: quote}
		}
	}
	return Pair{Base: s}
}

// Normalize returns the canonical internal form of raw.
func Normalize(raw string) string {
	return Parse(raw).Internal()
}

// Converter maps internal pair notation to one exchange's notation.
type Converter interface {
	ToExchange(internal string) string
	FromExchange(raw string) string
}

type flatConverter struct{}

func (flatConverter) ToExchange(internal string) string {
	s := strings.ToUpper(strings.TrimSpace(internal))
	s = strings.ReplaceAll(s, "/", "")
	return strings.ReplaceAll(s, "-", "")
}

func (flatConverter) FromExchange(raw string) string {
	return Parse(raw).Internal()
}

// Bitget and Binance both use flat "BTCUSDT" symbols on their USDT
// perpetual APIs.
var (
	Bitget  Converter = flatConverter{}
	Binance Converter = flatConverter{}
)
