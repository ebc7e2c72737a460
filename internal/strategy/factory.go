package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type builder func(params map[string]any) (Strategy, error)

var registry = map[string]builder{
	"crossover": func(params map[string]any) (Strategy, error) {
		var cfg CrossoverConfig
		if err := decodeParams(params, &cfg); err != nil {
			return nil, err
		}
		return NewCrossover(cfg), nil
	},
	"momentum": func(params map[string]any) (Strategy, error) {
		var cfg MomentumConfig
		if err := decodeParams(params, &cfg); err != nil {
			return nil, err
		}
		return NewMomentum(cfg), nil
	},
}

// New builds a named strategy from loosely typed profile params.
func New(name string, params map[string]any) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	build, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return build(params)
}

// Names lists the registered strategy names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func decodeParams(params map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("decoding strategy params: %w", err)
	}
	return nil
}
