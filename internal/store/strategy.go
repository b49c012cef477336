package store

import (
	"context"
	"fmt"

	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Strategy decides what happens to an incoming asset whose date is already
// stored.
type Strategy string

const (
	Overwrite Strategy = "overwrite"
	Skip      Strategy = "skip"
)

// ParseStrategy parses a strategy name; empty means Overwrite.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", Overwrite:
		return Overwrite, nil
	case Skip:
		return Skip, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want overwrite or skip)", s)
	}
}

// SkipExisting returns the incoming assets whose date is not in existing,
// preserving order.
func SkipExisting(existing, incoming []model.Asset) []model.Asset {
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a.Date] = true
	}
	out := make([]model.Asset, 0, len(incoming))
	for _, a := range incoming {
		if !seen[a.Date] {
			out = append(out, a)
		}
	}
	return out
}

// ApplyStrategy filters incoming assets against the store per strategy.
// Overwrite returns incoming unchanged.
func ApplyStrategy(ctx context.Context, s Store, strategy Strategy, incoming []model.Asset) ([]model.Asset, error) {
	if strategy != Skip {
		return incoming, nil
	}
	existing, err := s.AllAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading existing assets: %w", err)
	}
	return SkipExisting(existing, incoming), nil
}
