// Package enrich optionally replaces heuristic merchant names with names
// suggested by a language model.
package enrich

import (
	"context"
	"errors"
)

// ErrEmptyName is returned when a Namer produces no usable name.
var ErrEmptyName = errors.New("namer returned an empty name")

// Namer turns a raw bank statement description into a display name.
//
//go:generate mockgen -destination=mocks/mock_namer.go -source=interface.go Namer
type Namer interface {
	CleanName(ctx context.Context, raw string) (string, error)
}
