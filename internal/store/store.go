// Package store persists generated quotes and roofer profiles. The
// pricing core never touches it; commands and the HTTP API hand finished
// results in and read them back out.
package store

import (
	"context"
	"time"

	"github.com/tileit-labs/quote-cli/internal/pricing"
)

// SavedQuote is one persisted quote result.
type SavedQuote struct {
	ID        string              `json:"id"`
	Quote     pricing.QuoteResult `json:"quote"`
	CreatedAt time.Time           `json:"created_at"`
}

// QuoteFilter specifies criteria for listing saved quotes.
type QuoteFilter struct {
	Address string `json:"address,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for quotes and profiles.
type Store interface {
	// Quotes
	SaveQuotes(ctx context.Context, quotes []pricing.QuoteResult) ([]SavedQuote, error)
	ListQuotes(ctx context.Context, filter QuoteFilter) ([]SavedQuote, error)
	DeleteQuote(ctx context.Context, id string) error

	// Profiles
	SaveProfile(ctx context.Context, name string, profile *pricing.Profile) error
	GetProfile(ctx context.Context, name string) (*pricing.Profile, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
