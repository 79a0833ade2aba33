package data

import (
	"context"
	"errors"

	"github.com/songzhibin97/tokenscope/internal/models"
)

var (
	// ErrUnexpectedResponse is returned when a provider answers with a shape the decoder does not know.
	ErrUnexpectedResponse = errors.New("unexpected provider response")
	// ErrNoHolders is returned when the holder list is empty.
	ErrNoHolders = errors.New("no holder rows")
)

// MetadataSource reads token metadata from the contract
type MetadataSource interface {
	Name() string
	FetchMetadata(ctx context.Context, address string) (*models.TokenMetadata, error)
}

// MarketSource retrieves market listings. A nil snapshot with a nil error means the token is unlisted.
type MarketSource interface {
	Name() string
	FetchMarket(ctx context.Context, address string) (*models.MarketSnapshot, error)
}

// SecuritySource inspects contract source and ABI for dangerous capabilities
type SecuritySource interface {
	Name() string
	FetchSecurity(ctx context.Context, address string) (*models.SecurityProfile, error)
}

// HolderSource retrieves holder distribution
type HolderSource interface {
	Name() string
	FetchHolders(ctx context.Context, address string) (*models.HolderProfile, error)
}
