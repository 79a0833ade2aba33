package etherscan

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/songzhibin97/tokenscope/internal/models"
)

const maxDecimals = 255

var errNoMetadata = errors.New("all metadata reads failed")

// FetchMetadata reads name, symbol, decimals and totalSupply concurrently. Every read
// falls back to its placeholder on its own; an error is returned only when none of
// them succeeded.
func (e *Explorer) FetchMetadata(ctx context.Context, address string) (*models.TokenMetadata, error) {
	meta := models.PlaceholderMetadata(address)
	var read atomic.Int32

	// each goroutine owns one field; errors stay local
	var g errgroup.Group

	g.Go(func() error {
		if name, err := e.readString(ctx, address, selectorName); err == nil && name != "" {
			meta.Name = name
			read.Add(1)
		}
		return nil
	})

	g.Go(func() error {
		if symbol, err := e.readString(ctx, address, selectorSymbol); err == nil && symbol != "" {
			meta.Symbol = symbol
			read.Add(1)
		}
		return nil
	})

	g.Go(func() error {
		if result, err := e.ethCall(ctx, address, selectorDecimals); err == nil {
			if d, err := decodeUint256(result); err == nil && d.IsInt64() && d.Int64() <= maxDecimals {
				meta.Decimals = int(d.Int64())
				read.Add(1)
			}
		}
		return nil
	})

	g.Go(func() error {
		if result, err := e.ethCall(ctx, address, selectorTotalSupply); err == nil {
			if supply, err := decodeUint256(result); err == nil {
				meta.TotalSupply = supply.String()
				read.Add(1)
			}
		}
		return nil
	})

	_ = g.Wait()

	if read.Load() == 0 {
		return nil, errNoMetadata
	}

	return &meta, nil
}

func (e *Explorer) readString(ctx context.Context, address, selector string) (string, error) {
	result, err := e.ethCall(ctx, address, selector)
	if err != nil {
		return "", err
	}
	return decodeString(result)
}
