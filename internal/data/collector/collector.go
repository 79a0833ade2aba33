package collector

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/songzhibin97/tokenscope/internal/data"
	"github.com/songzhibin97/tokenscope/internal/metrics"
	"github.com/songzhibin97/tokenscope/internal/models"
)

// Source categories, used as log and metric labels
const (
	CategoryMetadata = "metadata"
	CategoryMarket   = "market"
	CategorySecurity = "security"
	CategoryHolders  = "holders"
)

// Aggregator fans out to the four data sources and merges whatever comes back.
// A failed, empty or panicking source is replaced by its category default.
type Aggregator struct {
	metadata data.MetadataSource
	market   data.MarketSource
	security data.SecuritySource
	holders  data.HolderSource
	logger   Logger
}

type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

func NewAggregator(
	metadata data.MetadataSource,
	market data.MarketSource,
	security data.SecuritySource,
	holders data.HolderSource,
	logger Logger,
) *Aggregator {
	return &Aggregator{
		metadata: metadata,
		market:   market,
		security: security,
		holders:  holders,
		logger:   logger,
	}
}

// Collect waits for every source to settle. It never fails: Market is nil when the
// token is unlisted or the market source failed, the other bundles fall back to
// pessimistic defaults.
func (a *Aggregator) Collect(ctx context.Context, address string) models.Bundle {
	var (
		meta     *models.TokenMetadata
		market   *models.MarketSnapshot
		security *models.SecurityProfile
		holders  *models.HolderProfile
	)

	// no WithContext: one source failing must not cancel the others
	var g errgroup.Group

	if a.metadata != nil {
		g.Go(func() error {
			meta = fetch(ctx, a.logger, CategoryMetadata, a.metadata.Name(), address, a.metadata.FetchMetadata)
			return nil
		})
	}
	if a.market != nil {
		g.Go(func() error {
			market = fetch(ctx, a.logger, CategoryMarket, a.market.Name(), address, a.market.FetchMarket)
			return nil
		})
	}
	if a.security != nil {
		g.Go(func() error {
			security = fetch(ctx, a.logger, CategorySecurity, a.security.Name(), address, a.security.FetchSecurity)
			return nil
		})
	}
	if a.holders != nil {
		g.Go(func() error {
			holders = fetch(ctx, a.logger, CategoryHolders, a.holders.Name(), address, a.holders.FetchHolders)
			return nil
		})
	}

	_ = g.Wait()

	bundle := models.Bundle{
		Metadata: metadataOrDefault(meta, address),
		Market:   market,
		Security: models.DefaultSecurityProfile(),
		Holders:  models.DefaultHolderProfile(),
	}
	if security != nil {
		bundle.Security = *security
		// rug pull risk is always derived, never taken from the source
		bundle.Security.RugPullRisk = models.RugPullRisk(bundle.Security)
	}
	if holders != nil {
		bundle.Holders = *holders
	}

	return bundle
}

// CollectMetadata fetches only metadata.
func (a *Aggregator) CollectMetadata(ctx context.Context, address string) models.TokenMetadata {
	if a.metadata == nil {
		return models.PlaceholderMetadata(address)
	}
	meta := fetch(ctx, a.logger, CategoryMetadata, a.metadata.Name(), address, a.metadata.FetchMetadata)
	return metadataOrDefault(meta, address)
}

func metadataOrDefault(meta *models.TokenMetadata, address string) models.TokenMetadata {
	if meta == nil {
		return models.PlaceholderMetadata(address)
	}
	out := *meta
	if out.ContractAddress == "" {
		out.ContractAddress = address
	}
	return out
}

// fetch runs one source call and turns errors and panics into a nil result.
func fetch[T any](
	ctx context.Context,
	logger Logger,
	category, source, address string,
	fn func(context.Context, string) (*T, error),
) (result *T) {
	start := time.Now()

	defer func() {
		metrics.SourceFetchDuration.WithLabelValues(category, source).Observe(time.Since(start).Seconds())

		if r := recover(); r != nil {
			result = nil
			metrics.SourceFetchTotal.WithLabelValues(category, source, metrics.OutcomeError).Inc()
			logger.Error("source panicked", "category", category, "source", source, "address", address, "error", fmt.Sprint(r))
		}
	}()

	v, err := fn(ctx, address)
	switch {
	case err != nil:
		metrics.SourceFetchTotal.WithLabelValues(category, source, metrics.OutcomeError).Inc()
		logger.Error("failed to fetch source data", "category", category, "source", source, "address", address, "error", err)
		return nil
	case v == nil:
		metrics.SourceFetchTotal.WithLabelValues(category, source, metrics.OutcomeEmpty).Inc()
		logger.Info("source returned no data", "category", category, "source", source, "address", address)
		return nil
	}

	metrics.SourceFetchTotal.WithLabelValues(category, source, metrics.OutcomeOK).Inc()
	logger.Info("fetched source data", "category", category, "source", source, "address", address)
	return v
}
