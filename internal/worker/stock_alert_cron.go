package worker

// Background loop that periodically looks for low and out of stock
// products and queues one alert email listing those not alerted in the
// last 24 hours. Skips ticks while the mail circuit breaker is open.

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/infra"
	"stockroom/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	alertKeyPrefix = "alert:low_stock:"
	alertDedupTTL  = 24 * time.Hour
)

// ProductLister is the product query used by the cron.
type ProductLister interface {
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
}

// AlertQueue accepts low stock alert jobs.
type AlertQueue interface {
	EnqueueLowStockAlert(ctx context.Context, payload LowStockAlertPayload) error
}

// alertMarker is the slice of the Redis client used for de-duplication.
type alertMarker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AlertCronConfig holds all dependencies for the alert loop.
type AlertCronConfig struct {
	Products   ProductLister
	Queue      AlertQueue
	RDB        *redis.Client
	CB         *infra.CircuitBreaker
	AlertEmail string
	Interval   time.Duration
}

// RunAlertCron ticks every Interval until ctx is cancelled. It returns
// immediately when no alert recipient is configured.
func RunAlertCron(ctx context.Context, cfg AlertCronConfig) error {
	if cfg.AlertEmail == "" {
		log.Info().Msg("alert_cron: ALERT_EMAIL not set, low stock alerts disabled")
		return nil
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	log.Info().Dur("interval", cfg.Interval).Msg("alert_cron: started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("alert_cron: shutting down")
			return nil
		case <-ticker.C:
			checkStock(ctx, cfg.Products, cfg.Queue, cfg.RDB, cfg.CB, cfg.AlertEmail)
		}
	}
}

// checkStock returns the number of products included in the queued alert.
func checkStock(ctx context.Context, products ProductLister, queue AlertQueue, marker alertMarker, cb *infra.CircuitBreaker, to string) int {
	// Skip the scan while the breaker is open
	if cb != nil && cb.State() == infra.CBOpen {
		log.Debug().Msg("alert_cron: circuit breaker is open, skipping tick")
		return 0
	}

	var candidates []model.Product
	for _, stock := range []string{dto.StockFilterOut, dto.StockFilterLow} {
		list, _, err := products.List(ctx, dto.ProductFilter{Stock: stock})
		if err != nil {
			log.Error().Err(err).Msg("alert_cron: failed to query products")
			return 0
		}
		candidates = append(candidates, list...)
	}

	var (
		items []LowStockAlertItem
		keys  []string
	)
	for i := range candidates {
		p := &candidates[i]
		key := alertKeyPrefix + p.ID.String()
		fresh, err := marker.SetNX(ctx, key, time.Now().Unix(), alertDedupTTL).Result()
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("alert_cron: dedup check failed")
			continue
		}
		if !fresh {
			continue
		}
		keys = append(keys, key)
		items = append(items, LowStockAlertItem{
			Name:         p.Name,
			SKU:          p.SKU,
			Quantity:     p.Quantity,
			ReorderLevel: p.EffectiveReorderLevel(),
			Status:       p.StockStatus().Label(),
		})
	}
	if len(items) == 0 {
		return 0
	}

	if err := queue.EnqueueLowStockAlert(ctx, LowStockAlertPayload{To: to, Items: items}); err != nil {
		log.Error().Err(err).Msg("alert_cron: failed to queue alert")
		// Release the marks so the next tick tries again
		marker.Del(ctx, keys...)
		return 0
	}
	log.Info().Int("count", len(items)).Msg("alert_cron: low stock alert queued")
	return len(items)
}
