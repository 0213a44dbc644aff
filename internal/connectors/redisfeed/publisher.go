package redisfeed

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/config"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/types"
)

type Publisher struct {
	rdb    *redis.Client
	stream string
	active string
}

func NewPublisher(cfg *config.Config) *Publisher {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
	})
	return &Publisher{
		rdb:    rdb,
		stream: cfg.Redis.Stream,
		active: cfg.Redis.ActiveKey,
	}
}

// UpsertMarketMeta stores market identity under market:meta:<SYMBOL> and
// indexes it in the active-markets ZSET scored by last-seen time.
func (p *Publisher) UpsertMarketMeta(ctx context.Context, mm types.MarketMeta, tsMs int64) error {
	metaKey := "market:meta:" + mm.Symbol
	if err := p.rdb.HSet(ctx, metaKey, map[string]interface{}{
		"symbol":     mm.Symbol,
		"market":     mm.Market.String(),
		"base_mint":  mm.BaseMint.String(),
		"quote_mint": mm.QuoteMint.String(),
		"ts_ms":      tsMs,
	}).Err(); err != nil {
		return err
	}
	return p.rdb.ZAdd(ctx, p.active, redis.Z{
		Score: float64(tsMs), Member: mm.Symbol,
	}).Err()
}

// PublishTopOfBook appends a top-of-book point to the feed stream.
func (p *Publisher) PublishTopOfBook(ctx context.Context, symbol string, tob types.TopOfBook, tsMs int64) error {
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: 10_000,
		Approx: true,
		Values: map[string]interface{}{
			"symbol": symbol,
			"bid_px": tob.BidPx,
			"bid_sz": tob.BidSz,
			"ask_px": tob.AskPx,
			"ask_sz": tob.AskSz,
			"ts_ms":  tsMs,
		},
	}).Err()
}

func (p *Publisher) Close() error { return p.rdb.Close() }
