package marketdata

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/config"
	imetrics "github.com/Ellipsis-Labs/jupiter-phoenix/internal/metrics"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/phoenix"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/types"
)

// Display exposes the read-only market views the runner needs for metrics
// and feed output. *phoenix.Market satisfies it.
type Display interface {
	BaseMint() solana.PublicKey
	QuoteMint() solana.PublicKey
	Ladder() phoenix.Ladder
	PriceToFloat(priceInTicks uint64) float64
	SizeToFloat(sizeInBaseLots uint64) float64
}

// Tracked is one market under refresh: the adapter the router consumes plus
// the underlying market for display conversions.
type Tracked struct {
	Symbol string
	Amm    core.Amm
	Market Display
}

// Snapshot is one refresh cycle's result for one market.
type Snapshot struct {
	Symbol string
	Market solana.PublicKey
	Top    types.TopOfBook
	Sell   types.ProbeQuote // probe: base in, quote out
	Buy    types.ProbeQuote // probe: quote in, base out
	Ts     time.Time
}

type accountFetcher interface {
	Fetch(ctx context.Context, keys []solana.PublicKey) (map[solana.PublicKey][]byte, error)
}

type feedPublisher interface {
	UpsertMarketMeta(ctx context.Context, mm types.MarketMeta, tsMs int64) error
	PublishTopOfBook(ctx context.Context, symbol string, tob types.TopOfBook, tsMs int64) error
}

// Run polls fresh account bytes, refreshes every tracked market, computes
// probe quotes in both directions and emits snapshots. push, when non-nil,
// delivers ws account updates between polls. pub may be nil.
func Run(
	ctx context.Context,
	cfg *config.Config,
	tracked []Tracked,
	fetch accountFetcher,
	pub feedPublisher,
	push <-chan core.KeyedAccount,
	out chan<- Snapshot,
	log *zap.Logger,
) {
	byKey := make(map[solana.PublicKey]Tracked, len(tracked))
	for _, tr := range tracked {
		byKey[tr.Amm.Key()] = tr
		if pub != nil {
			mm := types.MarketMeta{
				Symbol:    tr.Symbol,
				Market:    tr.Amm.Key(),
				BaseMint:  tr.Market.BaseMint(),
				QuoteMint: tr.Market.QuoteMint(),
			}
			if err := pub.UpsertMarketMeta(ctx, mm, time.Now().UnixMilli()); err != nil {
				log.Warn("marketdata: upsert market meta failed", zap.Error(err), zap.String("symbol", tr.Symbol))
			}
		}
	}

	var keys []solana.PublicKey
	for _, tr := range tracked {
		keys = append(keys, tr.Amm.AccountsToUpdate()...)
	}

	t := time.NewTicker(cfg.RefreshInterval())
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case acc, ok := <-push:
			if !ok {
				push = nil
				continue
			}
			tr, found := byKey[acc.Key]
			if !found {
				continue
			}
			if err := tr.Amm.Update(map[solana.PublicKey][]byte{acc.Key: acc.Data}); err != nil {
				imetrics.RefreshErrors.WithLabelValues(tr.Symbol).Inc()
				log.Warn("marketdata: ws refresh failed", zap.Error(err), zap.String("symbol", tr.Symbol))
			}

		case <-t.C:
			started := time.Now()
			accounts, err := fetch.Fetch(ctx, keys)
			if err != nil {
				log.Warn("marketdata: account fetch failed", zap.Error(err))
				for _, tr := range tracked {
					imetrics.RefreshErrors.WithLabelValues(tr.Symbol).Inc()
				}
				continue
			}
			imetrics.RefreshLatency.Observe(time.Since(started).Seconds())

			for _, tr := range tracked {
				if err := tr.Amm.Update(accounts); err != nil {
					imetrics.RefreshErrors.WithLabelValues(tr.Symbol).Inc()
					log.Warn("marketdata: refresh failed", zap.Error(err), zap.String("symbol", tr.Symbol))
					continue
				}

				snap := buildSnapshot(cfg, tr)
				imetrics.BestBidPx.WithLabelValues(tr.Symbol).Set(snap.Top.BidPx)
				imetrics.BestAskPx.WithLabelValues(tr.Symbol).Set(snap.Top.AskPx)

				if pub != nil {
					if err := pub.PublishTopOfBook(ctx, tr.Symbol, snap.Top, snap.Ts.UnixMilli()); err != nil {
						log.Warn("marketdata: publish failed", zap.Error(err), zap.String("symbol", tr.Symbol))
					}
				}

				select {
				case out <- snap:
				default:
					log.Warn("marketdata: snapshot channel full; dropping", zap.String("symbol", tr.Symbol))
				}
			}
		}
	}
}

func buildSnapshot(cfg *config.Config, tr Tracked) Snapshot {
	snap := Snapshot{
		Symbol: tr.Symbol,
		Market: tr.Amm.Key(),
		Ts:     time.Now(),
	}

	ladder := tr.Market.Ladder()
	imetrics.LadderLevels.WithLabelValues(tr.Symbol, "bid").Set(float64(len(ladder.Bids)))
	imetrics.LadderLevels.WithLabelValues(tr.Symbol, "ask").Set(float64(len(ladder.Asks)))
	if best, ok := ladder.BestBid(); ok {
		snap.Top.BidPx = tr.Market.PriceToFloat(best.PriceInTicks)
		snap.Top.BidSz = tr.Market.SizeToFloat(best.SizeInBaseLots)
	}
	if best, ok := ladder.BestAsk(); ok {
		snap.Top.AskPx = tr.Market.PriceToFloat(best.PriceInTicks)
		snap.Top.AskSz = tr.Market.SizeToFloat(best.SizeInBaseLots)
	}

	base, quote := tr.Market.BaseMint(), tr.Market.QuoteMint()

	if q, err := tr.Amm.Quote(core.QuoteParams{
		InputMint: base, OutputMint: quote, InAmount: cfg.Probe.BaseAtoms,
	}); err == nil {
		snap.Sell = types.ProbeQuote{
			Direction: types.SellBase,
			InAmount:  cfg.Probe.BaseAtoms,
			OutAmount: q.OutAmount,
			FeeBps:    q.FeeBps,
			Ts:        snap.Ts,
		}
	} else {
		imetrics.QuoteErrors.WithLabelValues(tr.Symbol).Inc()
	}

	if q, err := tr.Amm.Quote(core.QuoteParams{
		InputMint: quote, OutputMint: base, InAmount: cfg.Probe.QuoteAtoms,
	}); err == nil {
		snap.Buy = types.ProbeQuote{
			Direction: types.BuyBase,
			InAmount:  cfg.Probe.QuoteAtoms,
			OutAmount: q.OutAmount,
			FeeBps:    q.FeeBps,
			Ts:        snap.Ts,
		}
	} else {
		imetrics.QuoteErrors.WithLabelValues(tr.Symbol).Inc()
	}

	return snap
}
