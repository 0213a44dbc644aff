package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/accounts"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/adapters"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/config"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/connectors/chainws"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/connectors/redisfeed"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/marketdata"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/metrics"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/phoenix"
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.DebugLevel),
		Development: false,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stack",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}

func main() {
	cfgPath := flag.String("config", "./config.yaml", "path to config")
	flag.Parse()

	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}
	if len(cfg.Markets) == 0 {
		logger.Fatal("no markets configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Warn("signal received, shutting down")
		cancel()
	}()
	metrics.Serve(ctx, cfg.Metrics.ListenAddr, nil, logger)

	fetcher := accounts.NewFetcher(cfg.RPC.HTTPURL, logger)

	// Bootstrap every configured market from its current account bytes.
	tracked := make([]marketdata.Tracked, 0, len(cfg.Markets))
	var marketKeys []solana.PublicKey
	for _, mc := range cfg.Markets {
		key, err := solana.PublicKeyFromBase58(mc.Address)
		if err != nil {
			logger.Fatal("bad market address", zap.Error(err), zap.String("symbol", mc.Symbol))
		}
		fetchCtx, fetchCancel := context.WithTimeout(ctx, cfg.RPCTimeout())
		data, err := fetcher.Fetch(fetchCtx, []solana.PublicKey{key})
		fetchCancel()
		if err != nil {
			logger.Fatal("market account fetch failed", zap.Error(err), zap.String("symbol", mc.Symbol))
		}
		m, err := phoenix.NewMarket(
			core.KeyedAccount{Key: key, Data: data[key]},
			phoenix.WithLadderDepth(cfg.Ladder.Depth),
		)
		if err != nil {
			logger.Fatal("market decode failed", zap.Error(err), zap.String("symbol", mc.Symbol))
		}
		tracked = append(tracked, marketdata.Tracked{
			Symbol: mc.Symbol,
			Amm:    adapters.NewPhoenixAmm(m),
			Market: m,
		})
		marketKeys = append(marketKeys, key)
		logger.Info("market loaded",
			zap.String("symbol", mc.Symbol),
			zap.Stringer("market", key),
			zap.Uint16("taker_fee_bps", m.TakerFeeBps()),
		)
	}

	var pub *redisfeed.Publisher
	if cfg.Redis.Addr != "" {
		pub = redisfeed.NewPublisher(cfg)
		defer pub.Close()
	}

	var push chan core.KeyedAccount
	if cfg.RPC.WSURL != "" {
		push = make(chan core.KeyedAccount, 256)
		sub := chainws.NewSubscriber(cfg.RPC.WSURL, logger)
		go sub.Run(ctx, marketKeys, push)
	}

	snapCh := make(chan marketdata.Snapshot, 1024)
	if pub != nil {
		go marketdata.Run(ctx, cfg, tracked, fetcher, pub, push, snapCh, logger)
	} else {
		go marketdata.Run(ctx, cfg, tracked, fetcher, nil, push, snapCh, logger)
	}

	if cfg.DryRun {
		logger.Warn("DRY-RUN: quotes are logged, nothing is routed")
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-snapCh:
				logger.Info("snapshot",
					zap.String("symbol", snap.Symbol),
					zap.Float64("bid_px", snap.Top.BidPx),
					zap.Float64("ask_px", snap.Top.AskPx),
					zap.Uint64("sell_in", snap.Sell.InAmount),
					zap.Uint64("sell_out", snap.Sell.OutAmount),
					zap.Uint64("buy_in", snap.Buy.InAmount),
					zap.Uint64("buy_out", snap.Buy.OutAmount),
					zap.Time("ts", snap.Ts),
				)
			}
		}
	}()

	logger.Info("quoter started",
		zap.Int("markets", len(tracked)),
		zap.Bool("dry_run", cfg.DryRun),
	)

	for ctx.Err() == nil {
		time.Sleep(250 * time.Millisecond)
	}
}
