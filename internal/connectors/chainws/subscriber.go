package chainws

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
)

// Subscriber streams account changes for a set of market accounts over the
// RPC websocket, as a push alternative to polling GetMultipleAccounts.
type Subscriber struct {
	url string
	log *zap.Logger
}

func NewSubscriber(url string, log *zap.Logger) *Subscriber {
	return &Subscriber{url: url, log: log}
}

// Run subscribes to every key and forwards fresh bytes until ctx is done.
// The connection is re-dialed with backoff on any failure.
func (s *Subscriber) Run(ctx context.Context, keys []solana.PublicKey, out chan<- core.KeyedAccount) {
	backoff := time.Second
	for ctx.Err() == nil {
		if err := s.runOnce(ctx, keys, out); err != nil && ctx.Err() == nil {
			s.log.Warn("account subscription dropped", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
	}
}

func (s *Subscriber) runOnce(ctx context.Context, keys []solana.PublicKey, out chan<- core.KeyedAccount) error {
	client, err := ws.Connect(ctx, s.url)
	if err != nil {
		return err
	}
	defer client.Close()

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(keys))
	for _, key := range keys {
		sub, err := client.AccountSubscribe(key, rpc.CommitmentConfirmed)
		if err != nil {
			return err
		}
		go func(key solana.PublicKey, sub *ws.AccountSubscription) {
			defer sub.Unsubscribe()
			for {
				got, err := sub.Recv(subCtx)
				if err != nil {
					errCh <- err
					return
				}
				if got == nil || got.Value.Data == nil {
					continue
				}
				acc := core.KeyedAccount{Key: key, Data: got.Value.Data.GetBinary()}
				select {
				case out <- acc:
				case <-subCtx.Done():
					return
				default:
					s.log.Warn("account channel full; dropping update", zap.Stringer("key", key))
				}
			}
		}(key, sub)
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
