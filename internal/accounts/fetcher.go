package accounts

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Fetcher pulls fresh account bytes over JSON-RPC in one batch, in the shape
// Amm.Update consumes.
type Fetcher struct {
	rpc *rpc.Client
	log *zap.Logger
}

func NewFetcher(endpoint string, log *zap.Logger) *Fetcher {
	return &Fetcher{
		rpc: rpc.New(endpoint),
		log: log,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, keys []solana.PublicKey) (map[solana.PublicKey][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	res, err := f.rpc.GetMultipleAccounts(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("getMultipleAccounts: %w", err)
	}
	out := make(map[solana.PublicKey][]byte, len(keys))
	for i, acc := range res.Value {
		if acc == nil {
			f.log.Warn("account not found", zap.Stringer("key", keys[i]))
			continue
		}
		out[keys[i]] = acc.Data.GetBinary()
	}
	return out, nil
}
