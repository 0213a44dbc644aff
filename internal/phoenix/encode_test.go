package phoenix

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
)

// testMarket holds everything needed to assemble raw market account bytes.
// Defaults match a small, well-formed market; tests override what they probe.
type testMarket struct {
	sizeParams MarketSizeParams

	baseMint      solana.PublicKey
	quoteMint     solana.PublicKey
	baseDecimals  uint32
	quoteDecimals uint32

	baseLotSize   uint64
	quoteLotSize  uint64
	tickSizeAtoms uint64 // quote atoms per base unit per tick

	takerFeeBps         uint64
	baseLotsPerBaseUnit uint64

	bids []LadderLevel
	asks []LadderLevel
}

func newTestMarket() testMarket {
	return testMarket{
		sizeParams:          MarketSizeParams{BidsSize: 512, AsksSize: 512, NumSeats: 128},
		baseMint:            solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		quoteMint:           solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		baseDecimals:        9,
		quoteDecimals:       6,
		baseLotSize:         1_000,
		quoteLotSize:        1,
		tickSizeAtoms:       10,
		takerFeeBps:         0,
		baseLotsPerBaseUnit: 1_000,
		bids:                nil,
		asks:                nil,
	}
}

func (tm testMarket) encode(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := func(v interface{}) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	// Header, HeaderLen bytes.
	w([8]byte{1, 2, 3, 4, 5, 6, 7, 8}) // discriminant
	w(uint64(1))                       // status
	w(tm.sizeParams.BidsSize)
	w(tm.sizeParams.AsksSize)
	w(tm.sizeParams.NumSeats)
	w(tm.baseDecimals) // base TokenParams
	w(uint32(255))
	w(tm.baseMint)
	w(solana.PublicKey{}) // base vault
	w(tm.baseLotSize)
	w(tm.quoteDecimals) // quote TokenParams
	w(uint32(254))
	w(tm.quoteMint)
	w(solana.PublicKey{}) // quote vault
	w(tm.quoteLotSize)
	w(tm.tickSizeAtoms)
	w(solana.PublicKey{}) // authority
	w(solana.PublicKey{}) // fee recipient
	w(uint64(42))         // sequence number
	w(solana.PublicKey{}) // successor
	w(uint32(1))          // raw base units per base unit
	w(uint32(0))          // padding1
	w([32]uint64{})       // padding2
	if buf.Len() != HeaderLen {
		t.Fatalf("encoded header is %d bytes, want %d", buf.Len(), HeaderLen)
	}

	// Body: prefix then fixed-capacity slots per side.
	w(tm.takerFeeBps)
	w(tm.baseLotsPerBaseUnit)
	w(uint64(len(tm.bids)))
	w(uint64(len(tm.asks)))
	writeSide := func(levels []LadderLevel, capacity uint64) {
		for _, lvl := range levels {
			w(lvl.PriceInTicks)
			w(lvl.SizeInBaseLots)
		}
		for i := uint64(len(levels)); i < capacity; i++ {
			w(uint64(0))
			w(uint64(0))
		}
	}
	writeSide(tm.bids, tm.sizeParams.BidsSize)
	writeSide(tm.asks, tm.sizeParams.AsksSize)

	return buf.Bytes()
}

var testMarketKey = solana.MustPublicKeyFromBase58("5iLqmcg8vifdnnw6wEpVtQxFE4Few5uiceDWzi3jvzH8")

func (tm testMarket) keyedAccount(t *testing.T) core.KeyedAccount {
	t.Helper()
	return core.KeyedAccount{Key: testMarketKey, Data: tm.encode(t)}
}

// build encodes and constructs the market, failing the test on error.
func (tm testMarket) build(t *testing.T, opts ...Option) *Market {
	t.Helper()
	m, err := NewMarket(tm.keyedAccount(t), opts...)
	if err != nil {
		t.Fatalf("NewMarket: %v", err)
	}
	return m
}
