package types

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

type Direction string

const (
	SellBase Direction = "SELL_BASE" // base in, quote out, crosses bids
	BuyBase  Direction = "BUY_BASE"  // quote in, base out, crosses asks
)

// MarketMeta identifies one tracked market for downstream consumers.
type MarketMeta struct {
	Symbol    string
	Market    solana.PublicKey
	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey
}

// ProbeQuote is one simulated fill computed on refresh for a fixed probe
// amount.
type ProbeQuote struct {
	Direction Direction
	InAmount  uint64 // input atoms
	OutAmount uint64 // output atoms after taker fee
	FeeBps    uint16
	Ts        time.Time
}

// TopOfBook is the best level of each side in display units.
type TopOfBook struct {
	BidPx, BidSz float64
	AskPx, AskSz float64
}
