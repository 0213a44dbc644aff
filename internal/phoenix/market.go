package phoenix

import (
	"fmt"
	"math"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
)

// ProgramID is the Phoenix order-book program.
var ProgramID = solana.MustPublicKeyFromBase58("phnxNHfGNVjpVVuHkceK3MgwZ1bW25ijfWACKhVFbBH")

const maxFeeBps = 10_000

// Market is one Phoenix market: immutable metadata decoded once from the
// market account, plus the current ladder snapshot. The ladder is replaced
// wholesale on Update under the write lock, so concurrent quotes observe
// either the old or the new snapshot in full, never a torn one.
type Market struct {
	marketKey solana.PublicKey
	label     string
	programID solana.PublicKey

	baseMint  solana.PublicKey
	quoteMint solana.PublicKey

	baseDecimals  uint32
	quoteDecimals uint32

	baseLotSize         uint64
	quoteLotSize        uint64
	baseLotsPerBaseUnit uint64

	// quote lots per base unit per tick: the raw tick size divided by the
	// quote lot size. The division is exact; see NewMarket.
	tickSize uint64

	takerFeeBps uint16
	depth       int

	mu     sync.RWMutex
	ladder Ladder
}

// Option adjusts market construction.
type Option func(*Market)

// WithLadderDepth bounds the number of levels materialized per side.
func WithLadderDepth(depth int) Option {
	return func(m *Market) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

// NewMarket decodes a market account into metadata and an initial ladder.
// Construction is atomic: any decode or invariant failure returns an error
// and no partial market.
func NewMarket(acc core.KeyedAccount, opts ...Option) (*Market, error) {
	hdr, body, err := decodeHeader(acc.Data)
	if err != nil {
		return nil, err
	}
	book, err := loadWithDispatch(hdr.MarketSizeParams, body)
	if err != nil {
		return nil, err
	}

	if hdr.BaseLotSize == 0 || hdr.QuoteLotSize == 0 {
		return nil, fmt.Errorf("%w: zero lot size", ErrHeaderDecode)
	}
	if book.BaseLotsPerBaseUnit == 0 || hdr.TickSizeInQuoteAtomsPerBaseUnit == 0 {
		return nil, fmt.Errorf("%w: zero conversion factor", ErrHeaderDecode)
	}
	// The market's tick size is always a whole multiple of its quote lot
	// size; a remainder means the account is corrupted.
	if hdr.TickSizeInQuoteAtomsPerBaseUnit%hdr.QuoteLotSize != 0 {
		return nil, fmt.Errorf("%w: tick size %d not a multiple of quote lot size %d",
			ErrHeaderDecode, hdr.TickSizeInQuoteAtomsPerBaseUnit, hdr.QuoteLotSize)
	}
	if book.TakerFeeBps >= maxFeeBps {
		return nil, fmt.Errorf("%w: taker fee %d bps out of range", ErrHeaderDecode, book.TakerFeeBps)
	}

	m := &Market{
		marketKey:           acc.Key,
		label:               "Phoenix",
		programID:           ProgramID,
		baseMint:            hdr.BaseParams.MintKey,
		quoteMint:           hdr.QuoteParams.MintKey,
		baseDecimals:        hdr.BaseParams.Decimals,
		quoteDecimals:       hdr.QuoteParams.Decimals,
		baseLotSize:         hdr.BaseLotSize,
		quoteLotSize:        hdr.QuoteLotSize,
		baseLotsPerBaseUnit: book.BaseLotsPerBaseUnit,
		tickSize:            hdr.TickSizeInQuoteAtomsPerBaseUnit / hdr.QuoteLotSize,
		takerFeeBps:         uint16(book.TakerFeeBps),
		depth:               DefaultLadderDepth,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ladder = ladderFromBook(book, m.depth)
	return m, nil
}

func (m *Market) Label() string               { return m.label }
func (m *Market) Key() solana.PublicKey       { return m.marketKey }
func (m *Market) BaseMint() solana.PublicKey  { return m.baseMint }
func (m *Market) QuoteMint() solana.PublicKey { return m.quoteMint }
func (m *Market) BaseDecimals() uint32        { return m.baseDecimals }
func (m *Market) QuoteDecimals() uint32       { return m.quoteDecimals }
func (m *Market) TakerFeeBps() uint16         { return m.takerFeeBps }

func (m *Market) ReserveMints() []solana.PublicKey {
	return []solana.PublicKey{m.baseMint, m.quoteMint}
}

func (m *Market) AccountsToUpdate() []solana.PublicKey {
	return []solana.PublicKey{m.marketKey}
}

// Update re-decodes the market account and replaces the ladder. Metadata is
// immutable after construction; only the snapshot changes. On any error the
// prior ladder stays in place.
func (m *Market) Update(accounts map[solana.PublicKey][]byte) error {
	data, ok := accounts[m.marketKey]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAccount, m.marketKey)
	}
	hdr, body, err := decodeHeader(data)
	if err != nil {
		return err
	}
	book, err := loadWithDispatch(hdr.MarketSizeParams, body)
	if err != nil {
		return err
	}
	ladder := ladderFromBook(book, m.depth)

	m.mu.Lock()
	m.ladder = ladder
	m.mu.Unlock()
	return nil
}

// Ladder returns a copy of the current snapshot.
func (m *Market) Ladder() Ladder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ladder.Clone()
}

// Clone returns an independent market with its own copy of the ladder.
func (m *Market) Clone() *Market {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := &Market{
		marketKey:           m.marketKey,
		label:               m.label,
		programID:           m.programID,
		baseMint:            m.baseMint,
		quoteMint:           m.quoteMint,
		baseDecimals:        m.baseDecimals,
		quoteDecimals:       m.quoteDecimals,
		baseLotSize:         m.baseLotSize,
		quoteLotSize:        m.quoteLotSize,
		baseLotsPerBaseUnit: m.baseLotsPerBaseUnit,
		tickSize:            m.tickSize,
		takerFeeBps:         m.takerFeeBps,
		depth:               m.depth,
	}
	out.ladder = m.ladder.Clone()
	return out
}

// PriceToFloat converts a ladder price to quote units per base unit, for
// display only. Lot math never touches floats.
func (m *Market) PriceToFloat(priceInTicks uint64) float64 {
	atoms := float64(priceInTicks) * float64(m.tickSize) * float64(m.quoteLotSize)
	return atoms / math.Pow10(int(m.quoteDecimals))
}

// SizeToFloat converts a ladder size to base units, for display only.
func (m *Market) SizeToFloat(sizeInBaseLots uint64) float64 {
	atoms := float64(sizeInBaseLots) * float64(m.baseLotSize)
	return atoms / math.Pow10(int(m.baseDecimals))
}
