package phoenix

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
)

// unitMarket has conversion factors of 1 everywhere except the base lot, so
// quote-side arithmetic can be checked by hand.
func unitMarket() testMarket {
	tm := newTestMarket()
	tm.baseLotSize = 1_000_000
	tm.quoteLotSize = 1
	tm.baseLotsPerBaseUnit = 1
	tm.tickSizeAtoms = 1
	tm.takerFeeBps = 0
	return tm
}

func TestBuyBaseSingleAsk(t *testing.T) {
	tm := unitMarket()
	tm.asks = []LadderLevel{{PriceInTicks: 100, SizeInBaseLots: 5}}
	m := tm.build(t)

	// Spending the quote equivalent of two base lots (2 lots * 100 quote
	// atoms each) buys exactly two lots.
	q, err := m.Quote(core.QuoteParams{
		InputMint:  tm.quoteMint,
		OutputMint: tm.baseMint,
		InAmount:   200,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), q.OutAmount)

	// A budget that covers the whole level caps at the level size.
	q, err = m.Quote(core.QuoteParams{
		InputMint:  tm.quoteMint,
		OutputMint: tm.baseMint,
		InAmount:   2_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), q.OutAmount)
}

func TestSellBaseWalksBids(t *testing.T) {
	tm := unitMarket()
	tm.bids = []LadderLevel{
		{PriceInTicks: 100, SizeInBaseLots: 5},
		{PriceInTicks: 90, SizeInBaseLots: 10},
	}
	m := tm.build(t)

	// 8 lots: 5 fill at 100, remaining 3 at 90.
	q, err := m.Quote(core.QuoteParams{
		InputMint:  tm.baseMint,
		OutputMint: tm.quoteMint,
		InAmount:   8_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(100*5+90*3), q.OutAmount)
}

func TestSellBaseDropsSubLotDust(t *testing.T) {
	tm := unitMarket()
	tm.bids = []LadderLevel{{PriceInTicks: 100, SizeInBaseLots: 5}}
	m := tm.build(t)

	// 2.9 lots: dust beyond whole lots never reaches the output.
	q, err := m.Quote(core.QuoteParams{
		InputMint:  tm.baseMint,
		OutputMint: tm.quoteMint,
		InAmount:   2_900_000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(200), q.OutAmount)
}

func TestWholesaleLevelConsumption(t *testing.T) {
	tm := unitMarket()
	tm.asks = []LadderLevel{
		{PriceInTicks: 100, SizeInBaseLots: 5},
		{PriceInTicks: 110, SizeInBaseLots: 10},
	}
	m := tm.build(t)

	// Budget of 600 quote lots: 5 lots fill at 100 but the full level cost
	// (500) is deducted, leaving 100 — not enough for one lot at 110.
	q, err := m.Quote(core.QuoteParams{
		InputMint:  tm.quoteMint,
		OutputMint: tm.baseMint,
		InAmount:   600,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), q.OutAmount)
}

func TestQuoteZeroBudget(t *testing.T) {
	tm := unitMarket()
	tm.bids = []LadderLevel{{PriceInTicks: 100, SizeInBaseLots: 5}}
	tm.asks = []LadderLevel{{PriceInTicks: 101, SizeInBaseLots: 5}}
	m := tm.build(t)

	// Below one base lot.
	q, err := m.Quote(core.QuoteParams{
		InputMint:  tm.baseMint,
		OutputMint: tm.quoteMint,
		InAmount:   999_999,
	})
	require.NoError(t, err)
	assert.Zero(t, q.OutAmount)

	q, err = m.Quote(core.QuoteParams{
		InputMint:  tm.quoteMint,
		OutputMint: tm.baseMint,
		InAmount:   0,
	})
	require.NoError(t, err)
	assert.Zero(t, q.OutAmount)
}

func TestQuoteEmptySide(t *testing.T) {
	m := unitMarket().build(t)

	for _, dir := range []struct{ in, out solana.PublicKey }{
		{m.BaseMint(), m.QuoteMint()},
		{m.QuoteMint(), m.BaseMint()},
	} {
		q, err := m.Quote(core.QuoteParams{InputMint: dir.in, OutputMint: dir.out, InAmount: 10_000_000})
		require.NoError(t, err)
		assert.Zero(t, q.OutAmount)
	}
}

func TestQuoteInvalidMintPair(t *testing.T) {
	m := unitMarket().build(t)
	other := solana.MustPublicKeyFromBase58("11111111111111111111111111111111")

	for _, pair := range []struct{ in, out solana.PublicKey }{
		{other, m.QuoteMint()},
		{m.BaseMint(), other},
		{other, other},
		{m.BaseMint(), m.BaseMint()},
	} {
		_, err := m.Quote(core.QuoteParams{InputMint: pair.in, OutputMint: pair.out, InAmount: 1})
		assert.ErrorIs(t, err, ErrInvalidMintPair)
	}
}

func TestFeeAppliedToOutput(t *testing.T) {
	tm := unitMarket()
	tm.takerFeeBps = 25
	tm.bids = []LadderLevel{{PriceInTicks: 10_000, SizeInBaseLots: 100}}
	m := tm.build(t)

	q, err := m.Quote(core.QuoteParams{
		InputMint:  tm.baseMint,
		OutputMint: tm.quoteMint,
		InAmount:   100_000_000, // 100 lots
	})
	require.NoError(t, err)
	// 1_000_000 gross * 9975 / 10000
	assert.Equal(t, uint64(997_500), q.OutAmount)
	assert.Equal(t, uint16(25), q.FeeBps)
}

func TestFeeMonotonicity(t *testing.T) {
	prev := ^uint64(0)
	for _, fee := range []uint64{0, 1, 25, 100, 2_500, 9_999} {
		tm := unitMarket()
		tm.takerFeeBps = fee
		tm.bids = []LadderLevel{{PriceInTicks: 97, SizeInBaseLots: 11}}
		m := tm.build(t)

		q, err := m.Quote(core.QuoteParams{
			InputMint:  tm.baseMint,
			OutputMint: tm.quoteMint,
			InAmount:   7_000_000,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, q.OutAmount, prev, "fee %d bps", fee)
		prev = q.OutAmount
	}
}

// Quoting a sell's full output back as a buy must never come out above the
// original input: fees and lot rounding only ever lose value.
func TestRoundTripNeverCreatesValue(t *testing.T) {
	ladders := []struct {
		bids, asks []LadderLevel
	}{
		{
			bids: []LadderLevel{{100, 50}, {99, 80}, {95, 200}},
			asks: []LadderLevel{{101, 40}, {102, 90}, {110, 300}},
		},
		{
			bids: []LadderLevel{{3, 1}},
			asks: []LadderLevel{{4, 1}},
		},
		{
			bids: []LadderLevel{{1_000_000, 7}, {999_999, 7}},
			asks: []LadderLevel{{1_000_001, 7}, {1_000_002, 7}},
		},
	}
	for _, fee := range []uint64{0, 5, 100, 9_999} {
		for i, lad := range ladders {
			tm := unitMarket()
			tm.takerFeeBps = fee
			tm.bids = lad.bids
			tm.asks = lad.asks
			m := tm.build(t)

			in := uint64(60_000_000)
			sell, err := m.Quote(core.QuoteParams{
				InputMint: tm.baseMint, OutputMint: tm.quoteMint, InAmount: in,
			})
			require.NoError(t, err)

			back, err := m.Quote(core.QuoteParams{
				InputMint: tm.quoteMint, OutputMint: tm.baseMint, InAmount: sell.OutAmount,
			})
			require.NoError(t, err)
			assert.LessOrEqual(t, back.OutAmount, in, "ladder %d fee %d", i, fee)
		}
	}
}

func TestQuoteOverflowSurfaced(t *testing.T) {
	// Assembled directly: lot sizes this large cannot round-trip through a
	// valid account, but the arithmetic must still refuse to wrap.
	m := &Market{
		baseMint:            solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		quoteMint:           solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		baseLotSize:         1,
		quoteLotSize:        1 << 40,
		tickSize:            1 << 40,
		baseLotsPerBaseUnit: 1,
		ladder: Ladder{
			Bids: []LadderLevel{{PriceInTicks: 1 << 40, SizeInBaseLots: 1 << 40}},
		},
	}

	_, err := m.Quote(core.QuoteParams{
		InputMint:  m.baseMint,
		OutputMint: m.quoteMint,
		InAmount:   ^uint64(0),
	})
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestUsesConversionFactors(t *testing.T) {
	tm := newTestMarket() // baseLot=1000, quoteLot=1, tickAtoms=10, lotsPerUnit=1000
	tm.bids = []LadderLevel{{PriceInTicks: 2_000, SizeInBaseLots: 4_000}}
	m := tm.build(t)

	// Selling 3000 base lots: 2000 ticks * 3000 lots * tick(10) * quoteLot(1) / 1000.
	q, err := m.Quote(core.QuoteParams{
		InputMint:  tm.baseMint,
		OutputMint: tm.quoteMint,
		InAmount:   3_000 * tm.baseLotSize,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(60_000), q.OutAmount)
}
