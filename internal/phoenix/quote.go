package phoenix

import (
	"math/big"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
)

// Quote simulates a marketable order walking the current ladder. The mint
// pair selects the direction: base in means selling base against the bids,
// quote in means buying base off the asks. The walk consumes a touched level
// wholesale: once a level is hit its full advertised size (or cost) is
// deducted from the budget even if only part of it was filled. That slightly
// under-fills versus the on-chain matching engine, which is accepted.
//
// The taker fee is deducted from the output. The venue itself charges the
// fee against the input side, so the result is an approximation, not an
// exact replay of on-chain fee accounting.
func (m *Market) Quote(params core.QuoteParams) (core.Quote, error) {
	m.mu.RLock()
	ladder := m.ladder
	m.mu.RUnlock()

	var out *big.Int
	switch {
	case params.InputMint.Equals(m.baseMint) && params.OutputMint.Equals(m.quoteMint):
		out = m.sellBase(ladder.Bids, params.InAmount)
	case params.InputMint.Equals(m.quoteMint) && params.OutputMint.Equals(m.baseMint):
		out = m.buyBase(ladder.Asks, params.InAmount)
	default:
		return core.Quote{}, ErrInvalidMintPair
	}

	// out * (10000 - fee) / 10000, truncating.
	out.Mul(out, big.NewInt(maxFeeBps-int64(m.takerFeeBps)))
	out.Quo(out, big.NewInt(maxFeeBps))
	if !out.IsUint64() {
		return core.Quote{}, ErrArithmeticOverflow
	}
	return core.Quote{OutAmount: out.Uint64(), FeeBps: m.takerFeeBps}, nil
}

// sellBase walks the bids with a budget of whole base lots. Input atoms finer
// than one base lot are dust and never reach the output. Accumulates quote
// atoms.
func (m *Market) sellBase(bids []LadderLevel, inAmount uint64) *big.Int {
	out := new(big.Int)
	term := new(big.Int)

	budget := inAmount / m.baseLotSize
	for _, lvl := range bids {
		if budget == 0 {
			break
		}
		filled := min(lvl.SizeInBaseLots, budget)

		// price_in_ticks * filled * tick_size * quote_lot_size / base_lots_per_base_unit
		term.SetUint64(lvl.PriceInTicks)
		term.Mul(term, new(big.Int).SetUint64(filled))
		term.Mul(term, new(big.Int).SetUint64(m.tickSize))
		term.Mul(term, new(big.Int).SetUint64(m.quoteLotSize))
		term.Quo(term, new(big.Int).SetUint64(m.baseLotsPerBaseUnit))
		out.Add(out, term)

		// Wholesale consumption: the full advertised size comes off the
		// budget, not just the filled part.
		if lvl.SizeInBaseLots >= budget {
			budget = 0
		} else {
			budget -= lvl.SizeInBaseLots
		}
	}
	return out
}

// buyBase walks the asks with a budget of whole quote lots. Accumulates base
// atoms.
func (m *Market) buyBase(asks []LadderLevel, inAmount uint64) *big.Int {
	out := new(big.Int)

	lotsPerUnit := new(big.Int).SetUint64(m.baseLotsPerBaseUnit)
	tick := new(big.Int).SetUint64(m.tickSize)

	budget := new(big.Int).SetUint64(inAmount / m.quoteLotSize)
	for _, lvl := range asks {
		if budget.Sign() == 0 {
			break
		}
		if lvl.PriceInTicks == 0 {
			// A zero-price level costs nothing; take all of it.
			out.Add(out, new(big.Int).Mul(
				new(big.Int).SetUint64(lvl.SizeInBaseLots),
				new(big.Int).SetUint64(m.baseLotSize)))
			continue
		}
		price := new(big.Int).SetUint64(lvl.PriceInTicks)
		size := new(big.Int).SetUint64(lvl.SizeInBaseLots)

		// The level's full cost in quote lots.
		levelCost := new(big.Int).Mul(price, size)
		levelCost.Mul(levelCost, tick)
		levelCost.Quo(levelCost, lotsPerUnit)

		// Base lots affordable at this price from the remaining budget.
		affordable := new(big.Int).Mul(budget, lotsPerUnit)
		affordable.Quo(affordable, tick)
		affordable.Quo(affordable, price)

		filled := affordable
		if size.Cmp(affordable) < 0 {
			filled = size
		}
		out.Add(out, filled.Mul(filled, new(big.Int).SetUint64(m.baseLotSize)))

		// Wholesale consumption, saturating at zero.
		budget.Sub(budget, levelCost)
		if budget.Sign() < 0 {
			budget.SetUint64(0)
		}
	}
	return out
}
