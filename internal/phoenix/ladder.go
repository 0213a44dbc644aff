package phoenix

// LadderLevel is one resting price level: price in ticks, size in base lots.
type LadderLevel struct {
	PriceInTicks   uint64
	SizeInBaseLots uint64
}

// Ladder is a depth-bounded L2 view of the book. Bids are sorted by price
// descending (best first), asks ascending. Sizes are always positive: empty
// levels are not materialized.
type Ladder struct {
	Bids []LadderLevel
	Asks []LadderLevel
}

// DefaultLadderDepth bounds how many levels per side get materialized when
// the caller does not say otherwise.
const DefaultLadderDepth = 32

// ladderFromBook takes at most depth live levels per side, dropping
// zero-size slots. The book stores each side best-first already; extraction
// is a read-only traversal.
func ladderFromBook(book *bookState, depth int) Ladder {
	take := func(levels []LadderLevel) []LadderLevel {
		out := make([]LadderLevel, 0, min(depth, len(levels)))
		for _, lvl := range levels {
			if len(out) == depth {
				break
			}
			if lvl.SizeInBaseLots == 0 {
				continue
			}
			out = append(out, lvl)
		}
		return out
	}
	return Ladder{Bids: take(book.Bids), Asks: take(book.Asks)}
}

// Clone returns a deep copy sharing no backing storage.
func (l Ladder) Clone() Ladder {
	out := Ladder{
		Bids: make([]LadderLevel, len(l.Bids)),
		Asks: make([]LadderLevel, len(l.Asks)),
	}
	copy(out.Bids, l.Bids)
	copy(out.Asks, l.Asks)
	return out
}

// BestBid returns the top bid level, if any.
func (l Ladder) BestBid() (LadderLevel, bool) {
	if len(l.Bids) == 0 {
		return LadderLevel{}, false
	}
	return l.Bids[0], true
}

// BestAsk returns the top ask level, if any.
func (l Ladder) BestAsk() (LadderLevel, bool) {
	if len(l.Asks) == 0 {
		return LadderLevel{}, false
	}
	return l.Asks[0], true
}
