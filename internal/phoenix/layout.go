package phoenix

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// bodyPrefixLen is the fixed prefix before the level slots: taker fee,
// base lots per base unit, live bid count, live ask count.
const bodyPrefixLen = 32

// slotLen is one resting level on the wire: price in ticks, size in base lots.
const slotLen = 16

// bookLayout is one known market size variant. The slot capacities are fixed
// per variant, so the body length is too.
type bookLayout struct {
	bidsSize uint64
	asksSize uint64
}

func (l bookLayout) bodyLen() int {
	return bodyPrefixLen + int(l.bidsSize+l.asksSize)*slotLen
}

// knownLayouts is the exhaustive registry of deployed market size variants,
// keyed by the header's size params. Anything else is rejected.
var knownLayouts = map[MarketSizeParams]bookLayout{
	{BidsSize: 512, AsksSize: 512, NumSeats: 128}:    {bidsSize: 512, asksSize: 512},
	{BidsSize: 1024, AsksSize: 1024, NumSeats: 128}:  {bidsSize: 1024, asksSize: 1024},
	{BidsSize: 2048, AsksSize: 2048, NumSeats: 128}:  {bidsSize: 2048, asksSize: 2048},
	{BidsSize: 4096, AsksSize: 4096, NumSeats: 128}:  {bidsSize: 4096, asksSize: 4096},
	{BidsSize: 2048, AsksSize: 2048, NumSeats: 4096}: {bidsSize: 2048, asksSize: 2048},
	{BidsSize: 4096, AsksSize: 4096, NumSeats: 8192}: {bidsSize: 4096, asksSize: 4096},
}

// bookState is the decoded variable body of a market account: the per-market
// constants that live outside the header, plus the live levels of each side
// in best-first order.
type bookState struct {
	TakerFeeBps         uint64
	BaseLotsPerBaseUnit uint64
	Bids                []LadderLevel
	Asks                []LadderLevel
}

// loadWithDispatch selects the body layout for the header's size params and
// decodes the body through it.
func loadWithDispatch(params MarketSizeParams, body []byte) (*bookState, error) {
	layout, ok := knownLayouts[params]
	if !ok {
		return nil, fmt.Errorf("%w: size params bids=%d asks=%d seats=%d",
			ErrUnsupportedLayout, params.BidsSize, params.AsksSize, params.NumSeats)
	}
	return layout.decode(body)
}

func (l bookLayout) decode(body []byte) (*bookState, error) {
	if len(body) < l.bodyLen() {
		return nil, fmt.Errorf("%w: body is %d bytes, layout needs %d", ErrHeaderDecode, len(body), l.bodyLen())
	}

	dec := bin.NewBorshDecoder(body)
	var st bookState
	var numBids, numAsks uint64
	for _, field := range []*uint64{&st.TakerFeeBps, &st.BaseLotsPerBaseUnit, &numBids, &numAsks} {
		if err := dec.Decode(field); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHeaderDecode, err)
		}
	}
	if numBids > l.bidsSize || numAsks > l.asksSize {
		return nil, fmt.Errorf("%w: live levels (%d bids, %d asks) exceed capacity (%d, %d)",
			ErrHeaderDecode, numBids, numAsks, l.bidsSize, l.asksSize)
	}

	readSide := func(live, capacity uint64) ([]LadderLevel, error) {
		levels := make([]LadderLevel, 0, live)
		for i := uint64(0); i < capacity; i++ {
			var lvl LadderLevel
			if err := dec.Decode(&lvl.PriceInTicks); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrHeaderDecode, err)
			}
			if err := dec.Decode(&lvl.SizeInBaseLots); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrHeaderDecode, err)
			}
			if i < live {
				levels = append(levels, lvl)
			}
		}
		return levels, nil
	}

	var err error
	if st.Bids, err = readSide(numBids, l.bidsSize); err != nil {
		return nil, err
	}
	if st.Asks, err = readSide(numAsks, l.asksSize); err != nil {
		return nil, err
	}
	return &st, nil
}
