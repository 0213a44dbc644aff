package phoenix

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// HeaderLen is the fixed byte length of MarketHeader on the wire.
const HeaderLen = 576

// MarketSizeParams is the size/configuration tag embedded in the header. It
// selects the body layout; see layout.go.
type MarketSizeParams struct {
	BidsSize uint64
	AsksSize uint64
	NumSeats uint64
}

// TokenParams describes one side's mint and vault.
type TokenParams struct {
	Decimals  uint32
	VaultBump uint32
	MintKey   solana.PublicKey
	VaultKey  solana.PublicKey
}

// MarketHeader is the fixed-length prefix of a market account. Field order
// and widths are the wire layout; do not reorder.
type MarketHeader struct {
	Discriminant                    [8]byte
	Status                          uint64
	MarketSizeParams                MarketSizeParams
	BaseParams                      TokenParams
	BaseLotSize                     uint64
	QuoteParams                     TokenParams
	QuoteLotSize                    uint64
	TickSizeInQuoteAtomsPerBaseUnit uint64
	Authority                       solana.PublicKey
	FeeRecipient                    solana.PublicKey
	MarketSequenceNumber            uint64
	Successor                       solana.PublicKey
	RawBaseUnitsPerBaseUnit         uint32
	Padding1                        uint32
	Padding2                        [32]uint64
}

func (h *MarketHeader) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	discriminant, err := decoder.ReadTypeID()
	if err != nil {
		return err
	}
	h.Discriminant = [8]byte(discriminant)

	for _, field := range []interface{}{
		&h.Status,
		&h.MarketSizeParams,
		&h.BaseParams,
		&h.BaseLotSize,
		&h.QuoteParams,
		&h.QuoteLotSize,
		&h.TickSizeInQuoteAtomsPerBaseUnit,
		&h.Authority,
		&h.FeeRecipient,
		&h.MarketSequenceNumber,
		&h.Successor,
		&h.RawBaseUnitsPerBaseUnit,
		&h.Padding1,
		&h.Padding2,
	} {
		if err := decoder.Decode(field); err != nil {
			return err
		}
	}
	return nil
}

// decodeHeader splits raw account bytes into a decoded header and the body
// that follows it.
func decodeHeader(data []byte) (*MarketHeader, []byte, error) {
	if len(data) < HeaderLen {
		return nil, nil, fmt.Errorf("%w: account is %d bytes, header needs %d", ErrHeaderDecode, len(data), HeaderLen)
	}
	var hdr MarketHeader
	if err := hdr.UnmarshalWithDecoder(bin.NewBorshDecoder(data[:HeaderLen])); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrHeaderDecode, err)
	}
	return &hdr, data[HeaderLen:], nil
}
