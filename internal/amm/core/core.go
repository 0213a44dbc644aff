package core

import (
	"github.com/gagliardetto/solana-go"
)

// Side of the book a taker order hits.
type Side uint8

const (
	SideBid Side = iota // taker buys base, crosses asks
	SideAsk             // taker sells base, crosses bids
)

func (s Side) String() string {
	if s == SideBid {
		return "bid"
	}
	return "ask"
}

// KeyedAccount is a raw on-chain account paired with its address.
type KeyedAccount struct {
	Key  solana.PublicKey
	Data []byte
}

// QuoteParams describes a single exact-in quote request. The mint pair
// determines the trade direction.
type QuoteParams struct {
	InputMint  solana.PublicKey
	OutputMint solana.PublicKey
	InAmount   uint64 // input atoms
}

// Quote is the simulated result of filling QuoteParams against a snapshot.
type Quote struct {
	OutAmount uint64 // output atoms, after taker fee
	FeeBps    uint16
}

// SwapParams carries the user-side accounts needed to build a swap leg.
type SwapParams struct {
	SourceMint                  solana.PublicKey
	DestinationMint             solana.PublicKey
	UserSourceTokenAccount      solana.PublicKey
	UserDestinationTokenAccount solana.PublicKey
	UserTransferAuthority       solana.PublicKey
}

// SwapLegAndAccounts is the instruction-level output for one routing leg:
// which side of the book the taker crosses and the ordered account list the
// venue program expects.
type SwapLegAndAccounts struct {
	Side     Side
	Accounts []*solana.AccountMeta
}

// Amm is the contract the routing layer consumes. One value represents one
// market; Update must be called with fresh bytes for every key returned by
// AccountsToUpdate before Quote is trusted.
type Amm interface {
	Label() string
	Key() solana.PublicKey
	ReserveMints() []solana.PublicKey
	AccountsToUpdate() []solana.PublicKey
	Update(accounts map[solana.PublicKey][]byte) error
	Quote(params QuoteParams) (Quote, error)
	SwapAccounts(params SwapParams) (SwapLegAndAccounts, error)
	// Clone returns an independent deep copy, safe for a different routing
	// path without aliasing the snapshot.
	Clone() Amm
}
