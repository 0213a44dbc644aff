package adapters

import (
	"github.com/gagliardetto/solana-go"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/phoenix"
)

// PhoenixAmm adapts a phoenix.Market to the core.Amm contract. Thin
// forwarding only; failures are the market's failures.
type PhoenixAmm struct {
	m *phoenix.Market
}

func NewPhoenixAmm(m *phoenix.Market) core.Amm { return PhoenixAmm{m: m} }

// NewPhoenixFromKeyedAccount is the core.Factory for the Phoenix program.
func NewPhoenixFromKeyedAccount(acc core.KeyedAccount) (core.Amm, error) {
	m, err := phoenix.NewMarket(acc)
	if err != nil {
		return nil, err
	}
	return PhoenixAmm{m: m}, nil
}

func (a PhoenixAmm) Label() string                        { return a.m.Label() }
func (a PhoenixAmm) Key() solana.PublicKey                { return a.m.Key() }
func (a PhoenixAmm) ReserveMints() []solana.PublicKey     { return a.m.ReserveMints() }
func (a PhoenixAmm) AccountsToUpdate() []solana.PublicKey { return a.m.AccountsToUpdate() }

func (a PhoenixAmm) Update(accounts map[solana.PublicKey][]byte) error {
	return a.m.Update(accounts)
}

func (a PhoenixAmm) Quote(params core.QuoteParams) (core.Quote, error) {
	return a.m.Quote(params)
}

func (a PhoenixAmm) SwapAccounts(params core.SwapParams) (core.SwapLegAndAccounts, error) {
	return a.m.SwapAccounts(params)
}

func (a PhoenixAmm) Clone() core.Amm { return PhoenixAmm{m: a.m.Clone()} }

// Market exposes the underlying market for display helpers.
func (a PhoenixAmm) Market() *phoenix.Market { return a.m }

func init() {
	core.Register(phoenix.ProgramID, NewPhoenixFromKeyedAccount)
}
