package phoenix

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
)

// SwapAccounts validates the mint pair, derives the program-owned vaults and
// log authority, and assembles the ordered account list for a swap
// instruction against this market. Pure address derivation plus list
// assembly; no state is read.
func (m *Market) SwapAccounts(params core.SwapParams) (core.SwapLegAndAccounts, error) {
	var (
		side         core.Side
		baseAccount  solana.PublicKey
		quoteAccount solana.PublicKey
	)
	switch {
	case params.SourceMint.Equals(m.baseMint):
		if !params.DestinationMint.Equals(m.quoteMint) {
			return core.SwapLegAndAccounts{}, fmt.Errorf("%w: destination %s is not the quote mint", ErrInvalidMintPair, params.DestinationMint)
		}
		side = core.SideAsk
		baseAccount = params.UserSourceTokenAccount
		quoteAccount = params.UserDestinationTokenAccount
	case params.SourceMint.Equals(m.quoteMint):
		if !params.DestinationMint.Equals(m.baseMint) {
			return core.SwapLegAndAccounts{}, fmt.Errorf("%w: destination %s is not the base mint", ErrInvalidMintPair, params.DestinationMint)
		}
		side = core.SideBid
		baseAccount = params.UserDestinationTokenAccount
		quoteAccount = params.UserSourceTokenAccount
	default:
		return core.SwapLegAndAccounts{}, fmt.Errorf("%w: source %s", ErrInvalidMintPair, params.SourceMint)
	}

	logAuthority, _, err := solana.FindProgramAddress([][]byte{[]byte("log")}, m.programID)
	if err != nil {
		return core.SwapLegAndAccounts{}, fmt.Errorf("derive log authority: %w", err)
	}
	baseVault, err := m.vaultAddress(m.baseMint)
	if err != nil {
		return core.SwapLegAndAccounts{}, err
	}
	quoteVault, err := m.vaultAddress(m.quoteMint)
	if err != nil {
		return core.SwapLegAndAccounts{}, err
	}

	// Order matters: this is the account list the program expects.
	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(m.marketKey, true, false),
		solana.NewAccountMeta(params.UserTransferAuthority, true, true),
		solana.NewAccountMeta(logAuthority, false, false),
		solana.NewAccountMeta(m.programID, false, false),
		solana.NewAccountMeta(baseAccount, true, false),
		solana.NewAccountMeta(quoteAccount, true, false),
		solana.NewAccountMeta(baseVault, true, false),
		solana.NewAccountMeta(quoteVault, true, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}

	return core.SwapLegAndAccounts{Side: side, Accounts: accounts}, nil
}

// vaultAddress derives the program vault for a mint, domain-separated by the
// fixed "vault" tag and the market key.
func (m *Market) vaultAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("vault"), m.marketKey.Bytes(), mint.Bytes()},
		m.programID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive vault for %s: %w", mint, err)
	}
	return addr, nil
}
