package core

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Factory builds an Amm from the raw market account of a venue program.
type Factory func(acc KeyedAccount) (Amm, error)

var registry = map[solana.PublicKey]Factory{}

func Register(programID solana.PublicKey, f Factory) { registry[programID] = f }

func Get(programID solana.PublicKey) Factory { return registry[programID] }

// New dispatches a keyed account to the factory registered for the owning
// program.
func New(programID solana.PublicKey, acc KeyedAccount) (Amm, error) {
	f := Get(programID)
	if f == nil {
		return nil, fmt.Errorf("no amm registered for program %s", programID)
	}
	return f(acc)
}
