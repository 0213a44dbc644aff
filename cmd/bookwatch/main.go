package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/amm/core"
	"github.com/Ellipsis-Labs/jupiter-phoenix/internal/phoenix"
)

// bookwatch fetches one market account and prints the decoded ladder.
func main() {
	endpoint := flag.String("rpc", rpc.MainNetBeta_RPC, "rpc endpoint")
	market := flag.String("market", "", "market account (base58)")
	depth := flag.Int("depth", 10, "levels per side")
	flag.Parse()

	if *market == "" {
		fmt.Fprintln(os.Stderr, "usage: bookwatch -market <pubkey> [-rpc url] [-depth n]")
		os.Exit(2)
	}
	key, err := solana.PublicKeyFromBase58(*market)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad market address:", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := rpc.New(*endpoint)
	res, err := client.GetAccountInfo(ctx, key)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch market account:", err)
		os.Exit(1)
	}

	m, err := phoenix.NewMarket(
		core.KeyedAccount{Key: key, Data: res.Value.Data.GetBinary()},
		phoenix.WithLadderDepth(*depth),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decode market:", err)
		os.Exit(1)
	}

	ladder := m.Ladder()
	fmt.Printf("%s %s  base=%s quote=%s  taker_fee=%dbps\n\n",
		m.Label(), m.Key(), m.BaseMint(), m.QuoteMint(), m.TakerFeeBps())

	// Asks worst-first so the spread sits in the middle of the printout.
	for i := len(ladder.Asks) - 1; i >= 0; i-- {
		a := ladder.Asks[i]
		fmt.Printf("        %12.6f %14.6f\n", m.PriceToFloat(a.PriceInTicks), m.SizeToFloat(a.SizeInBaseLots))
	}
	fmt.Println("        ------------")
	for _, b := range ladder.Bids {
		fmt.Printf("%14.6f %12.6f\n", m.SizeToFloat(b.SizeInBaseLots), m.PriceToFloat(b.PriceInTicks))
	}
}
