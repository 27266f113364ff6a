package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/utxolab/blockchain/foundation/blockchain/database"
)

// Balances prints the balance of every pub key hash holding an output in
// the chain, or only the specified one.
func Balances(w io.Writer, chain database.Blockchain, onlyPubKeyHash string) error {
	owners := make(map[string]struct{})
	for _, block := range chain.Blocks {
		if block.Tx == nil {
			continue
		}
		for _, out := range block.Tx.Outputs {
			owners[out.PubKeyHash] = struct{}{}
		}
	}

	if onlyPubKeyHash != "" {
		owners = map[string]struct{}{onlyPubKeyHash: {}}
	}

	pubKeyHashes := make([]string, 0, len(owners))
	for pubKeyHash := range owners {
		pubKeyHashes = append(pubKeyHashes, pubKeyHash)
	}
	sort.Strings(pubKeyHashes)

	latest, _ := chain.LatestBlock()
	fmt.Fprintf(w, "LatestBlockHash: %s\n\n", latest.Hash)

	for _, pubKeyHash := range pubKeyHashes {
		fmt.Fprintf(w, "PubKeyHash: %s  Balance: %s  Unspent: %d\n",
			pubKeyHash, chain.Balance(pubKeyHash), len(chain.UnspentOutputs(pubKeyHash)))
	}

	return nil
}
