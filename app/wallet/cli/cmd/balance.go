package cmd

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
)

// walletInfo is the document the node returns for a pub key hash.
type walletInfo struct {
	PubKeyHash string                   `json:"pub_key_hash"`
	Name       string                   `json:"name"`
	Balance    decimal.Decimal          `json:"balance"`
	Unspent    []database.UnspentOutput `json:"unspent"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	_, pubKeyHash, err := loadKey()
	if err != nil {
		return err
	}

	var wal walletInfo
	if err := call(http.MethodGet, "/v1/wallet/"+pubKeyHash, nil, &wal); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "For:", pubKeyHash)
	fmt.Fprintln(cmd.OutOrStdout(), "Balance:", wal.Balance)
	fmt.Fprintln(cmd.OutOrStdout(), "Unspent outputs:", len(wal.Unspent))

	return nil
}
