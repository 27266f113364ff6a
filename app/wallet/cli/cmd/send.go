package cmd

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/wallet"
)

var (
	to     string
	amount string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send funds to a pub key hash",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Pub key hash to send funds to.")
	sendCmd.Flags().StringVarP(&amount, "amount", "v", "", "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("parsing amount: %w", err)
	}

	privateKey, pubKeyHash, err := loadKey()
	if err != nil {
		return err
	}

	// The node knows which outputs are unspent. The transaction is built
	// and signed here so the key never leaves this machine.
	var wal walletInfo
	if err := call(http.MethodGet, "/v1/wallet/"+pubKeyHash, nil, &wal); err != nil {
		return err
	}

	// Outputs a pending transaction already spends can't be used again
	// until that transaction is mined.
	var pending []database.Tx
	if err := call(http.MethodGet, "/v1/tx/uncommitted/list", nil, &pending); err != nil {
		return err
	}

	tx, err := wallet.Build(privateKey, unspent(wal.Unspent, pending), to, value)
	if err != nil {
		return err
	}

	var resp struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}
	if err := call(http.MethodPost, "/v1/tx/submit", tx, &resp); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Status, resp.ID)
	return nil
}

// unspent returns the outputs none of the pending transactions spend.
func unspent(utxos []database.UnspentOutput, pending []database.Tx) []database.UnspentOutput {
	var free []database.UnspentOutput
	for _, utxo := range utxos {
		var spent bool
		for _, tx := range pending {
			if tx.Spends(utxo.TransactionID, utxo.OutputIndex) {
				spent = true
				break
			}
		}

		if !spent {
			free = append(free, utxo)
		}
	}

	return free
}
