package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the pub key hash to receive funds with",
	RunE:  addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) error {
	_, pubKeyHash, err := loadKey()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), pubKeyHash)
	return nil
}
