package main

import "github.com/utxolab/blockchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
