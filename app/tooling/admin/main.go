// This program performs administrative tasks against the chain held by
// a running node.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/utxolab/blockchain/app/tooling/admin/commands"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/genesis"
	"github.com/utxolab/blockchain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args        conf.Args
		NodeHost    string        `conf:"default:localhost:9080"`
		GenesisPath string        `conf:"default:zblock/genesis.toml"`
		Timeout     time.Duration `conf:"default:10s"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "admin commands: validate | bals [pubkeyhash] | trans [pubkeyhash]",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	gen, err := genesis.Load(cfg.GenesisPath)
	if err != nil {
		return err
	}

	chain, err := fetchChain(cfg.NodeHost, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("fetching chain: %w", err)
	}
	log.Infow("admin", "status", "chain fetched", "host", cfg.NodeHost, "blocks", chain.Length())

	return processCommands(cfg.Args, chain, gen.Difficulty)
}

// fetchChain pulls the full chain from the private api of a node.
func fetchChain(host string, timeout time.Duration) (database.Blockchain, error) {
	client := http.Client{
		Timeout: timeout,
	}

	resp, err := client.Get(fmt.Sprintf("http://%s/v1/node/blockchain", host))
	if err != nil {
		return database.Blockchain{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return database.Blockchain{}, fmt.Errorf("status[%d]", resp.StatusCode)
	}

	var chain database.Blockchain
	if err := json.NewDecoder(resp.Body).Decode(&chain); err != nil {
		return database.Blockchain{}, err
	}

	return chain, nil
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, chain database.Blockchain, difficulty int) error {
	switch args.Num(0) {
	case "validate":
		if err := commands.Validate(os.Stdout, chain, difficulty); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}
	case "bals":
		if err := commands.Balances(os.Stdout, chain, args.Num(1)); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}
	case "trans":
		if err := commands.Transactions(os.Stdout, chain, args.Num(1)); err != nil {
			return fmt.Errorf("getting transactions: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", args.Num(0))
	}

	return nil
}
