// Package genesis maintains access to the genesis file holding the
// parameters every node of a chain must agree on.
package genesis

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values used when no genesis file is provided or the file leaves
// a value out.
const (
	DefaultDifficulty     = 4
	DefaultMiningInterval = 6 * time.Second
)

// Genesis represents the genesis file.
type Genesis struct {
	Date           time.Time     `toml:"date"`
	ChainID        uint16        `toml:"chain_id"`        // The chain id represents an unique id for this running instance.
	Difficulty     int           `toml:"difficulty"`      // How difficult it needs to be to solve the work problem.
	MiningInterval time.Duration `toml:"mining_interval"` // How often the node tries to mine a pending transaction.
}

// Default returns the genesis values used when no file is provided.
func Default() Genesis {
	return Genesis{
		ChainID:        1,
		Difficulty:     DefaultDifficulty,
		MiningInterval: DefaultMiningInterval,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. An empty path returns the
// default values.
func Load(path string) (Genesis, error) {
	genesis := Default()
	if path == "" {
		return genesis, nil
	}

	metaData, err := toml.DecodeFile(path, &genesis)
	if err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		return Genesis{}, fmt.Errorf("undecoded genesis fields: %v", undecoded)
	}

	if genesis.Difficulty < 0 {
		return Genesis{}, fmt.Errorf("difficulty[%d] can't be negative", genesis.Difficulty)
	}

	if genesis.MiningInterval <= 0 {
		return Genesis{}, fmt.Errorf("mining_interval[%s] must be positive", genesis.MiningInterval)
	}

	return genesis, nil
}
