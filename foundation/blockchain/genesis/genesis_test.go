package genesis_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/utxolab/blockchain/foundation/blockchain/genesis"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "genesis.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Should be able to write the genesis file: %v", err)
	}

	return path
}

func Test_Load(t *testing.T) {
	type table struct {
		name    string
		content string
		exp     genesis.Genesis
		fail    bool
	}

	tt := []table{
		{
			name:    "overrides",
			content: "chain_id = 7\ndifficulty = 2\nmining_interval = \"2s\"\n",
			exp:     genesis.Genesis{ChainID: 7, Difficulty: 2, MiningInterval: 2 * time.Second},
		},
		{
			name:    "defaults",
			content: "chain_id = 3\n",
			exp:     genesis.Genesis{ChainID: 3, Difficulty: genesis.DefaultDifficulty, MiningInterval: genesis.DefaultMiningInterval},
		},
		{
			name:    "unknown",
			content: "balances = 10\n",
			fail:    true,
		},
		{
			name:    "negative",
			content: "difficulty = -1\n",
			fail:    true,
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			g, err := genesis.Load(writeFile(t, tst.content))
			if tst.fail {
				if err == nil {
					t.Fatalf("Test %s:\tShould fail to load the file.", tst.name)
				}
				return
			}

			if err != nil {
				t.Fatalf("Test %s:\tShould be able to load the file: %v", tst.name, err)
			}

			if g != tst.exp {
				t.Logf("Test %s:\tgot: %+v", tst.name, g)
				t.Logf("Test %s:\texp: %+v", tst.name, tst.exp)
				t.Fatalf("Test %s:\tShould get back the right values.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_LoadDefault(t *testing.T) {
	g, err := genesis.Load("")
	if err != nil {
		t.Fatalf("Should be able to load the defaults: %v", err)
	}

	if g != genesis.Default() {
		t.Fatalf("Should get back the default values: %+v", g)
	}

	if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("Should fail to load a missing file.")
	}
}
