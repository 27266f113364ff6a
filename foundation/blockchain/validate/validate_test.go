package validate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/signature"
	"github.com/utxolab/blockchain/foundation/blockchain/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const difficulty = 1

// =============================================================================

func Test_GenesisIsValid(t *testing.T) {
	v := validate.New(validate.Config{Difficulty: difficulty})
	owner := newKeys(t)

	t.Log("Given the need to validate a freshly initialized chain.")
	{
		chain := database.Initialize(owner.pub)
		if err := v.ValidateChain(&chain); err != nil {
			t.Fatalf("\t%s\tShould be a valid chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould be a valid chain.", success)
	}
}

func Test_EmptyChain(t *testing.T) {
	v := validate.New(validate.Config{Difficulty: difficulty})

	if err := v.ValidateChain(nil); !errors.Is(err, validate.ErrEmptyChain) {
		t.Fatalf("Should reject a missing chain: %v", err)
	}

	if err := v.ValidateChain(&database.Blockchain{}); !errors.Is(err, validate.ErrEmptyChain) {
		t.Fatalf("Should reject a chain with no blocks: %v", err)
	}
}

func Test_ConcreteScenario(t *testing.T) {
	v := validate.New(validate.Config{Difficulty: difficulty})
	owner := newKeys(t)
	other := newKeys(t)

	t.Log("Given the need to spend the genesis output and then spend it again.")
	{
		chain := database.Initialize(owner.pub)
		genesis := chain.Blocks[0]

		tx1 := spend(t, owner, *genesis.Tx, 0, []database.Output{
			{Amount: decimal.NewFromInt(400000), PubKeyHash: owner.pkh},
			{Amount: decimal.NewFromInt(100000), PubKeyHash: other.pkh},
		})

		if err := v.ValidateUnconfirmedTx(tx1, chain); err != nil {
			t.Fatalf("\t%s\tShould accept the spend as unconfirmed: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept the spend as unconfirmed.", success)

		b1 := mine(t, genesis, tx1)
		chain.Blocks = append(chain.Blocks, b1)

		if err := v.ValidateChain(&chain); err != nil {
			t.Fatalf("\t%s\tShould have a valid two block chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould have a valid two block chain.", success)

		tx, found := chain.FindTransaction(genesis.Tx.ID)
		if !found || tx.ID != genesis.Tx.ID {
			t.Fatalf("\t%s\tShould find the genesis transaction.", failed)
		}
		t.Logf("\t%s\tShould find the genesis transaction.", success)

		tx2 := spend(t, owner, *genesis.Tx, 0, []database.Output{
			{Amount: decimal.NewFromInt(500000), PubKeyHash: other.pkh},
		})
		b2 := mine(t, b1, tx2)

		if err := v.ValidateBlock(&b2, chain); !errors.Is(err, validate.ErrOutputAlreadySpent) {
			t.Fatalf("\t%s\tShould reject the second spend of the genesis output: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject the second spend of the genesis output.", success)

		chain.Blocks = append(chain.Blocks, b2)
		err := v.ValidateChain(&chain)
		if !errors.Is(err, validate.ErrSomeBlockInvalid) || !errors.Is(err, validate.ErrOutputAlreadySpent) {
			t.Fatalf("\t%s\tShould reject a chain holding the second spend: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a chain holding the second spend.", success)
	}
}

func Test_DoubleSpend(t *testing.T) {
	v := validate.New(validate.Config{Difficulty: difficulty})
	owner := newKeys(t)
	alice := newKeys(t)
	bob := newKeys(t)
	carol := newKeys(t)

	t.Log("Given two transactions spending the same output.")
	{
		chain := database.Initialize(owner.pub)
		genesis := chain.Blocks[0]

		t1 := spend(t, owner, *genesis.Tx, 0, []database.Output{
			{Amount: decimal.NewFromInt(500000), PubKeyHash: alice.pkh},
		})
		b1 := mine(t, genesis, t1)
		chain.Blocks = append(chain.Blocks, b1)

		t2 := spend(t, alice, t1, 0, []database.Output{
			{Amount: decimal.NewFromInt(500000), PubKeyHash: bob.pkh},
		})
		t3 := spend(t, alice, t1, 0, []database.Output{
			{Amount: decimal.NewFromInt(500000), PubKeyHash: carol.pkh},
		})

		if err := v.ValidateUnconfirmedTx(t3, chain); err != nil {
			t.Fatalf("\t%s\tShould accept either spend before one is mined: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept either spend before one is mined.", success)

		b2 := mine(t, b1, t2)
		chain.Blocks = append(chain.Blocks, b2)

		if err := v.ValidateChain(&chain); err != nil {
			t.Fatalf("\t%s\tShould have a valid chain with the first spend: %v", failed, err)
		}
		t.Logf("\t%s\tShould have a valid chain with the first spend.", success)

		b3 := mine(t, b2, t3)
		if err := v.ValidateBlock(&b3, chain); !errors.Is(err, validate.ErrOutputAlreadySpent) {
			t.Fatalf("\t%s\tShould reject the block with the second spend: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject the block with the second spend.", success)

		if err := v.ValidateUnconfirmedTx(t3, chain); !errors.Is(err, validate.ErrOutputAlreadySpent) {
			t.Fatalf("\t%s\tShould reject the pending second spend: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject the pending second spend.", success)
	}
}

func Test_TxReasons(t *testing.T) {
	v := validate.New(validate.Config{Difficulty: difficulty})
	owner := newKeys(t)
	other := newKeys(t)

	chain := database.Initialize(owner.pub)
	genesisTx := *chain.Blocks[0].Tx
	genesisOut := genesisTx.Outputs[0]

	full := []database.Output{{Amount: decimal.NewFromInt(500000), PubKeyHash: other.pkh}}

	signedInput := func(index int, signer keys, fullPubKey string) database.Input {
		in := database.Input{
			TransactionID: genesisTx.ID,
			OutputIndex:   index,
			FullPubKey:    fullPubKey,
		}

		sig, err := signature.Sign(database.SpendMessage(genesisTx.ID, index, genesisOut.PubKeyHash), signer.priv)
		if err != nil {
			t.Fatalf("Should be able to sign the input: %v", err)
		}
		in.Signature = sig

		return in
	}

	badID := spend(t, owner, genesisTx, 0, full)
	badID.ID = signature.ZeroHash

	type table struct {
		name        string
		tx          database.Tx
		unconfirmed bool
		err         error
	}

	tt := []table{
		{
			name: "valid",
			tx:   spend(t, owner, genesisTx, 0, full),
		},
		{
			name:        "validunconfirmed",
			tx:          spend(t, owner, genesisTx, 0, full),
			unconfirmed: true,
		},
		{
			name:        "alreadyinchain",
			tx:          genesisTx,
			unconfirmed: true,
			err:         validate.ErrAlreadyInChain,
		},
		{
			name: "genesisasblocktx",
			tx:   genesisTx,
			err:  validate.ErrMissingInputs,
		},
		{
			name: "idmismatch",
			tx:   badID,
			err:  validate.ErrIDMismatch,
		},
		{
			name: "missinginputs",
			tx:   database.NewTx(nil, full),
			err:  validate.ErrMissingInputs,
		},
		{
			name: "missingoutputs",
			tx:   database.NewTx([]database.Input{signedInput(0, owner, owner.pub)}, nil),
			err:  validate.ErrMissingOutputs,
		},
		{
			name: "unresolvedinput",
			tx:   database.NewTx([]database.Input{{TransactionID: signature.ZeroHash, FullPubKey: owner.pub}}, full),
			err:  validate.ErrUnresolvedInput,
		},
		{
			name: "indextoohigh",
			tx:   database.NewTx([]database.Input{signedInput(1, owner, owner.pub)}, full),
			err:  validate.ErrOutputIndexOutOfRange,
		},
		{
			name: "indexnegative",
			tx:   database.NewTx([]database.Input{{TransactionID: genesisTx.ID, OutputIndex: -1, FullPubKey: owner.pub}}, full),
			err:  validate.ErrOutputIndexOutOfRange,
		},
		{
			name: "pubkeymismatch",
			tx:   database.NewTx([]database.Input{signedInput(0, other, other.pub)}, full),
			err:  validate.ErrPubKeyMismatch,
		},
		{
			name: "signedbyotherkey",
			tx:   database.NewTx([]database.Input{signedInput(0, other, owner.pub)}, full),
			err:  validate.ErrSignatureInvalid,
		},
		{
			name: "malformedsignature",
			tx:   database.NewTx([]database.Input{{TransactionID: genesisTx.ID, FullPubKey: owner.pub, Signature: "0x1234"}}, full),
			err:  validate.ErrSignatureInvalid,
		},
		{
			name: "duplicateinput",
			tx: database.NewTx(
				[]database.Input{signedInput(0, owner, owner.pub), signedInput(0, owner, owner.pub)},
				[]database.Output{{Amount: decimal.NewFromInt(1000000), PubKeyHash: other.pkh}},
			),
			err: validate.ErrOutputAlreadySpent,
		},
		{
			name: "duplicateinputunconfirmed",
			tx: database.NewTx(
				[]database.Input{signedInput(0, owner, owner.pub), signedInput(0, owner, owner.pub)},
				[]database.Output{{Amount: decimal.NewFromInt(1000000), PubKeyHash: other.pkh}},
			),
			unconfirmed: true,
			err:         validate.ErrOutputAlreadySpent,
		},
		{
			name: "negativeoutput",
			tx: spend(t, owner, genesisTx, 0, []database.Output{
				{Amount: decimal.NewFromInt(600000), PubKeyHash: owner.pkh},
				{Amount: decimal.NewFromInt(-100000), PubKeyHash: other.pkh},
			}),
			err: validate.ErrValueMismatch,
		},
		{
			name: "zerooutput",
			tx: spend(t, owner, genesisTx, 0, []database.Output{
				{Amount: decimal.NewFromInt(500000), PubKeyHash: owner.pkh},
				{Amount: decimal.Zero, PubKeyHash: other.pkh},
			}),
			err: validate.ErrValueMismatch,
		},
		{
			name: "valuetoolow",
			tx: spend(t, owner, genesisTx, 0, []database.Output{
				{Amount: decimal.RequireFromString("499999.99999999"), PubKeyHash: other.pkh},
			}),
			err: validate.ErrValueMismatch,
		},
		{
			name: "valuetoohigh",
			tx: spend(t, owner, genesisTx, 0, []database.Output{
				{Amount: decimal.NewFromInt(400000), PubKeyHash: owner.pkh},
				{Amount: decimal.RequireFromString("100000.00000001"), PubKeyHash: other.pkh},
			}),
			err: validate.ErrValueMismatch,
		},
	}

	t.Log("Given the need to reject transactions with a specific reason.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				var err error
				switch tst.unconfirmed {
				case true:
					err = v.ValidateUnconfirmedTx(tst.tx, chain)
				default:
					err = v.ValidateBlockTx(tst.tx, chain)
				}

				if tst.err == nil {
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould accept the transaction: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould accept the transaction.", success, testID)
					return
				}

				if !errors.Is(err, tst.err) {
					t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, err)
					t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.err)
					t.Fatalf("\t%s\tTest %d:\tShould reject the transaction with the expected reason.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould reject the transaction with the expected reason.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Header(t *testing.T) {
	owner := newKeys(t)
	other := newKeys(t)

	chain := database.Initialize(owner.pub)
	genesis := chain.Blocks[0]
	tx := spend(t, owner, *genesis.Tx, 0, []database.Output{
		{Amount: decimal.NewFromInt(500000), PubKeyHash: other.pkh},
	})

	v := validate.New(validate.Config{Difficulty: difficulty})
	block := mine(t, genesis, tx)

	t.Log("Given the need to validate the proof of work of a block.")
	{
		if err := v.ValidateHeader(block); err != nil {
			t.Fatalf("\t%s\tShould accept a block meeting the difficulty: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a block meeting the difficulty.", success)

		if err := v.ValidateBlock(&block, chain); err != nil {
			t.Fatalf("\t%s\tShould accept the block for the chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept the block for the chain.", success)

		harder := validate.New(validate.Config{Difficulty: difficulty + 1})
		if err := harder.ValidateHeader(block); !errors.Is(err, validate.ErrDifficultyInvalid) {
			t.Fatalf("\t%s\tShould reject a block mined at another difficulty: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a block mined at another difficulty.", success)

		if err := v.ValidateBlock(nil, chain); !errors.Is(err, validate.ErrBlockNull) {
			t.Fatalf("\t%s\tShould reject a missing block: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a missing block.", success)

		noTx := block
		noTx.Tx = nil
		if err := v.ValidateBlock(&noTx, chain); !errors.Is(err, validate.ErrTransactionNull) {
			t.Fatalf("\t%s\tShould reject a block without a transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a block without a transaction.", success)
	}

	t.Log("Given the need to detect a block that was tampered with.")
	{
		tamper := map[string]func(b *database.Block){
			"prevhash":  func(b *database.Block) { b.PrevBlockHash = signature.ZeroHash },
			"timestamp": func(b *database.Block) { b.TimeStamp++ },
			"nonce":     func(b *database.Block) { b.Nonce += "x" },
			"amount": func(b *database.Block) {
				tx := *b.Tx
				tx.Outputs = []database.Output{{Amount: decimal.NewFromInt(499999), PubKeyHash: other.pkh}}
				b.Tx = &tx
			},
			"owner": func(b *database.Block) {
				tx := *b.Tx
				tx.Outputs = []database.Output{{Amount: decimal.NewFromInt(500000), PubKeyHash: owner.pkh}}
				b.Tx = &tx
			},
		}

		for name, fn := range tamper {
			b := block
			fn(&b)

			if err := v.ValidateHeader(b); !errors.Is(err, validate.ErrHashInvalid) {
				t.Fatalf("\t%s\tShould detect the %s change: %v", failed, name, err)
			}
			t.Logf("\t%s\tShould detect the %s change.", success, name)
		}
	}

	t.Log("Given a block with a correct hash that misses the difficulty.")
	{
		const hard = 3
		v := validate.New(validate.Config{Difficulty: hard})

		b := database.Block{
			PrevBlockHash: genesis.Hash,
			Difficulty:    hard,
			Tx:            &tx,
		}
		for i := 0; ; i++ {
			b.Nonce = string(rune('a' + i%26))
			b.TimeStamp = int64(i)
			b.Hash = b.CalculateHash()
			if !database.IsHashSolved(hard, b.Hash) {
				break
			}
		}

		if err := v.ValidateHeader(b); !errors.Is(err, validate.ErrDifficultyNotMet) {
			t.Fatalf("\t%s\tShould reject the block: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject the block.", success)
	}
}

func Test_Linkage(t *testing.T) {
	v := validate.New(validate.Config{Difficulty: difficulty})
	owner := newKeys(t)
	other := newKeys(t)

	t.Log("Given two blocks built independently of each other.")
	{
		chain := database.Initialize(owner.pub)
		genesis := chain.Blocks[0]

		tx := spend(t, owner, *genesis.Tx, 0, []database.Output{
			{Amount: decimal.NewFromInt(500000), PubKeyHash: other.pkh},
		})

		unrelated := database.Block{Hash: signature.Hash("unrelated")}
		b1 := mine(t, unrelated, tx)
		chain.Blocks = append(chain.Blocks, b1)

		if err := v.ValidateBlock(&b1, chain); err != nil {
			t.Fatalf("\t%s\tShould have a block that is valid on its own: %v", failed, err)
		}
		t.Logf("\t%s\tShould have a block that is valid on its own.", success)

		err := v.ValidateChain(&chain)
		if !errors.Is(err, validate.ErrBrokenLinkage) {
			t.Fatalf("\t%s\tShould reject the chain as not linked: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject the chain as not linked.", success)

		if errors.Is(err, validate.ErrSomeBlockInvalid) {
			t.Fatalf("\t%s\tShould not blame an individual block.", failed)
		}
		t.Logf("\t%s\tShould not blame an individual block.", success)
	}
}

// =============================================================================

type keys struct {
	priv string
	pub  string
	pkh  string
}

func newKeys(t *testing.T) keys {
	t.Helper()

	priv, pub, err := signature.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Should be able to generate a key pair: %v", err)
	}

	return keys{
		priv: priv,
		pub:  pub,
		pkh:  signature.PubKeyHash(pub),
	}
}

// spend builds a transaction with a single input spending the specified
// output of prev, signed by owner.
func spend(t *testing.T, owner keys, prev database.Tx, index int, outputs []database.Output) database.Tx {
	t.Helper()

	in := database.Input{
		TransactionID: prev.ID,
		OutputIndex:   index,
		FullPubKey:    owner.pub,
	}

	sig, err := signature.Sign(in.SpendMessage(prev.Outputs[index]), owner.priv)
	if err != nil {
		t.Fatalf("Should be able to sign the input: %v", err)
	}
	in.Signature = sig

	return database.NewTx([]database.Input{in}, outputs)
}

func mine(t *testing.T, prev database.Block, tx database.Tx) database.Block {
	t.Helper()

	args := database.POWArgs{
		Miner:      "test",
		Difficulty: difficulty,
		PrevBlock:  prev,
		Tx:         tx,
	}

	block, err := database.POW(context.Background(), args)
	if err != nil {
		t.Fatalf("Should be able to mine a block: %v", err)
	}

	return block
}
