package mempool_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/utxolab/blockchain/foundation/blockchain/database"
	"github.com/utxolab/blockchain/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newTx(pubKeyHash string, amount int64) database.Tx {
	return database.NewTx(
		[]database.Input{{TransactionID: "prev", OutputIndex: 0}},
		[]database.Output{{Amount: decimal.NewFromInt(amount), PubKeyHash: pubKeyHash}},
	)
}

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				newTx("bill", 10),
				newTx("ale", 50),
				newTx("jill", 100),
				newTx("bill", 20),
			},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for _, tx := range tst.txs {
						if !mp.Add(tx) {
							t.Fatalf("\t%s\tTest %d:\tShould be able to add new transaction: %s", failed, testID, tx)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to add new transaction: %s", success, testID, tx)
					}

					if mp.Add(tst.txs[0]) {
						t.Fatalf("\t%s\tTest %d:\tShould not add a transaction twice.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not add a transaction twice.", success, testID)

					for i, tx := range mp.Copy() {
						if tx.ID != tst.txs[i].ID {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx.ID)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i].ID)
							t.Fatalf("\t%s\tTest %d:\tShould get back the insertion order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back the insertion order.", success, testID)

					first, ok := mp.PickFirst()
					if !ok || first.ID != tst.txs[0].ID {
						t.Fatalf("\t%s\tTest %d:\tShould pick the oldest transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould pick the oldest transaction.", success, testID)

					mp.Delete(first.ID)
					if mp.Count() != len(tst.txs)-1 || mp.Exists(first.ID) {
						t.Fatalf("\t%s\tTest %d:\tShould be able to remove a transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to remove a transaction.", success, testID)

					next, ok := mp.PickFirst()
					if !ok || next.ID != tst.txs[1].ID {
						t.Fatalf("\t%s\tTest %d:\tShould pick the next oldest transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould pick the next oldest transaction.", success, testID)

					mp.Truncate()
					if l := len(mp.Copy()); l != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)

					if _, ok := mp.PickFirst(); ok {
						t.Fatalf("\t%s\tTest %d:\tShould not pick from an empty mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not pick from an empty mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestConcurrentAdd(t *testing.T) {
	mp := mempool.New()

	const goroutines = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		i := i
		go func() {
			defer wg.Done()
			mp.Add(newTx(fmt.Sprintf("acct%d", i%10), 1))
		}()
	}
	wg.Wait()

	if mp.Count() != 10 {
		t.Fatalf("Should keep one transaction per unique id: %d", mp.Count())
	}
}
