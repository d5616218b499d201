package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const doc = `{
	"date": "2026-01-01T00:00:00Z",
	"consensus": "dpos",
	"difficulty": 2,
	"trans_per_block": 10,
	"policy": "rotating",
	"top_size": 3,
	"balances": {
		"alice": "100",
		"bob": "0.25"
	},
	"delegates": [
		{"id": 1, "name": "d1", "votes": 30},
		{"id": 2, "name": "d2"}
	]
}`

func TestLoad(t *testing.T) {
	t.Log("Given the need to load a genesis file.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen reading a complete file.", testID)
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
			}

			gen, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

			if gen.Consensus != "dpos" || gen.Difficulty != 2 || gen.TransPerBlock != 10 || gen.TopSize != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould decode the settings: %+v", failed, testID, gen)
			}
			t.Logf("\t%s\tTest %d:\tShould decode the settings.", success, testID)

			if gen.Balances["bob"].String() != "0.25" {
				t.Fatalf("\t%s\tTest %d:\tShould decode decimal balances, got %s.", failed, testID, gen.Balances["bob"])
			}
			t.Logf("\t%s\tTest %d:\tShould decode decimal balances.", success, testID)

			if len(gen.Delegates) != 2 || gen.Delegates[0].Votes != 30 || gen.Delegates[1].Votes != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould decode the delegates: %+v", failed, testID, gen.Delegates)
			}
			t.Logf("\t%s\tTest %d:\tShould decode the delegates.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the file does not exist.", testID)
		{
			if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould get an error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get an error.", success, testID)
		}
	}
}
