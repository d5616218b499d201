package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestNameService(t *testing.T) {
	t.Log("Given the need to name accounts from key files.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a folder holds one key.", testID)
		{
			dir := t.TempDir()

			pk, err := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the key: %v", failed, testID, err)
			}
			if err := crypto.SaveECDSA(filepath.Join(dir, "node1.ecdsa"), pk); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to save the key: %v", failed, testID, err)
			}

			ns, err := nameservice.New(dir)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the name service: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to construct the name service.", success, testID)

			const account = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
			if name := ns.Lookup(account); name != "node1" {
				t.Fatalf("\t%s\tTest %d:\tShould name the account node1, got %s.", failed, testID, name)
			}
			if got := ns.Resolve("node1"); got != account {
				t.Fatalf("\t%s\tTest %d:\tShould resolve node1 to the account, got %s.", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould map between the name and the account.", success, testID)

			if ns.Lookup("alice") != "alice" || ns.Resolve("alice") != "alice" {
				t.Fatalf("\t%s\tTest %d:\tShould pass unknown values through.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould pass unknown values through.", success, testID)
		}
	}
}
