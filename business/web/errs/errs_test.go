package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/consensus/dpos"
	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestFromBlockchain(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
	}

	tt := []table{
		{name: "notfound", err: &dpos.DelegateNotFoundError{ID: 4}, status: http.StatusNotFound},
		{name: "funds", err: fmt.Errorf("apply: %w", ledger.ErrInsufficientFunds), status: http.StatusBadRequest},
		{name: "registry", err: state.ErrNoRegistry, status: http.StatusConflict},
		{name: "unknown", err: errors.New("disk on fire"), status: 0},
	}

	t.Log("Given the need to map blockchain errors to status codes.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling a %s error.", testID, tst.name)
				{
					err := errs.FromBlockchain(tst.err)

					if tst.status == 0 {
						if errs.IsTrusted(err) {
							t.Fatalf("\t%s\tTest %d:\tShould not trust an unexpected error.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould not trust an unexpected error.", success, testID)
						return
					}

					te := errs.GetTrusted(err)
					if te == nil || te.Status != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould get status %d: %v", failed, testID, tst.status, err)
					}
					if !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould keep the original error.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, tst.status)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
