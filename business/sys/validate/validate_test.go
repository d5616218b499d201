package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
)

type vote struct {
	ID    uint64 `json:"id" validate:"required"`
	Votes uint64 `json:"votes" validate:"required,gt=0"`
}

func TestCheck(t *testing.T) {
	if err := validate.Check(vote{ID: 1, Votes: 10}); err != nil {
		t.Fatalf("Should be able to validate a good value: %s", err)
	}

	err := validate.Check(vote{ID: 1})
	if err == nil {
		t.Fatal("Should get an error for a missing field.")
	}

	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should get back field errors: %T", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if _, exists := fields["votes"]; !exists {
		t.Logf("got: %v", fields)
		t.Fatal("Should use the json tag name for the failed field.")
	}
}
