package dpos_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus/dpos"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newRegistry(t *testing.T, policy string, n int) *dpos.Registry {
	delegates := make([]dpos.Delegate, n)
	for i := range delegates {
		delegates[i] = dpos.NewDelegate(uint64(i+1), fmt.Sprintf("d%d", i+1))
	}

	reg, err := dpos.New(dpos.Config{Delegates: delegates, Policy: policy})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the registry: %v", failed, err)
	}

	return reg
}

func TestVote(t *testing.T) {
	t.Log("Given the need to vote for delegates.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen voting for a known delegate.", testID)
		{
			reg := newRegistry(t, dpos.PolicyRotating, 3)

			if err := reg.Vote(2, 15); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to vote: %v", failed, testID, err)
			}
			if err := reg.Vote(2, 5); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to vote: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to vote.", success, testID)

			for _, d := range reg.Delegates() {
				exp := uint64(0)
				if d.ID == 2 {
					exp = 20
				}
				if d.Votes != exp {
					t.Fatalf("\t%s\tTest %d:\tShould have %d votes for %d, got %d.", failed, testID, exp, d.ID, d.Votes)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould only change the target delegate.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen voting for an unknown delegate.", testID)
		{
			reg := newRegistry(t, dpos.PolicyRotating, 3)

			err := reg.Vote(99, 1)

			var dnf *dpos.DelegateNotFoundError
			if !errors.As(err, &dnf) || dnf.ID != 99 {
				t.Fatalf("\t%s\tTest %d:\tShould get delegate not found for 99: %v", failed, testID, err)
			}
			if !dpos.IsDelegateNotFound(err) {
				t.Fatalf("\t%s\tTest %d:\tShould be detected as delegate not found.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get delegate not found.", success, testID)

			for _, d := range reg.Delegates() {
				if d.Votes != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould leave the registry unchanged.", failed, testID)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould leave the registry unchanged.", success, testID)
		}
	}
}

func TestSelectRotating(t *testing.T) {
	t.Log("Given the need to rotate through the top delegates.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen three delegates hold different votes.", testID)
		{
			reg := newRegistry(t, dpos.PolicyRotating, 3)
			reg.Vote(1, 10)
			reg.Vote(2, 30)
			reg.Vote(3, 20)

			exp := []uint64{2, 3, 1, 2, 3, 1, 2}
			for i, id := range exp {
				d, err := reg.Select()
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to select: %v", failed, testID, err)
				}
				if d.ID != id {
					t.Fatalf("\t%s\tTest %d:\tShould select %d on call %d, got %d.", failed, testID, id, i, d.ID)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould cycle in vote order with a period of 3.", success, testID)

			if reg.Round() != uint64(len(exp)) {
				t.Fatalf("\t%s\tTest %d:\tShould advance the round on every selection, got %d.", failed, testID, reg.Round())
			}
			t.Logf("\t%s\tTest %d:\tShould advance the round on every selection.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen votes are tied.", testID)
		{
			reg := newRegistry(t, dpos.PolicyRotating, 3)

			for i, id := range []uint64{1, 2, 3, 1} {
				d, err := reg.Select()
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to select: %v", failed, testID, err)
				}
				if d.ID != id {
					t.Fatalf("\t%s\tTest %d:\tShould select %d on call %d, got %d.", failed, testID, id, i, d.ID)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould keep registration order for ties.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen more than ten delegates are registered.", testID)
		{
			reg := newRegistry(t, dpos.PolicyRotating, 12)
			for id := uint64(1); id <= 12; id++ {
				reg.Vote(id, id)
			}

			top := reg.Top()
			if len(top) != dpos.DefaultTopSize {
				t.Fatalf("\t%s\tTest %d:\tShould cap the top set at %d, got %d.", failed, testID, dpos.DefaultTopSize, len(top))
			}
			t.Logf("\t%s\tTest %d:\tShould cap the top set.", success, testID)

			seen := make(map[uint64]int)
			for range 2 * dpos.DefaultTopSize {
				d, err := reg.Select()
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to select: %v", failed, testID, err)
				}
				seen[d.ID]++
			}

			if seen[1] != 0 || seen[2] != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould never select delegates outside the top set.", failed, testID)
			}
			for id := uint64(3); id <= 12; id++ {
				if seen[id] != 2 {
					t.Fatalf("\t%s\tTest %d:\tShould select %d twice, got %d.", failed, testID, id, seen[id])
				}
			}
			t.Logf("\t%s\tTest %d:\tShould select each top delegate once per period.", success, testID)
		}
	}
}

func TestSelectMaxVotes(t *testing.T) {
	t.Log("Given the need to select the delegate with the most votes.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen two delegates tie for the most votes.", testID)
		{
			reg := newRegistry(t, dpos.PolicyMaxVotes, 3)
			reg.Vote(1, 5)
			reg.Vote(2, 9)
			reg.Vote(3, 9)

			for range 3 {
				d, err := reg.Select()
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to select: %v", failed, testID, err)
				}
				if d.ID != 2 {
					t.Fatalf("\t%s\tTest %d:\tShould select the first maximum, got %d.", failed, testID, d.ID)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould always select the first maximum.", success, testID)
		}
	}
}

func TestRegistryErrors(t *testing.T) {
	t.Log("Given the need to handle registry failures.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the registry is empty.", testID)
		{
			for _, policy := range []string{dpos.PolicyRotating, dpos.PolicyMaxVotes} {
				reg := newRegistry(t, policy, 0)

				if _, err := reg.Select(); !errors.Is(err, dpos.ErrNoDelegates) {
					t.Fatalf("\t%s\tTest %d:\tShould get no delegates for %s: %v", failed, testID, policy, err)
				}

				blk := database.NewBlock(1, nil, "abc")
				if err := reg.Seal(context.Background(), &blk); !errors.Is(err, dpos.ErrNoDelegates) {
					t.Fatalf("\t%s\tTest %d:\tShould not seal for %s: %v", failed, testID, policy, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould get no delegates.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen delegate ids repeat.", testID)
		{
			cfg := dpos.Config{
				Delegates: []dpos.Delegate{dpos.NewDelegate(1, "a"), dpos.NewDelegate(1, "b")},
			}
			if _, err := dpos.New(cfg); !errors.Is(err, dpos.ErrDuplicateDelegate) {
				t.Fatalf("\t%s\tTest %d:\tShould reject duplicate ids: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject duplicate ids.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the policy is unknown.", testID)
		{
			if _, err := dpos.New(dpos.Config{Policy: "lottery"}); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject the policy.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the policy.", success, testID)
		}
	}
}

func TestSealVerify(t *testing.T) {
	t.Log("Given the need to seal blocks with an elected delegate.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen sealing a block.", testID)
		{
			reg := newRegistry(t, dpos.PolicyRotating, 2)

			blk := database.NewBlock(1, nil, "abc")
			hash := blk.Hash
			if err := reg.Seal(context.Background(), &blk); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to seal: %v", failed, testID, err)
			}
			if blk.Producer != "d1" || blk.Hash != hash {
				t.Fatalf("\t%s\tTest %d:\tShould record the producer without changing the hash: %+v", failed, testID, blk)
			}
			t.Logf("\t%s\tTest %d:\tShould record the producer.", success, testID)

			if err := reg.Verify(blk); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould verify the sealed block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould verify the sealed block.", success, testID)

			blk.Producer = "mallory"
			if err := reg.Verify(blk); !errors.Is(err, dpos.ErrUnknownProducer) {
				t.Fatalf("\t%s\tTest %d:\tShould reject an unknown producer: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject an unknown producer.", success, testID)
		}
	}
}
