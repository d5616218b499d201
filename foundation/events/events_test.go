package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestEvents(t *testing.T) {
	t.Log("Given the need to fan out events to subscribers.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen two subscribers are registered.", testID)
		{
			evts := events.New()

			id1, ch1 := evts.Subscribe()
			id2, ch2 := evts.Subscribe()
			if id1 == id2 {
				t.Fatalf("\t%s\tTest %d:\tShould get unique ids.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get unique ids.", success, testID)

			evts.Send("viewer: block")

			for _, ch := range []chan string{ch1, ch2} {
				if msg := <-ch; msg != "viewer: block" {
					t.Fatalf("\t%s\tTest %d:\tShould receive the event, got %q.", failed, testID, msg)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould deliver to every subscriber.", success, testID)

			if err := evts.Release(id1); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to release: %v", failed, testID, err)
			}
			if _, open := <-ch1; open {
				t.Fatalf("\t%s\tTest %d:\tShould close the released channel.", failed, testID)
			}
			if err := evts.Release(id1); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not release twice.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould release a subscriber once.", success, testID)

			for range 200 {
				evts.Send("flood")
			}
			t.Logf("\t%s\tTest %d:\tShould not block on a slow subscriber.", success, testID)

			evts.Shutdown()
			if evts.Count() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould remove every subscriber on shutdown.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould remove every subscriber on shutdown.", success, testID)
		}
	}
}
