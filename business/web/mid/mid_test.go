package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestErrors(t *testing.T) {
	log := zap.NewNop().Sugar()

	app := web.NewApp(make(chan os.Signal, 1), mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Panics())

	app.Handle(http.MethodGet, "v1", "/trusted", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errs.NewTrusted(errors.New("bad input"), http.StatusBadRequest)
	})
	app.Handle(http.MethodGet, "v1", "/internal", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("secret detail")
	})
	app.Handle(http.MethodGet, "v1", "/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})

	type table struct {
		name   string
		path   string
		status int
		msg    string
	}

	tt := []table{
		{name: "trusted", path: "/v1/trusted", status: http.StatusBadRequest, msg: "bad input"},
		{name: "internal", path: "/v1/internal", status: http.StatusInternalServerError, msg: http.StatusText(http.StatusInternalServerError)},
		{name: "panic", path: "/v1/panic", status: http.StatusInternalServerError, msg: http.StatusText(http.StatusInternalServerError)},
	}

	t.Log("Given the need to respond to handler errors uniformly.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen the handler returns a %s error.", testID, tst.name)
				{
					r := httptest.NewRequest(http.MethodGet, tst.path, nil)
					w := httptest.NewRecorder()
					app.ServeHTTP(w, r)

					if w.Code != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould get status %d, got %d.", failed, testID, tst.status, w.Code)
					}
					t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, tst.status)

					var resp errs.Response
					if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to decode the response: %v", failed, testID, err)
					}
					if resp.Error != tst.msg {
						t.Fatalf("\t%s\tTest %d:\tShould get %q, got %q.", failed, testID, tst.msg, resp.Error)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected message.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
