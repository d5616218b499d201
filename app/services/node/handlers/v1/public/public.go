// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Subscribe()
	defer h.Evts.Release(id)

	h.Log.Infow("events", "traceid", web.GetTraceID(ctx), "subscriber", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	tran := database.NewTx(h.NS.Resolve(ntx.Sender), h.NS.Resolve(ntx.Recipient), ntx.Amount)

	h.Log.Infow("submit tran", "traceid", web.GetTraceID(ctx), "sender", tran.Sender, "recipient", tran.Recipient, "amount", tran.Amount)
	if err := h.State.SubmitTransaction(tran); err != nil {
		return errs.FromBlockchain(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Vote casts votes for a delegate.
func (h Handlers) Vote(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nv NewVote
	if err := web.Decode(r, &nv); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(nv); err != nil {
		return err
	}

	h.Log.Infow("vote", "traceid", web.GetTraceID(ctx), "delegate", nv.DelegateID, "votes", nv.Votes)
	if err := h.State.Vote(nv.DelegateID, nv.Votes); err != nil {
		return errs.FromBlockchain(err)
	}

	return h.Delegates(ctx, w, r)
}

// SignalProduce signals to start a block production round.
func (h Handlers) SignalProduce(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker == nil {
		return errs.NewTrusted(errors.New("block production is not running"), http.StatusServiceUnavailable)
	}

	h.State.Worker.SignalStartProducing()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "production signalled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()

	trans := make([]tx, len(mempool))
	for i, tran := range mempool {
		trans[i] = toTx(h.NS, tran)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Accounts returns the current balances for all accounts or the
// specified account.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var bals []balance

	switch account := web.Param(r, "account"); account {
	case "":
		for account, bal := range h.State.RetrieveBalances() {
			bals = append(bals, balance{
				Account: account,
				Name:    h.NS.Lookup(account),
				Balance: bal,
			})
		}
		sort.Slice(bals, func(i, j int) bool {
			return bals[i].Account < bals[j].Account
		})

	default:
		account = h.NS.Resolve(account)
		bals = []balance{
			{
				Account: account,
				Name:    h.NS.Lookup(account),
				Balance: h.State.RetrieveBalance(account),
			},
		}
	}

	resp := balances{
		LatestBlock: h.State.RetrieveLatestBlock().Hash,
		Uncommitted: h.State.MempoolLength(),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByAccount returns all the blocks and their details. When an account
// is specified only blocks with a transaction for the account are returned.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")
	if account != "" {
		account = h.NS.Resolve(account)
	}

	dbBlocks, err := h.State.QueryBlocksByAccount(account)
	if err != nil {
		return err
	}

	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = toBlock(h.NS, blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Delegates returns the registered delegates and which of them take part in
// the current rotation.
func (h Handlers) Delegates(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	inTop := make(map[uint64]bool)
	for _, d := range h.State.RetrieveTopDelegates() {
		inTop[d.ID] = true
	}

	ds := h.State.RetrieveDelegates()
	list := make([]delegate, len(ds))
	for i, d := range ds {
		list[i] = delegate{
			ID:    d.ID,
			Name:  d.Name,
			Votes: d.Votes,
			InTop: inTop[d.ID],
		}
	}

	resp := delegates{
		Consensus: h.State.ConsensusName(),
		Delegates: list,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
