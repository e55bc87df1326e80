// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"time"

	v1 "github.com/emberchain/blockchain/business/web/v1"
	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/state"
	"github.com/emberchain/blockchain/foundation/events"
	"github.com/emberchain/blockchain/foundation/nameservice"
	"github.com/emberchain/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new wallet transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var signedTx submitTx
	if err := web.Decode(r, &signedTx); err != nil {
		return err
	}

	tx := database.Tx{
		FromID:    signedTx.From,
		ToID:      signedTx.To,
		Amount:    signedTx.Amount,
		TimeStamp: signedTx.TimeStamp,
		Signature: signedTx.Signature,
		ID:        signedTx.ID,
	}

	h.Log.Infow("add user tran", "traceid", v.TraceID, "tx", tx)
	if err := h.State.SubmitTransaction(tx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the fixed genesis block.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlockView(h.State.Genesis()), http.StatusOK)
}

// Chain returns the full chain in its canonical form.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Chain(), http.StatusOK)
}

// LatestBlock returns the tip of the chain with its computed hash.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlockView(h.State.LatestBlock()), http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Mempool(), http.StatusOK)
}

// Balances returns the replayed balances for all accounts or a single one.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	if account != "" {
		accountID := database.AccountID(account)
		bal := balance{
			Account: accountID,
			Name:    h.NS.Lookup(accountID),
			Balance: h.State.Balance(accountID),
		}
		return web.Respond(ctx, w, bal, http.StatusOK)
	}

	all := h.State.Balances()
	balances := make([]balance, 0, len(all))
	for accountID, amount := range all {
		balances = append(balances, balance{
			Account: accountID,
			Name:    h.NS.Lookup(accountID),
			Balance: amount,
		})
	}

	return web.Respond(ctx, w, balances, http.StatusOK)
}
