// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"net/http"

	v1 "github.com/emberchain/blockchain/business/web/v1"
	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/peer"
	"github.com/emberchain/blockchain/foundation/blockchain/state"
	"github.com/emberchain/blockchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// blockMessage is the envelope a peer sends with a new block. The host lets
// this node request the sender's chain when the block is rejected.
type blockMessage struct {
	Block database.Block `json:"block"`
	Host  string         `json:"host"`
}

// Status returns this node's view of its own chain.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Status(), http.StatusOK)
}

// Chain returns the full chain for replacement.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Chain(), http.StatusOK)
}

// Mempool returns the pending transactions for peer startup sync.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Mempool(), http.StatusOK)
}

// AcceptBlock processes a block mined by a peer. A rejection that may mean
// this node is behind triggers an asynchronous chain request back to the
// sender; that is the fork resolution path.
func (h Handlers) AcceptBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var msg blockMessage
	if err := web.Decode(r, &msg); err != nil {
		return err
	}

	if err := h.State.AcceptBlock(msg.Block); err != nil {
		if errors.Is(err, state.ErrBlockRejected) && msg.Host != "" {
			h.Log.Infow("accept block rejected, requesting sender chain", "traceid", v.TraceID, "peer", msg.Host)

			go func() {
				if err := h.State.RequestPeerChain(peer.New(msg.Host)); err != nil {
					h.Log.Infow("request peer chain", "peer", msg.Host, "outcome", err)
				}
			}()
		}

		return v1.NewRequestError(err, http.StatusNotAcceptable)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "accepted",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitPeerTransaction adds a transaction shared by a peer to the mempool.
func (h Handlers) SubmitPeerTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return err
	}

	if err := h.State.SubmitPeerTransaction(tx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AnnouncePeer records the calling node as a known peer and returns the
// current peer list so the caller can learn the rest of the network.
func (h Handlers) AnnouncePeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var pr peer.Peer
	if err := web.Decode(r, &pr); err != nil {
		return err
	}

	if h.State.AddKnownPeer(pr) {
		h.Log.Infow("announce peer", "traceid", web.GetTraceID(ctx), "peer", pr.Host)
	}

	return web.Respond(ctx, w, h.State.KnownPeers(), http.StatusOK)
}
