// Package transport implements peer communication over the private node
// API: plain HTTP with JSON bodies. The core never assumes delivery; every
// call reports its error to the caller who logs and moves on.
package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/peer"
)

// baseURL is the private API mount point on every node.
const baseURL = "http://%s/v1/node"

// Client implements the transport required by the state package.
type Client struct {
	host   string
	client http.Client
}

// New constructs a transport client identifying itself as the specified
// host.
func New(host string) *Client {
	return &Client{
		host: host,
		client: http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// BlockMessage is the envelope for sharing a block. The host lets the
// receiver ask the sender for its chain when the block is rejected.
type BlockMessage struct {
	Block database.Block `json:"block"`
	Host  string         `json:"host"`
}

// SendBlock pushes a newly mined block to the specified peer.
func (c *Client) SendBlock(pr peer.Peer, block database.Block) error {
	url := fmt.Sprintf(baseURL+"/block/next", pr.Host)
	msg := BlockMessage{Block: block, Host: c.host}

	return c.send(http.MethodPost, url, msg, nil)
}

// SendTx pushes a pending transaction to the specified peer.
func (c *Client) SendTx(pr peer.Peer, tx database.Tx) error {
	url := fmt.Sprintf(baseURL+"/tx/submit", pr.Host)

	return c.send(http.MethodPost, url, tx, nil)
}

// RequestChain asks the specified peer for its full chain.
func (c *Client) RequestChain(pr peer.Peer) ([]database.Block, error) {
	url := fmt.Sprintf(baseURL+"/chain", pr.Host)

	var blocks []database.Block
	if err := c.send(http.MethodGet, url, nil, &blocks); err != nil {
		return nil, err
	}

	return blocks, nil
}

// RequestStatus asks the specified peer for its status.
func (c *Client) RequestStatus(pr peer.Peer) (peer.Status, error) {
	url := fmt.Sprintf(baseURL+"/status", pr.Host)

	var status peer.Status
	if err := c.send(http.MethodGet, url, nil, &status); err != nil {
		return peer.Status{}, err
	}

	return status, nil
}

// RequestMempool asks the specified peer for its pending transactions.
func (c *Client) RequestMempool(pr peer.Peer) ([]database.Tx, error) {
	url := fmt.Sprintf(baseURL+"/tx/list", pr.Host)

	var pool []database.Tx
	if err := c.send(http.MethodGet, url, nil, &pool); err != nil {
		return nil, err
	}

	return pool, nil
}

// send is a helper function to perform one HTTP exchange with a peer.
func (c *Client) send(method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader

	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return err
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return errors.New(string(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
