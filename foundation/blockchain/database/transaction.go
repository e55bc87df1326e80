// Package database defines the data model for the blockchain: transactions,
// blocks and the fixed genesis block. Values are immutable once constructed
// and every hash is recomputed from content, never stored.
package database

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/emberchain/blockchain/foundation/blockchain/signature"
)

// AccountID represents an address: the hex encoding of an SPKI public key,
// or the coinbase sentinel.
type AccountID string

// CoinbaseAccount is the sentinel from address used by coinbase transactions.
const CoinbaseAccount AccountID = "system"

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	FromID    AccountID `json:"from"`
	ToID      AccountID `json:"to"`
	Amount    int64     `json:"amount"`
	TimeStamp int64     `json:"timestamp"`
	Signature string    `json:"signature,omitempty"`
	ID        string    `json:"id"`
}

// NewTx constructs an unsigned transaction stamped with the current time.
// The id is derived from the unsigned content and the caller is expected to
// sign before submission.
func NewTx(fromID AccountID, toID AccountID, amount int64) (Tx, error) {
	if amount <= 0 {
		return Tx{}, fmt.Errorf("amount must be greater than zero, got %d", amount)
	}

	tx := Tx{
		FromID:    fromID,
		ToID:      toID,
		Amount:    amount,
		TimeStamp: time.Now().UTC().Unix(),
	}
	tx.ID = tx.ContentID()

	return tx, nil
}

// NewCoinbaseTx constructs the reward transaction that opens a block.
func NewCoinbaseTx(beneficiaryID AccountID, amount int64) Tx {
	tx := Tx{
		FromID:    CoinbaseAccount,
		ToID:      beneficiaryID,
		Amount:    amount,
		TimeStamp: time.Now().UTC().Unix(),
	}
	tx.ID = tx.ContentID()

	return tx
}

// Sign signs the unsigned content with the private key and returns the
// signed copy. The from address must match the signing key.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (Tx, error) {
	address, err := signature.PublicKeyHex(&privateKey.PublicKey)
	if err != nil {
		return Tx{}, err
	}

	if tx.FromID != AccountID(address) {
		return Tx{}, fmt.Errorf("from address does not match the signing key")
	}

	sig, err := signature.Sign(privateKey, tx.Content())
	if err != nil {
		return Tx{}, err
	}

	tx.Signature = hex.EncodeToString(sig)
	tx.ID = tx.ContentID()

	return tx, nil
}

// Content returns the unsigned content bytes the id and signature are
// computed over: from, to, amount and timestamp concatenated in order.
func (tx Tx) Content() []byte {
	buf := make([]byte, 0, len(tx.FromID)+len(tx.ToID)+32)
	buf = append(buf, tx.FromID...)
	buf = append(buf, tx.ToID...)
	buf = strconv.AppendInt(buf, tx.Amount, 10)
	buf = strconv.AppendInt(buf, tx.TimeStamp, 10)

	return buf
}

// ContentID returns the id derived from the unsigned content.
func (tx Tx) ContentID() string {
	return signature.HashHex(tx.Content())
}

// IsCoinbase reports whether the transaction issues a block reward.
func (tx Tx) IsCoinbase() bool {
	return tx.FromID == CoinbaseAccount
}

// ValidateSignature reports whether the transaction carries a consistent id
// and, for user transactions, a signature that verifies against the public
// key encoded in the from address. Coinbase transactions carry no signature.
func (tx Tx) ValidateSignature() bool {
	if tx.ID != tx.ContentID() {
		return false
	}

	if tx.IsCoinbase() {
		return true
	}

	sig, err := hex.DecodeString(tx.Signature)
	if err != nil {
		return false
	}

	return signature.Verify(string(tx.FromID), tx.Content(), sig)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	from := string(tx.FromID)
	if len(from) > 8 && !tx.IsCoinbase() {
		from = from[:8]
	}

	return fmt.Sprintf("%s->%.8s:%d", from, tx.ToID, tx.Amount)
}
