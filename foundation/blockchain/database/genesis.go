package database

import (
	"github.com/emberchain/blockchain/foundation/blockchain/merkle"
	"github.com/emberchain/blockchain/foundation/blockchain/signature"
)

// Genesis returns the fixed block at index 0. Every node starts from this
// exact value so its hash is identical across the network. The single system
// transaction carries no value; it only anchors the chain.
func Genesis() Block {
	tx := Tx{
		FromID:    CoinbaseAccount,
		ToID:      "genesis",
		Amount:    0,
		TimeStamp: 0,
	}
	tx.ID = tx.ContentID()

	return Block{
		Index:        0,
		TimeStamp:    0,
		PrevHash:     signature.ZeroHash,
		Transactions: []Tx{tx},
		MerkleRoot:   merkle.RootHex([]string{tx.ID}),
		Nonce:        0,
	}
}
