package public

import (
	"github.com/emberchain/blockchain/foundation/blockchain/database"
)

// submitTx is what a wallet submits to transfer value.
type submitTx struct {
	From      database.AccountID `json:"from" validate:"required"`
	To        database.AccountID `json:"to" validate:"required"`
	Amount    int64              `json:"amount" validate:"required,gt=0"`
	TimeStamp int64              `json:"timestamp" validate:"required"`
	Signature string             `json:"signature" validate:"required"`
	ID        string             `json:"id" validate:"required"`
}

// balance is the client view of an account balance.
type balance struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name,omitempty"`
	Balance int64              `json:"balance"`
}

// blockView is the client view of a block, the computed hash included.
type blockView struct {
	Hash         string        `json:"hash"`
	Index        uint64        `json:"index"`
	TimeStamp    int64         `json:"timestamp"`
	PrevHash     string        `json:"previousHash"`
	Transactions []database.Tx `json:"transactions"`
	MerkleRoot   string        `json:"merkleRoot"`
	Nonce        uint64        `json:"nonce"`
}

func toBlockView(block database.Block) blockView {
	return blockView{
		Hash:         block.Hash(),
		Index:        block.Index,
		TimeStamp:    block.TimeStamp,
		PrevHash:     block.PrevHash,
		Transactions: block.Transactions,
		MerkleRoot:   block.MerkleRoot,
		Nonce:        block.Nonce,
	}
}
