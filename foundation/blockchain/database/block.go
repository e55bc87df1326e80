package database

import (
	"strconv"

	"github.com/emberchain/blockchain/foundation/blockchain/merkle"
	"github.com/emberchain/blockchain/foundation/blockchain/signature"
)

// Block represents a group of transactions batched together. The hash is
// never part of the value; it is always recomputed from the header fields.
type Block struct {
	Index        uint64 `json:"index"`
	TimeStamp    int64  `json:"timestamp"`
	PrevHash     string `json:"previousHash"`
	Transactions []Tx   `json:"transactions"`
	MerkleRoot   string `json:"merkleRoot"`
	Nonce        uint64 `json:"nonce"`
}

// NewBlock constructs the next block on top of the specified previous block
// with the merkle root computed over the transaction ids. The nonce starts
// at zero; mining identifies the final value.
func NewBlock(prevBlock Block, timeStamp int64, trans []Tx) Block {
	return Block{
		Index:        prevBlock.Index + 1,
		TimeStamp:    timeStamp,
		PrevHash:     prevBlock.Hash(),
		Transactions: trans,
		MerkleRoot:   merkle.RootHex(TxIDs(trans)),
	}
}

// HashSeed returns the header bytes the hash is computed over, up to but not
// including the nonce. The mining hot path appends nonces to this seed so no
// allocation happens per attempt.
func (b Block) HashSeed() []byte {
	buf := make([]byte, 0, 48+len(b.PrevHash)+len(b.MerkleRoot))
	buf = strconv.AppendUint(buf, b.Index, 10)
	buf = strconv.AppendInt(buf, b.TimeStamp, 10)
	buf = append(buf, b.PrevHash...)
	buf = append(buf, b.MerkleRoot...)

	return buf
}

// Hash returns the textual hash for the block, recomputed from the header.
func (b Block) Hash() string {
	buf := strconv.AppendUint(b.HashSeed(), b.Nonce, 10)
	return signature.HashHex(buf)
}

// TxIDs returns the ordered list of transaction ids for a set of
// transactions. This is the leaf list for the merkle root.
func TxIDs(trans []Tx) []string {
	ids := make([]string, len(trans))
	for i, tx := range trans {
		ids[i] = tx.ID
	}

	return ids
}
