package state

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"time"

	"github.com/emberchain/blockchain/foundation/blockchain/consensus"
	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/signature"
)

// ErrStaleTemplate is returned when the chain tip moved while the proof of
// work was being solved. The mined block no longer extends the tip.
var ErrStaleTemplate = errors.New("mined block is stale, tip has moved")

// ErrAppendRejected is returned when the final append under the lock failed,
// a race with a concurrently accepted block.
var ErrAppendRejected = errors.New("mined block rejected by the chain")

// maxTxPerBlock is the maximum number of mempool transactions mined into a
// single block, the coinbase excluded.
const maxTxPerBlock = 100

// powYieldInterval is how many nonce attempts run between cooperative
// yields. Cancellation is only observed on these boundaries.
const powYieldInterval = 10_000

// MineNewBlock builds a block template from the chain tip and the mempool,
// solves the proof of work, and appends the result. On success the block has
// been appended, its transactions removed from the mempool, and the chain
// persisted; broadcasting is left to the caller.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: snapshot tip and mempool")

	// Snapshot the template inputs. The chain lock is held only for the tip
	// read; the nonce search below runs without any lock.
	tip := s.LatestBlock()

	trans := s.mempool.Snapshot(maxTxPerBlock)
	coinbase := database.NewCoinbaseTx(s.beneficiaryID, consensus.RewardFor(tip.Index+1))
	trans = append([]database.Tx{coinbase}, trans...)

	nb := database.NewBlock(tip, time.Now().UTC().Unix(), trans)

	s.evHandler("state: MineNewBlock: MINING: perform POW: txs[%d]", len(trans))

	if err := performPOW(ctx, &nb, s.difficulty); err != nil {
		return database.Block{}, err
	}

	// The tip may have moved while the work was being solved.
	if latest := s.LatestBlock(); latest.Hash() != nb.PrevHash {
		return database.Block{}, ErrStaleTemplate
	}

	s.evHandler("state: MineNewBlock: MINING: solved: blk[%s]: nonce[%d]", nb.Hash(), nb.Nonce)

	s.mu.Lock()
	appended := s.chain.Append(nb)
	s.mu.Unlock()

	if !appended {
		return database.Block{}, ErrAppendRejected
	}

	// Best effort: the authoritative record is the chain itself.
	s.mempool.RemoveConfirmed(nb.Transactions)

	s.persistChain()

	return nb, nil
}

// performPOW searches nonces until the block hash satisfies the difficulty.
// The loop allocates nothing per attempt and honours cancellation every
// powYieldInterval nonces.
func performPOW(ctx context.Context, b *database.Block, difficulty int) error {
	seed := b.HashSeed()
	buf := make([]byte, 0, len(seed)+24)

	for nonce := uint64(0); ; nonce++ {
		if nonce%powYieldInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
		}

		buf = append(buf[:0], seed...)
		buf = strconv.AppendUint(buf, nonce, 10)

		if consensus.HashMeetsDifficulty(signature.Hash(buf), difficulty) {
			b.Nonce = nonce
			return nil
		}
	}
}
