package core

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"powchain/crypto"
	"powchain/interfaces"
	"powchain/logger"
	"powchain/metrics"
)

// Blockchain is a single authoritative in-memory chain: an ordered sequence of
// sealed blocks starting from the canonical genesis block. The sequence is
// mutated exclusively through the append path; sealed blocks are never edited.
//
// Each Blockchain is an explicit owned instance, so multiple chains can
// coexist in one process.
type Blockchain struct {
	mu        sync.RWMutex
	blocks    []*Block
	byHash    map[[32]byte]*Block
	consensus interfaces.Engine
}

// NewBlockchain constructs a chain holding exactly the genesis block.
func NewBlockchain() *Blockchain {
	genesis := GenesisBlock()
	bc := &Blockchain{
		blocks: []*Block{genesis},
		byHash: map[[32]byte]*Block{genesis.Hash: genesis},
	}
	logger.Debugf("Chain initialized, genesis hash: %s", crypto.HashToHex(genesis.Hash))
	return bc
}

// SetConsensus attaches the engine used to seal candidates and verify
// admission digests.
func (bc *Blockchain) SetConsensus(engine interfaces.Engine) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.consensus = engine
}

func (bc *Blockchain) GetConsensusEngine() interfaces.Engine {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.consensus
}

// Append mines a block carrying payload at the given difficulty and commits
// it to the chain. Mining runs outside the chain lock against a snapshot of
// the tail; the commit re-checks the tail atomically, so concurrent appends
// race safely and every loser gets ErrLinkageMismatch with the chain
// unchanged. Cancelling ctx aborts the mining search with ctx's error.
func (bc *Blockchain) Append(ctx context.Context, payload []byte, difficulty uint32) (*Block, error) {
	bc.mu.RLock()
	engine := bc.consensus
	tail := bc.blocks[len(bc.blocks)-1]
	bc.mu.RUnlock()

	if engine == nil {
		return nil, ErrNoConsensus
	}

	candidate := NewCandidate(tail.Index+1, payload, tail.Hash, difficulty)
	nonce, hash, err := engine.Seal(ctx, candidate)
	if err != nil {
		return nil, err
	}

	block := candidate.Seal(nonce, hash)
	if err := bc.AddBlock(block); err != nil {
		return nil, err
	}
	return block, nil
}

// AddBlock appends a pre-sealed block. Linkage, index, digest, and difficulty
// are checked atomically against the current tail; this is the
// append-if-tail-matches commit point shared by Append and by callers that
// mined their own candidate.
func (bc *Blockchain) AddBlock(block *Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	tail := bc.blocks[len(bc.blocks)-1]
	if block.PrevHash != tail.Hash || block.Index != tail.Index+1 {
		metrics.GetMetrics().IncrementRejectedAppends()
		logger.Warningf("Rejecting block %d: stale or mislinked against tail %d (%s)",
			block.Index, tail.Index, crypto.HashToHex(tail.Hash))
		return ErrLinkageMismatch
	}
	if block.CalculateHash() != block.Hash {
		metrics.GetMetrics().IncrementRejectedAppends()
		logger.Errorf("Rejecting block %d: recorded digest %s does not recompute",
			block.Index, crypto.HashToHex(block.Hash))
		return ErrInvalidDigest
	}
	if bc.consensus != nil && !bc.consensus.VerifyHash(block.Hash, block.Difficulty) {
		metrics.GetMetrics().IncrementRejectedAppends()
		logger.Errorf("Rejecting block %d: digest %s fails difficulty %d",
			block.Index, crypto.HashToHex(block.Hash), block.Difficulty)
		return ErrDifficultyNotMet
	}

	bc.blocks = append(bc.blocks, block)
	bc.byHash[block.Hash] = block

	metrics.GetMetrics().IncrementBlockCount()
	metrics.GetMetrics().SetChainHeight(block.Index)
	logger.LogBlockEvent(block.Index, crypto.HashToHex(block.Hash), len(block.Payload), block.Nonce)
	return nil
}

// Validate walks the full chain from genesis, recomputing every digest from
// the recorded block fields, and reports all invariant violations with the
// offending index. Any post-seal mutation of a block surfaces here.
func (bc *Blockchain) Validate() ValidationReport {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	metrics.GetMetrics().IncrementValidationRuns()
	var report ValidationReport

	canonical := GenesisBlock()
	head := bc.blocks[0]
	if head.Index != 0 ||
		head.Timestamp != canonical.Timestamp ||
		!bytes.Equal(head.Payload, canonical.Payload) ||
		head.PrevHash != canonical.PrevHash ||
		head.Difficulty != 0 ||
		head.Nonce != canonical.Nonce ||
		head.Hash != canonical.Hash {
		report.add(0, InvariantGenesis, "chain[0] is not the canonical genesis block")
	}

	for i := 1; i < len(bc.blocks); i++ {
		b := bc.blocks[i]
		if b.Index != uint64(i) {
			report.add(uint64(i), InvariantIndex,
				fmt.Sprintf("block at position %d records index %d", i, b.Index))
		}
		if b.PrevHash != bc.blocks[i-1].Hash {
			report.add(uint64(i), InvariantLinkage,
				"previous digest does not match prior block's digest")
		}
		if b.CalculateHash() != b.Hash {
			report.add(uint64(i), InvariantDigest,
				"digest does not recompute from block content")
		} else if bc.consensus != nil && !bc.consensus.VerifyHash(b.Hash, b.Difficulty) {
			report.add(uint64(i), InvariantDifficulty,
				fmt.Sprintf("digest fails recorded difficulty %d", b.Difficulty))
		}
	}

	if !report.OK() {
		logger.Warningf("Chain validation found %d violation(s)", len(report.Violations))
	}
	return report
}

// Len returns the number of blocks in the chain, genesis included.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.blocks)
}

// BlockAt returns the block at the given index, or nil when out of range.
func (bc *Blockchain) BlockAt(index uint64) *Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if index >= uint64(len(bc.blocks)) {
		return nil
	}
	return bc.blocks[index]
}

// GetBlockByHash returns the block with the given digest, or nil.
func (bc *Blockchain) GetBlockByHash(hash [32]byte) *Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.byHash[hash]
}

// Tail returns the most recently appended block.
func (bc *Blockchain) Tail() *Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.blocks[len(bc.blocks)-1]
}

// TailHash returns the digest of the most recently appended block.
func (bc *Blockchain) TailHash() [32]byte {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.blocks[len(bc.blocks)-1].Hash
}
