package consensus

import (
	"context"

	"github.com/holiman/uint256"

	"powchain/interfaces"
	"powchain/logger"
	"powchain/metrics"
)

// Difficulty is the required count of leading zero hex characters in a block
// digest: difficulty N admits a digest iff its numeric value is strictly below
// 2^(256-4N). Mining and validation share this one predicate.
const (
	// MaxDifficulty is 64 hex characters of zeros: only the all-zero digest
	// passes. Larger values behave the same.
	MaxDifficulty = 64

	// cancelCheckInterval is how many nonce attempts run between context
	// checks during mining.
	cancelCheckInterval = 4096
)

// ProofOfWork implements the proof-of-work admission rule.
type ProofOfWork struct{}

var _ interfaces.Engine = (*ProofOfWork)(nil)

// NewProofOfWork creates a new PoW consensus engine.
func NewProofOfWork() *ProofOfWork {
	return &ProofOfWork{}
}

// Seal searches nonce space from zero upward, recomputing the candidate's
// digest each attempt, and stops at the first nonce whose digest meets the
// candidate's difficulty. The search is pure CPU work with no I/O; the context
// is checked between fixed batches of attempts, and cancellation returns ctx's
// error with no block produced.
func (pow *ProofOfWork) Seal(ctx context.Context, candidate interfaces.CandidateItf) (uint64, [32]byte, error) {
	difficulty := candidate.GetDifficulty()
	target := calculateTarget(difficulty)

	var hashInt uint256.Int
	attempts := uint64(0)

	for nonce := uint64(0); ; nonce++ {
		hash := candidate.HashWithNonce(nonce)
		attempts++

		if target == nil {
			metrics.GetMetrics().AddHashAttempts(attempts)
			return nonce, hash, nil
		}
		hashInt.SetBytes(hash[:])
		if hashInt.Lt(target) {
			metrics.GetMetrics().AddHashAttempts(attempts)
			logger.Debugf("Sealed block %d after %d attempts (difficulty %d)",
				candidate.GetIndex(), attempts, difficulty)
			return nonce, hash, nil
		}

		if attempts%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				metrics.GetMetrics().AddHashAttempts(attempts)
				logger.Debugf("Mining of block %d cancelled after %d attempts",
					candidate.GetIndex(), attempts)
				return 0, [32]byte{}, err
			}
		}
	}
}

// VerifyHash reports whether a digest satisfies the difficulty predicate.
func (pow *ProofOfWork) VerifyHash(hash [32]byte, difficulty uint32) bool {
	target := calculateTarget(difficulty)
	if target == nil {
		return true
	}
	return new(uint256.Int).SetBytes(hash[:]).Lt(target)
}

// calculateTarget returns the exclusive upper bound a digest must stay below,
// or nil when difficulty is zero and every digest is admissible.
func calculateTarget(difficulty uint32) *uint256.Int {
	if difficulty == 0 {
		return nil
	}
	if difficulty >= MaxDifficulty {
		// digest < 1: only the all-zero digest.
		return uint256.NewInt(1)
	}
	target := uint256.NewInt(1)
	return target.Lsh(target, uint(256-4*difficulty))
}
