package interfaces

import "context"

// CandidateItf is the view of an unsealed block the consensus engine needs.
// The engine never mutates the candidate; it only probes digests for nonces.
type CandidateItf interface {
	GetIndex() uint64
	GetDifficulty() uint32
	HashWithNonce(nonce uint64) [32]byte
}

// Engine seals candidate blocks and verifies admission digests.
type Engine interface {
	// Seal searches nonce space until the candidate's digest satisfies its
	// difficulty, returning the winning nonce and digest. Cancellation of ctx
	// aborts the search with ctx's error and no partial result.
	Seal(ctx context.Context, candidate CandidateItf) (nonce uint64, hash [32]byte, err error)

	// VerifyHash reports whether a digest satisfies the difficulty predicate.
	VerifyHash(hash [32]byte, difficulty uint32) bool
}
