package core

import (
	"encoding/json"
	"fmt"
)

// Invariant identifies which chain property a violation breaks.
type Invariant int

const (
	// InvariantGenesis: chain[0] is the canonical genesis block.
	InvariantGenesis Invariant = iota + 1
	// InvariantIndex: a block's index equals its position in the sequence.
	InvariantIndex
	// InvariantLinkage: a block's previous digest equals the prior block's digest.
	InvariantLinkage
	// InvariantDigest: a block's digest recomputes from its recorded fields.
	InvariantDigest
	// InvariantDifficulty: a block's digest satisfies its recorded difficulty.
	InvariantDifficulty
)

func (i Invariant) String() string {
	switch i {
	case InvariantGenesis:
		return "genesis"
	case InvariantIndex:
		return "index"
	case InvariantLinkage:
		return "linkage"
	case InvariantDigest:
		return "digest"
	case InvariantDifficulty:
		return "difficulty"
	default:
		return fmt.Sprintf("invariant(%d)", int(i))
	}
}

func (i Invariant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// Violation pins a broken invariant to the block index where it was found.
type Violation struct {
	Index     uint64    `json:"index"`
	Invariant Invariant `json:"invariant"`
	Detail    string    `json:"detail"`
}

// ValidationReport lists every violation found by a full-chain walk. An empty
// report means the chain is intact. Validation detects tampering; it never
// repairs it.
type ValidationReport struct {
	Violations []Violation `json:"violations"`
}

func (r ValidationReport) OK() bool {
	return len(r.Violations) == 0
}

func (r *ValidationReport) add(index uint64, inv Invariant, detail string) {
	r.Violations = append(r.Violations, Violation{Index: index, Invariant: inv, Detail: detail})
}
