package core

import "errors"

var (
	// ErrLinkageMismatch reports a sealed block whose previous digest or index
	// no longer matches the chain tail, typically because a concurrent append
	// moved the tail. The chain is unchanged; the caller may re-mine against
	// the new tail.
	ErrLinkageMismatch = errors.New("previous digest does not match chain tail")

	// ErrInvalidDigest reports a sealed block whose recorded digest does not
	// recompute from its own fields.
	ErrInvalidDigest = errors.New("block digest does not recompute from block content")

	// ErrDifficultyNotMet reports a sealed block whose digest fails its own
	// difficulty predicate. With a correct engine this is unreachable; it is
	// never silently accepted.
	ErrDifficultyNotMet = errors.New("block digest does not meet recorded difficulty")

	// ErrNoConsensus is returned by Append when no engine has been attached.
	ErrNoConsensus = errors.New("consensus engine not set")
)
