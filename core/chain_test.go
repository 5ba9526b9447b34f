package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"powchain/consensus"
	"powchain/crypto"
)

func newTestChain(t *testing.T) *Blockchain {
	t.Helper()
	bc := NewBlockchain()
	bc.SetConsensus(consensus.NewProofOfWork())
	return bc
}

func mustAppend(t *testing.T, bc *Blockchain, payload string, difficulty uint32) *Block {
	t.Helper()
	block, err := bc.Append(context.Background(), []byte(payload), difficulty)
	if err != nil {
		t.Fatalf("append %q failed: %v", payload, err)
	}
	return block
}

func TestGenesisInvariance(t *testing.T) {
	a := newTestChain(t)
	b := newTestChain(t)

	if a.Len() != 1 {
		t.Fatalf("new chain has length %d, want 1", a.Len())
	}
	if a.BlockAt(0).Hash != b.BlockAt(0).Hash {
		t.Fatalf("genesis block differs between chains")
	}
	if report := a.Validate(); !report.OK() {
		t.Fatalf("fresh chain reported violations: %+v", report.Violations)
	}
}

func TestAppendPreservesValidity(t *testing.T) {
	bc := newTestChain(t)
	for i := 0; i < 4; i++ {
		block := mustAppend(t, bc, fmt.Sprintf("payload %d", i), 1)
		if block.Index != uint64(i+1) {
			t.Fatalf("appended block has index %d, want %d", block.Index, i+1)
		}
		if report := bc.Validate(); !report.OK() {
			t.Fatalf("chain invalid after append %d: %+v", i, report.Violations)
		}
	}
	if bc.Len() != 5 {
		t.Fatalf("chain length %d, want 5", bc.Len())
	}
}

func TestAppendLinksToTail(t *testing.T) {
	bc := newTestChain(t)
	first := mustAppend(t, bc, "first", 1)
	if first.PrevHash != GenesisBlock().Hash {
		t.Fatalf("first appended block does not link to genesis")
	}
	second := mustAppend(t, bc, "second", 1)
	if second.PrevHash != first.Hash {
		t.Fatalf("second appended block does not link to first")
	}
	if bc.TailHash() != second.Hash {
		t.Fatalf("tail digest does not match last appended block")
	}
}

// Tampering with any field of a sealed non-genesis block must surface in the
// validation report at exactly that index, with no violations elsewhere.
func TestTamperDetection(t *testing.T) {
	tamperCases := map[string]func(b *Block){
		"payload":   func(b *Block) { b.Payload = []byte("TAMPERED") },
		"nonce":     func(b *Block) { b.Nonce++ },
		"prevHash":  func(b *Block) { b.PrevHash[0] ^= 0xff },
		"timestamp": func(b *Block) { b.Timestamp += 60 },
	}

	for name, tamper := range tamperCases {
		t.Run(name, func(t *testing.T) {
			bc := newTestChain(t)
			for i := 0; i < 3; i++ {
				mustAppend(t, bc, fmt.Sprintf("block %d", i), 1)
			}
			if report := bc.Validate(); !report.OK() {
				t.Fatalf("chain invalid before tampering: %+v", report.Violations)
			}

			// Direct unchecked mutation, bypassing digest recomputation.
			tamper(bc.blocks[2])

			report := bc.Validate()
			if report.OK() {
				t.Fatalf("tampering %s went undetected", name)
			}
			for _, v := range report.Violations {
				if v.Index != 2 {
					t.Fatalf("violation reported at index %d, want 2: %+v", v.Index, v)
				}
			}
		})
	}
}

func TestLinkageRejection(t *testing.T) {
	bc := newTestChain(t)
	pow := consensus.NewProofOfWork()

	// Seal a candidate against the current tail, then move the tail.
	stale := NewCandidate(uint64(bc.Len()), []byte("stale"), bc.TailHash(), 1)
	nonce, hash, err := pow.Seal(context.Background(), stale)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	mustAppend(t, bc, "winner", 1)

	lenBefore := bc.Len()
	if err := bc.AddBlock(stale.Seal(nonce, hash)); !errors.Is(err, ErrLinkageMismatch) {
		t.Fatalf("stale block returned %v, want ErrLinkageMismatch", err)
	}
	if bc.Len() != lenBefore {
		t.Fatalf("chain length changed on rejected append: %d -> %d", lenBefore, bc.Len())
	}
	if report := bc.Validate(); !report.OK() {
		t.Fatalf("chain invalid after rejected append: %+v", report.Violations)
	}
}

func TestDifficultyNotMetRejection(t *testing.T) {
	bc := newTestChain(t)

	// A block sealed with an arbitrary nonce that records difficulty 8 will
	// not meet it; the digest still recomputes, so only the difficulty check
	// can reject it.
	candidate := NewCandidate(1, []byte("cheat"), bc.TailHash(), 8)
	hash := candidate.HashWithNonce(0)
	if crypto.LeadingHexZeros(hash) >= 8 {
		t.Skip("nonce 0 accidentally satisfies difficulty 8")
	}
	if err := bc.AddBlock(candidate.Seal(0, hash)); !errors.Is(err, ErrDifficultyNotMet) {
		t.Fatalf("unmined block returned %v, want ErrDifficultyNotMet", err)
	}
	if bc.Len() != 1 {
		t.Fatalf("rejected block was appended")
	}
}

func TestInvalidDigestRejection(t *testing.T) {
	bc := newTestChain(t)

	candidate := NewCandidate(1, []byte("forged"), bc.TailHash(), 0)
	forged := candidate.Seal(0, crypto.Keccak256Hash([]byte("unrelated")))
	if err := bc.AddBlock(forged); !errors.Is(err, ErrInvalidDigest) {
		t.Fatalf("forged digest returned %v, want ErrInvalidDigest", err)
	}
}

func TestAppendWithoutConsensus(t *testing.T) {
	bc := NewBlockchain()
	if _, err := bc.Append(context.Background(), []byte("x"), 1); !errors.Is(err, ErrNoConsensus) {
		t.Fatalf("append without engine returned %v, want ErrNoConsensus", err)
	}
}

func TestConcurrentAppendsSingleWinnerPerTail(t *testing.T) {
	bc := newTestChain(t)

	const miners = 4
	var wg sync.WaitGroup
	errs := make([]error, miners)
	for i := 0; i < miners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = bc.Append(context.Background(), fmt.Appendf(nil, "miner %d", i), 1)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrLinkageMismatch):
			// Lost the race against another miner; expected.
		default:
			t.Fatalf("unexpected append error: %v", err)
		}
	}
	if wins == 0 {
		t.Fatalf("no append succeeded")
	}
	if bc.Len() != 1+wins {
		t.Fatalf("chain length %d does not match %d successful appends", bc.Len(), wins)
	}
	if report := bc.Validate(); !report.OK() {
		t.Fatalf("chain invalid after concurrent appends: %+v", report.Violations)
	}
}

// End-to-end scenario: mine one block over genesis, verify the difficulty is
// visible in the digest, then tamper with the payload and watch validation
// pinpoint it.
func TestEndToEndScenario(t *testing.T) {
	bc := newTestChain(t)
	if bc.Len() != 1 {
		t.Fatalf("new chain has length %d, want 1", bc.Len())
	}

	block := mustAppend(t, bc, "hello", 2)
	if bc.Len() != 2 {
		t.Fatalf("chain length %d after append, want 2", bc.Len())
	}
	if got := crypto.LeadingHexZeros(bc.TailHash()); got < 2 {
		t.Fatalf("tail digest has %d leading zero hex chars, want >= 2", got)
	}
	if report := bc.Validate(); !report.OK() {
		t.Fatalf("chain invalid after mining: %+v", report.Violations)
	}

	block.Payload = []byte("HELLO")

	report := bc.Validate()
	if len(report.Violations) != 1 {
		t.Fatalf("tampered chain reported %d violations, want 1: %+v", len(report.Violations), report.Violations)
	}
	v := report.Violations[0]
	if v.Index != 1 || v.Invariant != InvariantDigest {
		t.Fatalf("violation = %+v, want digest mismatch at index 1", v)
	}
}
