package core

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"powchain/crypto"
)

// Candidate holds the fields of a block that are fixed before mining. A
// candidate carries no nonce and no digest; sealing it produces a Block.
type Candidate struct {
	Index      uint64
	Timestamp  int64
	Payload    []byte
	PrevHash   [32]byte
	Difficulty uint32
}

// NewCandidate assembles a candidate for the next chain position. The
// timestamp is sampled once here and never re-sampled during mining.
func NewCandidate(index uint64, payload []byte, prevHash [32]byte, difficulty uint32) *Candidate {
	return &Candidate{
		Index:      index,
		Timestamp:  time.Now().Unix(),
		Payload:    append([]byte(nil), payload...),
		PrevHash:   prevHash,
		Difficulty: difficulty,
	}
}

func (c *Candidate) GetIndex() uint64      { return c.Index }
func (c *Candidate) GetDifficulty() uint32 { return c.Difficulty }

// HashWithNonce computes the digest the block would carry if sealed with the
// given nonce.
func (c *Candidate) HashWithNonce(nonce uint64) [32]byte {
	return hashBlockContent(c.Index, c.Timestamp, c.Payload, c.PrevHash, nonce)
}

// Seal turns the candidate into a sealed block carrying the mined nonce and
// digest. Sealed blocks are never mutated through the chain API.
func (c *Candidate) Seal(nonce uint64, hash [32]byte) *Block {
	return &Block{
		Index:      c.Index,
		Timestamp:  c.Timestamp,
		Payload:    c.Payload,
		PrevHash:   c.PrevHash,
		Difficulty: c.Difficulty,
		Nonce:      nonce,
		Hash:       hash,
	}
}

// Block is a sealed record in the chain. Difficulty is the predicate that was
// in force when the block was mined; it is recorded so validation can re-check
// the admission rule at any later time. The digest commits to the five content
// fields (index, timestamp, payload, previous digest, nonce).
type Block struct {
	Index      uint64   `json:"index"`
	Timestamp  int64    `json:"timestamp"`
	Payload    []byte   `json:"payload"`
	PrevHash   [32]byte `json:"prevHash"`
	Difficulty uint32   `json:"difficulty"`
	Nonce      uint64   `json:"nonce"`
	Hash       [32]byte `json:"hash"`
}

// CalculateHash recomputes the digest from the block's recorded fields. A
// sealed block is intact iff CalculateHash() == Hash.
func (b *Block) CalculateHash() [32]byte {
	return hashBlockContent(b.Index, b.Timestamp, b.Payload, b.PrevHash, b.Nonce)
}

// ToJSON serializes the block to JSON.
func (b *Block) ToJSON() ([]byte, error) {
	return json.Marshal(b)
}

// BlockFromJSON deserializes a block from JSON.
func BlockFromJSON(data []byte) (*Block, error) {
	var block Block
	if err := json.Unmarshal(data, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// hashBlockContent is the canonical content-addressing function: fixed-width
// little-endian integers, a length-prefixed payload, and the previous digest,
// hashed with keccak-256. The encoding is byte-exact across runs and
// processes, which Validate depends on.
func hashBlockContent(index uint64, timestamp int64, payload []byte, prevHash [32]byte, nonce uint64) [32]byte {
	buf := make([]byte, 0, 8+8+4+len(payload)+32+8)
	var tmp [8]byte

	binary.LittleEndian.PutUint64(tmp[:], index)
	buf = append(buf, tmp[:]...)

	binary.LittleEndian.PutUint64(tmp[:], uint64(timestamp))
	buf = append(buf, tmp[:]...)

	binary.LittleEndian.PutUint32(tmp[:4], uint32(len(payload)))
	buf = append(buf, tmp[:4]...)
	buf = append(buf, payload...)

	buf = append(buf, prevHash[:]...)

	binary.LittleEndian.PutUint64(tmp[:], nonce)
	buf = append(buf, tmp[:]...)

	return crypto.Keccak256Hash(buf)
}
