package core

// Genesis parameters are fixed constants so every chain starts from the
// identical block, byte for byte, across runs and processes.
const genesisTimestamp int64 = 1704067200 // 2024-01-01T00:00:00Z

var genesisPayload = []byte("powchain genesis")

// GenesisBlock returns the canonical first block. Genesis bypasses mining: it
// carries nonce 0, difficulty 0, and a zero previous digest, and its digest is
// computed directly from that fixed content.
func GenesisBlock() *Block {
	b := &Block{
		Index:     0,
		Timestamp: genesisTimestamp,
		Payload:   append([]byte(nil), genesisPayload...),
	}
	b.Hash = b.CalculateHash()
	return b
}
