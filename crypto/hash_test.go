package crypto

import "testing"

func TestKeccak256HashDeterminism(t *testing.T) {
	data := []byte("powchain digest determinism")
	first := Keccak256Hash(data)
	for i := 0; i < 10; i++ {
		if got := Keccak256Hash(data); got != first {
			t.Fatalf("digest changed between invocations: %x vs %x", got, first)
		}
	}
	if Keccak256Hash([]byte("other")) == first {
		t.Fatalf("distinct inputs produced identical digests")
	}
}

func TestHexRoundTrip(t *testing.T) {
	h := Keccak256Hash([]byte("round trip"))
	s := HashToHex(h)
	if len(s) != HashSize*2 {
		t.Fatalf("hex rendering has length %d, want %d", len(s), HashSize*2)
	}
	back, err := HexToHash(s)
	if err != nil {
		t.Fatalf("HexToHash failed: %v", err)
	}
	if back != h {
		t.Fatalf("round trip mismatch: %x vs %x", back, h)
	}
}

func TestHexToHashRejectsBadInput(t *testing.T) {
	if _, err := HexToHash("zz"); err == nil {
		t.Fatalf("non-hex input should be rejected")
	}
	if _, err := HexToHash("abcd"); err == nil {
		t.Fatalf("short input should be rejected")
	}
}

func TestLeadingHexZeros(t *testing.T) {
	cases := []struct {
		hash [HashSize]byte
		want int
	}{
		{[HashSize]byte{0xff}, 0},
		{[HashSize]byte{0x0f}, 1},
		{[HashSize]byte{0x01}, 1},
		{[HashSize]byte{0x00, 0x10}, 2},
		{[HashSize]byte{0x00, 0x01}, 3},
		{[HashSize]byte{}, 64},
	}
	for _, c := range cases {
		if got := LeadingHexZeros(c.hash); got != c.want {
			t.Fatalf("LeadingHexZeros(%x) = %d, want %d", c.hash, got, c.want)
		}
	}
}
