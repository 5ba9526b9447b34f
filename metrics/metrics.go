package metrics

import "sync/atomic"

// Metrics holds process-wide counters for chain activity. All fields are
// accessed atomically so the miner, the chain, and the HTTP API can update
// and read them without extra locking.
type Metrics struct {
	blockCount      uint64
	hashAttempts    uint64
	validationRuns  uint64
	rejectedAppends uint64
	chainHeight     uint64
}

var defaultMetrics = &Metrics{}

// GetMetrics returns the process-wide metrics instance.
func GetMetrics() *Metrics {
	return defaultMetrics
}

func (m *Metrics) IncrementBlockCount() {
	atomic.AddUint64(&m.blockCount, 1)
}

// AddHashAttempts accumulates the nonce attempts spent by a mining run,
// successful or cancelled.
func (m *Metrics) AddHashAttempts(n uint64) {
	atomic.AddUint64(&m.hashAttempts, n)
}

func (m *Metrics) IncrementValidationRuns() {
	atomic.AddUint64(&m.validationRuns, 1)
}

func (m *Metrics) IncrementRejectedAppends() {
	atomic.AddUint64(&m.rejectedAppends, 1)
}

func (m *Metrics) SetChainHeight(height uint64) {
	atomic.StoreUint64(&m.chainHeight, height)
}

// Snapshot is a consistent-enough copy of the counters for reporting.
type Snapshot struct {
	BlockCount      uint64 `json:"blockCount"`
	HashAttempts    uint64 `json:"hashAttempts"`
	ValidationRuns  uint64 `json:"validationRuns"`
	RejectedAppends uint64 `json:"rejectedAppends"`
	ChainHeight     uint64 `json:"chainHeight"`
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		BlockCount:      atomic.LoadUint64(&m.blockCount),
		HashAttempts:    atomic.LoadUint64(&m.hashAttempts),
		ValidationRuns:  atomic.LoadUint64(&m.validationRuns),
		RejectedAppends: atomic.LoadUint64(&m.rejectedAppends),
		ChainHeight:     atomic.LoadUint64(&m.chainHeight),
	}
}
