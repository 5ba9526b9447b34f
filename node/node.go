package node

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff"

	"powchain/core"
	"powchain/logger"
)

// PayloadFunc produces the payload for the block to be mined at the given
// index.
type PayloadFunc func(index uint64) []byte

// Config controls the node's background mining loop.
type Config struct {
	Difficulty   uint32
	MineInterval time.Duration
	Payload      PayloadFunc
}

// staleRetries bounds how many times a mining run is repeated after losing an
// append race before the attempt is given up and left to the next tick.
const staleRetries = 5

// Node owns a chain instance and decides when to mine new blocks with what
// payload. It is the single logical owner of the chain; everything it exposes
// to the HTTP API goes through the chain's own synchronized methods.
type Node struct {
	chain    *core.Blockchain
	cfg      Config
	running  bool
	mu       sync.Mutex
	stopChan chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New wires a node around an existing chain. A nil payload source defaults to
// a plain per-index label.
func New(chain *core.Blockchain, cfg Config) *Node {
	if cfg.Payload == nil {
		cfg.Payload = func(index uint64) []byte {
			return fmt.Appendf(nil, "block %d", index)
		}
	}
	if cfg.MineInterval <= 0 {
		cfg.MineInterval = time.Second
	}
	return &Node{chain: chain, cfg: cfg}
}

// Chain exposes the owned chain for read access.
func (n *Node) Chain() *core.Blockchain {
	return n.chain
}

func (n *Node) Difficulty() uint32 {
	return n.cfg.Difficulty
}

func (n *Node) MineInterval() time.Duration {
	return n.cfg.MineInterval
}

// Start launches the background mining loop. Safe to call while running.
func (n *Node) Start() {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		logger.Info("Miner already running.")
		return
	}
	n.running = true
	n.stopChan = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.mu.Unlock()

	logger.Infof("Starting miner: difficulty=%d, interval=%s", n.cfg.Difficulty, n.cfg.MineInterval)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ticker := time.NewTicker(n.cfg.MineInterval)
		defer ticker.Stop()

		for {
			select {
			case <-n.stopChan:
				logger.Info("Miner stopping work loop.")
				return
			case <-ticker.C:
				if _, err := n.MineOnce(ctx); err != nil {
					if errors.Is(err, context.Canceled) {
						return
					}
					logger.Errorf("Mining attempt failed: %v", err)
				}
			}
		}
	}()
}

// Stop cancels any in-flight mining search and waits for the work loop to
// exit. Cancellation leaves no partial chain mutation.
func (n *Node) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		logger.Info("Miner is not running.")
		return
	}
	close(n.stopChan)
	n.cancel()
	n.running = false
	n.mu.Unlock()

	n.wg.Wait()
	logger.Info("Miner stopped.")
}

func (n *Node) IsRunning() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.running
}

// MineOnce mines and appends a single block. Losing an append race to a
// concurrent miner is recoverable: the attempt is retried with exponential
// backoff, re-mining against the fresh tail each time. Every other error is
// permanent for this attempt.
func (n *Node) MineOnce(ctx context.Context) (*core.Block, error) {
	var block *core.Block

	operation := func() error {
		index := uint64(n.chain.Len())
		b, err := n.chain.Append(ctx, n.cfg.Payload(index), n.cfg.Difficulty)
		if err != nil {
			if errors.Is(err, core.ErrLinkageMismatch) {
				logger.Debugf("Block %d lost the append race, re-mining against new tail", index)
				return err
			}
			return backoff.Permanent(err)
		}
		block = b
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), staleRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return block, nil
}
