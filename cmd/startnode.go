package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"powchain/config"
	"powchain/consensus"
	"powchain/core"
	"powchain/logger"
	"powchain/node"
	"powchain/rpc"
)

var startNodeCmd = &cobra.Command{
	Use:   "startnode",
	Short: "Start the ledger node",
	Long:  `Start the single-node ledger with background mining and the HTTP API.`,
	RunE:  runStartNode,
}

func runStartNode(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	logger.SetLevel(cfg.GetLogLevel())
	logger.Info("Starting powchain node...")
	logger.Infof("Effective configuration: RPCAddr=%s, RPCPort=%d, Mining=%t, Difficulty=%d, MineInterval=%s",
		cfg.RPCAddr, cfg.RPCPort, cfg.Mining, cfg.Difficulty, cfg.MineInterval)

	chain := core.NewBlockchain()
	chain.SetConsensus(consensus.NewProofOfWork())

	var payload node.PayloadFunc
	if cfg.Payload != "" {
		fixed := []byte(cfg.Payload)
		payload = func(uint64) []byte { return fixed }
	}

	n := node.New(chain, node.Config{
		Difficulty:   cfg.Difficulty,
		MineInterval: cfg.MineInterval,
		Payload:      payload,
	})
	if cfg.Mining {
		n.Start()
	}

	rpcServer := rpc.NewServer(&rpc.Config{Host: cfg.RPCAddr, Port: cfg.RPCPort}, n)
	if err := rpcServer.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP API: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("Shutdown signal received.")

	rpcServer.Stop()
	if n.IsRunning() {
		n.Stop()
	}

	report := chain.Validate()
	if report.OK() {
		logger.Infof("Final chain valid at height %d.", chain.Len()-1)
	} else {
		logger.Errorf("Final chain has %d invariant violation(s).", len(report.Violations))
	}
	return nil
}
