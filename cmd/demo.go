package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"powchain/config"
	"powchain/consensus"
	"powchain/core"
	"powchain/crypto"
	"powchain/logger"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Mine a short chain and print it",
	Long:  `Build a fresh chain, mine a few payload blocks at the configured difficulty, render the result, and run full validation.`,
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	logger.SetLevel(cfg.GetLogLevel())

	chain := core.NewBlockchain()
	chain.SetConsensus(consensus.NewProofOfWork())

	payloads := []string{"hello", "world", "powchain"}
	for _, p := range payloads {
		start := time.Now()
		block, err := chain.Append(cmd.Context(), []byte(p), cfg.Difficulty)
		if err != nil {
			return fmt.Errorf("failed to append %q: %v", p, err)
		}
		pterm.Success.Printfln("Mined block %d in %s (nonce %d)",
			block.Index, time.Since(start).Round(time.Millisecond), block.Nonce)
	}

	rows := pterm.TableData{{"Index", "Timestamp", "Payload", "Nonce", "Hash", "PrevHash"}}
	for i := 0; i < chain.Len(); i++ {
		b := chain.BlockAt(uint64(i))
		rows = append(rows, []string{
			strconv.FormatUint(b.Index, 10),
			strconv.FormatInt(b.Timestamp, 10),
			string(b.Payload),
			strconv.FormatUint(b.Nonce, 10),
			shortHash(b.Hash),
			shortHash(b.PrevHash),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}

	report := chain.Validate()
	if report.OK() {
		pterm.Success.Println("Chain valid.")
	} else {
		pterm.Error.Printfln("Chain invalid: %d violation(s).", len(report.Violations))
		for _, v := range report.Violations {
			pterm.Error.Printfln("  block %d: %s (%s)", v.Index, v.Invariant, v.Detail)
		}
	}
	return nil
}

func shortHash(h [32]byte) string {
	return crypto.HashToHex(h)[:16]
}
