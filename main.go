package main

import (
	"powchain/cmd"
	"powchain/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.Fatalf("powchain exited with error: %v", err)
	}
}
