package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"powchain/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "powchain",
	Short: "Powchain single-node proof-of-work ledger",
	Long: `Powchain runs a single-node, in-memory hash-chained ledger whose
blocks are admitted by proof-of-work mining, with an HTTP API for
chain inspection, validation, and mining control.`,
}

// Execute adds all child commands to the root command and runs it. Called by
// main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(startNodeCmd)
	rootCmd.AddCommand(demoCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.powchain/config.yaml or ./config.yaml)")

	rootCmd.PersistentFlags().String("rpcaddr", config.DefaultConfig.RPCAddr, "HTTP API address (0.0.0.0 to listen on all interfaces)")
	rootCmd.PersistentFlags().Int("rpcport", config.DefaultConfig.RPCPort, "HTTP API port")
	rootCmd.PersistentFlags().Bool("mining", config.DefaultConfig.Mining, "Mine blocks in the background")
	rootCmd.PersistentFlags().Uint32("difficulty", config.DefaultConfig.Difficulty, "Required leading zero hex characters in block digests")
	rootCmd.PersistentFlags().Duration("mineinterval", config.DefaultConfig.MineInterval, "Delay between background mining attempts")
	rootCmd.PersistentFlags().String("payload", config.DefaultConfig.Payload, "Fixed payload for mined blocks (default is a per-index label)")
	rootCmd.PersistentFlags().String("log_level", config.DefaultConfig.LogLevel, "Logging level (debug, info, warn, error, fatal)")

	viper.BindPFlag("rpcaddr", rootCmd.PersistentFlags().Lookup("rpcaddr"))
	viper.BindPFlag("rpcport", rootCmd.PersistentFlags().Lookup("rpcport"))
	viper.BindPFlag("mining", rootCmd.PersistentFlags().Lookup("mining"))
	viper.BindPFlag("difficulty", rootCmd.PersistentFlags().Lookup("difficulty"))
	viper.BindPFlag("mineinterval", rootCmd.PersistentFlags().Lookup("mineinterval"))
	viper.BindPFlag("payload", rootCmd.PersistentFlags().Lookup("payload"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))
}

// initConfig reads the config file and matching ENV variables if present.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".powchain"))
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("POWCHAIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file '%s': %s\n", viper.ConfigFileUsed(), err)
		}
	}
}
