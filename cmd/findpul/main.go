// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the findpul CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/zxgsy520/findPUL/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from --log-level before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the findpul CLI.
var rootCmd = &cobra.Command{
	Use:   "findpul",
	Short: "Find polysaccharide utilization loci in annotated genomes",
	Long: `findpul merges per-gene SUS, CAZy and PUL homology annotations and
scans each contig for gap-tolerant runs of annotated genes. Runs that carry a
SusC, SusD, GH or CE marker and pass the annotation-rate floor are reported
as polysaccharide utilization loci (PULs).

Use "findpul run" for the whole pipeline, or the merge and find stages
separately. Results can be kept in a SQLite database with "findpul loci".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		logger = log
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Info("using config file", zap.String("path", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./findpul.yaml or ~/.config/findpul/findpul.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("findpul")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "findpul"))
		}
	}

	viper.SetEnvPrefix("FINDPUL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
