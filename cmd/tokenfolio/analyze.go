package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tokenfolio/internal/config"
	"tokenfolio/internal/report"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	address := args[0]
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid wallet address: %s", address)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	withBehavior, _ := cmd.Flags().GetBool("behavior")
	since, _ := cmd.Flags().GetInt64("since")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, cleanup, err := buildService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := service.WalletSummary(ctx, address)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		fmt.Println(report.FormatSummary(summary))
	}

	if withBehavior {
		behavior, err := service.Behavior(ctx, address, since)
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(behavior); err != nil {
				return err
			}
		} else {
			fmt.Println(report.FormatBehavior(behavior))
		}
	}

	logger.Info("analysis complete", zap.String("address", address))
	return nil
}
