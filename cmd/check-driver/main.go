package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/services/probe"
)

var (
	configFile  = flag.String("config", "", "Configuration file path")
	showVersion = flag.Bool("version", false, "Print version information")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *showVersion {
		fmt.Printf("check-driver version %s\n", common.GetFullVersion())
		return 0
	}

	config, err := common.LoadFromFiles(*configFile)
	if err != nil {
		common.GetLogger().Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logger := common.SetupLogger(config)
	common.PrintBanner("CHECK DRIVER", config, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prober := probe.NewProber(config, logger, common.NewConsole())
	report := prober.RunAll(ctx)
	prober.PrintSummary(report)

	return report.ExitCode()
}
