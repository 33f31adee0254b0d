package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/runner"
	"github.com/khawajarafayy/Texmage/internal/scenarios"
	"github.com/khawajarafayy/Texmage/internal/services/driver"
	"github.com/khawajarafayy/Texmage/internal/services/preflight"
	"github.com/khawajarafayy/Texmage/internal/standin"
)

// configPaths allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	baseURL     = flag.String("base-url", "", "Frontend base URL (overrides config and BASE_URL/APP_URL)")
	headed      = flag.Bool("headed", false, "Show the browser window")
	runPattern  = flag.String("run", "", "Only run scenarios whose name matches this regular expression")
	listOnly    = flag.Bool("list", false, "List scenarios and exit")
	useStandIn  = flag.Bool("standin", false, "Serve the built-in stand-in frontend and test against it")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *showVersion {
		fmt.Printf("texmage-e2e version %s\n", common.GetFullVersion())
		return 0
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("texmage-e2e.toml"); err == nil {
			configFiles = append(configFiles, "texmage-e2e.toml")
		}
	}

	// defaults -> files -> env, then flags
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		common.GetLogger().Error().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		return 2
	}
	common.ApplyFlagOverrides(config, *baseURL, *headed)
	if err := config.Validate(); err != nil {
		common.GetLogger().Error().Err(err).Msg("Invalid command-line overrides")
		return 2
	}

	selected, err := runner.Filter(scenarios.All(), *runPattern)
	if err != nil {
		common.GetLogger().Error().Err(err).Str("run", *runPattern).Msg("No scenarios to run")
		return 2
	}
	if *listOnly {
		for _, sc := range selected {
			fmt.Printf("%2d  %s\n", sc.Number, sc.Name)
		}
		return 0
	}

	logger := common.SetupLogger(config)
	common.InstallCrashHandler(config.Results.Dir)
	defer common.RecoverWithCrashFile()

	common.PrintBanner("TEXMAGE E2E", config, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *useStandIn {
		srv := standin.NewServer(standin.DefaultConfig(), logger)
		if _, err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("Failed to start stand-in frontend")
			return 2
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("Stand-in shutdown failed")
			}
		}()
		config.BaseURL = srv.URL()
	}

	checkFrontend(ctx, config, logger)

	acquire := func(ctx context.Context) (interfaces.Session, string, error) {
		return driver.Acquire(ctx, logger, driver.DefaultStrategies(config, logger)...)
	}

	summary := runner.New(config, logger, acquire).Run(ctx, selected)
	runner.PrintSummary(common.NewConsole(), summary)

	return runner.ExitCode(summary)
}

// checkFrontend warns early when the base URL does not serve the app; the run continues regardless
func checkFrontend(ctx context.Context, config *common.Config, logger arbor.ILogger) {
	res, err := preflight.Check(ctx, nil, config.BaseURL)
	if err != nil {
		logger.Warn().Err(err).Str("base_url", config.BaseURL).Msg("Frontend preflight failed, scenarios will likely fail")
		return
	}
	if !res.HasAppRoot {
		logger.Warn().Str("base_url", config.BaseURL).Str("title", res.Title).Msg("Base URL does not look like the Texmage client (no #root)")
		return
	}
	logger.Info().Str("base_url", config.BaseURL).Str("title", res.Title).Msg("Frontend reachable")
}
