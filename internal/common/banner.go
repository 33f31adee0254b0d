package common

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the tool banner and logs the resolved run settings
func PrintBanner(name string, config *Config, logger arbor.ILogger) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(80)

	b.PrintTopLine()
	b.PrintCenteredText(name)
	b.PrintCenteredText(fmt.Sprintf("Version %s", GetVersion()))
	b.PrintSeparatorLine()
	b.PrintKeyValue("Base URL", config.BaseURL, 15)
	b.PrintKeyValue("Headless", fmt.Sprintf("%t", config.Browser.Headless), 15)
	b.PrintKeyValue("Log outputs", strings.Join(config.Logging.Output, ", "), 15)
	b.PrintBottomLine()
	fmt.Println()

	logger.Info().
		Str("base_url", config.BaseURL).
		Bool("headless", config.Browser.Headless).
		Int("implicit_wait_s", config.Waits.ImplicitSeconds).
		Int("explicit_wait_s", config.Waits.ExplicitSeconds).
		Int("page_load_s", config.Waits.PageLoadSeconds).
		Msg("Configuration loaded")
}
