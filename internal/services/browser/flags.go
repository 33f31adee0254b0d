package browser

import (
	"github.com/chromedp/chromedp"

	"github.com/khawajarafayy/Texmage/internal/common"
)

// Flag is one browser command-line switch. A false bool removes the switch.
type Flag struct {
	Name  string
	Value interface{}
}

// LaunchFlags returns the fixed switch set shared by every acquisition
// strategy, so launches are comparable no matter which binary is used.
func LaunchFlags(cfg *common.Config) []Flag {
	b := cfg.Browser
	flags := []Flag{
		{"headless", b.Headless},
		{"no-sandbox", b.NoSandbox},
		{"disable-dev-shm-usage", b.DisableDevShmUsage},
		{"disable-gpu", b.DisableGPU},
	}
	if b.HideAutomation {
		flags = append(flags, Flag{"disable-blink-features", "AutomationControlled"})
	}
	if b.ExcludeAutomationFlag {
		flags = append(flags, Flag{"enable-automation", false})
	}
	flags = append(flags, Flag{"disable-extensions", !b.AutomationExtension})
	return flags
}

// AllocatorOptions converts the launch configuration into chromedp allocator
// options. An empty execPath lets chromedp search the system for a browser.
func AllocatorOptions(cfg *common.Config, execPath string) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	for _, f := range LaunchFlags(cfg) {
		opts = append(opts, chromedp.Flag(f.Name, f.Value))
	}
	opts = append(opts, chromedp.WindowSize(cfg.Browser.WindowWidth, cfg.Browser.WindowHeight))
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	return opts
}
