// Package probe inspects the local automation toolchain and reports what is
// present. Missing components are findings, not errors.
package probe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/models"
	"github.com/khawajarafayy/Texmage/internal/services/driver"
)

// Probe names, in report order
const (
	NameBrowser       = "Browser"
	NameAutomationLib = "Automation library"
	NameDriverManager = "Driver manager"
	NameDriverPath    = "Driver in PATH"
	NameDriverLocal   = "Driver local"
	NameDriverLaunch  = "Driver launch"
)

// Module paths looked up in the binary's build info
const (
	AutomationModule    = "github.com/chromedp/chromedp"
	DriverManagerModule = "github.com/go-rod/rod"
)

// Prober runs the environment checks. Every OS and network touchpoint is a
// field so the checks can run against a fabricated environment.
type Prober struct {
	cfg     *common.Config
	logger  arbor.ILogger
	console *common.Console

	stat         func(string) (os.FileInfo, error)
	lookPath     func(string) (string, error)
	lookBrowser  func() (string, bool)
	buildInfo    func() (*debug.BuildInfo, bool)
	fetchManaged driver.FetchFunc
	cachedPath   func() string
	localDirs    func() []string
	strategies   func() []interfaces.Strategy
}

// NewProber wires the prober to the real environment
func NewProber(cfg *common.Config, logger arbor.ILogger, console *common.Console) *Prober {
	return &Prober{
		cfg:          cfg,
		logger:       logger,
		console:      console,
		stat:         os.Stat,
		lookPath:     exec.LookPath,
		lookBrowser:  launcher.LookPath,
		buildInfo:    debug.ReadBuildInfo,
		fetchManaged: driver.ManagedFetcher(cfg, logger),
		cachedPath:   func() string { return driver.ManagedCachedPath(cfg) },
		localDirs:    defaultLocalDirs,
		strategies: func() []interfaces.Strategy {
			// Launch check uses system path then managed download only
			return driver.DefaultStrategies(cfg, logger)[:2]
		},
	}
}

func defaultLocalDirs() []string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		if len(dirs) == 0 || dirs[0] != dir {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// RunAll executes every probe in order and returns the report
func (p *Prober) RunAll(ctx context.Context) *models.ProbeReport {
	p.console.Section("Browser Toolchain Diagnostic")

	report := &models.ProbeReport{}
	report.Add(p.CheckBrowser())
	report.Add(p.CheckAutomationLibrary())
	report.Add(p.CheckDriverManager(ctx))
	report.Add(p.CheckDriverInPath())
	report.Add(p.CheckDriverLocal())

	browserRes, _ := report.Get(NameBrowser)
	libRes, _ := report.Get(NameAutomationLib)
	if browserRes.OK && libRes.OK {
		report.Add(p.CheckDriverLaunch(ctx))
	} else {
		report.Add(models.ProbeResult{Name: NameDriverLaunch, Detail: "not attempted: browser or automation library missing"})
	}

	for _, r := range report.Results {
		p.logger.Debug().Str("probe", r.Name).Bool("ok", r.OK).Str("detail", r.Detail).Msg("Probe finished")
	}
	return report
}

func (p *Prober) isFile(path string) (os.FileInfo, bool) {
	info, err := p.stat(path)
	if err != nil || info.IsDir() {
		return nil, false
	}
	return info, true
}

// CheckBrowser looks for Chrome in the platform-conventional locations, then
// asks the driver manager's browser search as a last resort
func (p *Prober) CheckBrowser() models.ProbeResult {
	p.console.Section("Checking Chrome browser...")

	for _, path := range p.cfg.Driver.BrowserPaths {
		if _, ok := p.isFile(path); ok {
			p.console.Check(true, "Chrome found at: %s", path)
			return models.ProbeResult{Name: NameBrowser, OK: true, Detail: path}
		}
	}
	if path, ok := p.lookBrowser(); ok {
		p.console.Check(true, "Browser found by search: %s", path)
		return models.ProbeResult{Name: NameBrowser, OK: true, Detail: path}
	}

	p.console.Check(false, "Chrome not found in common locations")
	p.console.Hint("Please ensure Chrome is installed")
	return models.ProbeResult{Name: NameBrowser, Detail: "not found"}
}

func moduleVersion(info *debug.BuildInfo, path string) (string, bool) {
	if info == nil {
		return "", false
	}
	for _, dep := range info.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version, true
		}
		return dep.Version, true
	}
	if info.Main.Path == path {
		return info.Main.Version, true
	}
	return "", false
}

func (p *Prober) linkedVersion(path string) (string, bool) {
	info, ok := p.buildInfo()
	if !ok {
		return "", false
	}
	return moduleVersion(info, path)
}

// CheckAutomationLibrary reports the automation library linked into this binary
func (p *Prober) CheckAutomationLibrary() models.ProbeResult {
	p.console.Section("Checking automation library...")

	version, ok := p.linkedVersion(AutomationModule)
	if !ok {
		p.console.Check(false, "%s not linked into this binary", AutomationModule)
		p.console.Hint("Run: go mod download && go build ./...")
		return models.ProbeResult{Name: NameAutomationLib, Detail: "not linked"}
	}
	p.console.Check(true, "chromedp linked: version %s", version)
	return models.ProbeResult{Name: NameAutomationLib, OK: true, Detail: version}
}

// CheckDriverManager confirms the driver manager is linked and can produce an
// existing, non-empty binary. With downloads disabled only the cache is inspected.
func (p *Prober) CheckDriverManager(ctx context.Context) models.ProbeResult {
	p.console.Section("Checking driver manager...")

	version, ok := p.linkedVersion(DriverManagerModule)
	if !ok {
		p.console.Check(false, "%s not linked into this binary", DriverManagerModule)
		return models.ProbeResult{Name: NameDriverManager, Detail: "not linked"}
	}
	p.console.Check(true, "go-rod launcher linked: version %s", version)

	var path string
	if p.cfg.Driver.ManagedDownload {
		fetched, err := p.fetchManaged(ctx)
		if err != nil {
			p.console.Check(false, "Error getting driver: %v", err)
			return models.ProbeResult{Name: NameDriverManager, Detail: err.Error()}
		}
		path = fetched
	} else {
		path = p.cachedPath()
		p.console.Hint("Downloads disabled, checking cache only")
	}

	p.console.Check(true, "Driver path from driver manager: %s", path)
	info, exists := p.isFile(path)
	if !exists {
		p.console.Hint("File exists: ✗")
		return models.ProbeResult{Name: NameDriverManager, Detail: "missing file " + path}
	}
	if info.Size() == 0 {
		p.console.Hint("File exists: ✓ but is empty")
		return models.ProbeResult{Name: NameDriverManager, Detail: "empty file " + path}
	}
	p.console.Hint("File exists: ✓")
	p.console.Hint("File size: %d bytes", info.Size())
	return models.ProbeResult{Name: NameDriverManager, OK: true, Detail: fmt.Sprintf("%s (%d bytes)", path, info.Size())}
}

// CheckDriverInPath searches the OS search path for the driver binary
func (p *Prober) CheckDriverInPath() models.ProbeResult {
	p.console.Section("Checking driver in PATH...")

	path, err := p.lookPath(p.cfg.Driver.BinaryName)
	if err != nil {
		p.console.Check(false, "%s not found in PATH", p.cfg.Driver.BinaryName)
		return models.ProbeResult{Name: NameDriverPath, Detail: "not found"}
	}
	p.console.Check(true, "Driver found in PATH: %s", path)
	return models.ProbeResult{Name: NameDriverPath, OK: true, Detail: path}
}

// CheckDriverLocal looks for the driver binary in the working directory and next to this executable
func (p *Prober) CheckDriverLocal() models.ProbeResult {
	p.console.Section("Checking driver in local directory...")

	for _, dir := range p.localDirs() {
		path := filepath.Join(dir, p.cfg.Driver.BinaryName)
		if _, ok := p.isFile(path); ok {
			p.console.Check(true, "Driver found locally: %s", path)
			return models.ProbeResult{Name: NameDriverLocal, OK: true, Detail: path}
		}
	}
	p.console.Check(false, "%s not found in local directories", p.cfg.Driver.BinaryName)
	return models.ProbeResult{Name: NameDriverLocal, Detail: "not found"}
}

// CheckDriverLaunch starts a real session with the first acquisition
// strategies and closes it immediately
func (p *Prober) CheckDriverLaunch(ctx context.Context) models.ProbeResult {
	p.console.Section("Testing driver launch...")

	session, name, err := driver.Acquire(ctx, p.logger, p.strategies()...)
	if err != nil {
		p.console.Check(false, "Driver launch failed")
		p.console.Hint("%v", err)
		return models.ProbeResult{Name: NameDriverLaunch, Detail: err.Error()}
	}
	if closeErr := session.Close(); closeErr != nil {
		p.logger.Warn().Err(closeErr).Msg("Closing probe session failed")
	}

	p.console.Check(true, "Driver works! (using %s)", name)
	return models.ProbeResult{Name: NameDriverLaunch, OK: true, Detail: name}
}

// PrintSummary writes the per-probe table and the overall verdict
func (p *Prober) PrintSummary(report *models.ProbeReport) {
	p.console.Section("SUMMARY")
	for _, r := range report.Results {
		p.console.Println("%-30s %s", r.Name, p.console.Status(r.OK))
	}

	p.console.Println("")
	if report.AllPassed() {
		p.console.Check(true, "All checks passed! You can run the test suite.")
		return
	}
	p.console.Check(false, "Some checks failed. Please fix the issues above.")
}
