package driver

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/services/browser"
)

// LaunchFunc starts a session from an executable path; "" means the system default
type LaunchFunc func(ctx context.Context, cfg *common.Config, execPath string, logger arbor.ILogger) (interfaces.Session, error)

// LaunchBrowser is the LaunchFunc backed by chromedp
func LaunchBrowser(ctx context.Context, cfg *common.Config, execPath string, logger arbor.ILogger) (interfaces.Session, error) {
	s, err := browser.Launch(ctx, cfg, execPath, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultStrategies returns the fixed strategy order: system path, managed
// download, well-known locations
func DefaultStrategies(cfg *common.Config, logger arbor.ILogger) []interfaces.Strategy {
	return []interfaces.Strategy{
		NewSystemPathStrategy(cfg, logger),
		NewManagedDownloadStrategy(cfg, logger),
		NewWellKnownStrategy(cfg, logger),
	}
}

// SystemPathStrategy launches the driver binary found on the OS search path.
// When the configured binary name is not on PATH, chromedp's own browser
// search is used.
type SystemPathStrategy struct {
	cfg      *common.Config
	logger   arbor.ILogger
	lookPath func(string) (string, error)
	launch   LaunchFunc
}

func NewSystemPathStrategy(cfg *common.Config, logger arbor.ILogger) *SystemPathStrategy {
	return &SystemPathStrategy{cfg: cfg, logger: logger, lookPath: exec.LookPath, launch: LaunchBrowser}
}

func (s *SystemPathStrategy) Name() string { return "system path" }

func (s *SystemPathStrategy) Available() (bool, string) { return true, "" }

func (s *SystemPathStrategy) Launch(ctx context.Context) (interfaces.Session, error) {
	execPath, err := s.lookPath(s.cfg.Driver.BinaryName)
	if err != nil {
		s.logger.Debug().Str("binary", s.cfg.Driver.BinaryName).Msg("Driver binary not on PATH, using default browser search")
		execPath = ""
	}
	return s.launch(ctx, s.cfg, execPath, s.logger)
}

// FetchFunc asks a driver manager for a local executable path
type FetchFunc func(ctx context.Context) (string, error)

// ManagedDownloadStrategy asks go-rod's browser manager to resolve, and if
// needed download, a compatible browser build into its cache
type ManagedDownloadStrategy struct {
	cfg    *common.Config
	logger arbor.ILogger
	goos   string
	exists func(string) bool
	fetch  FetchFunc
	launch LaunchFunc
}

func NewManagedDownloadStrategy(cfg *common.Config, logger arbor.ILogger) *ManagedDownloadStrategy {
	return &ManagedDownloadStrategy{
		cfg:    cfg,
		logger: logger,
		goos:   runtime.GOOS,
		exists: fileExists,
		fetch:  ManagedFetcher(cfg, logger),
		launch: LaunchBrowser,
	}
}

func (s *ManagedDownloadStrategy) Name() string { return "managed download" }

func (s *ManagedDownloadStrategy) Available() (bool, string) {
	if !s.cfg.Driver.ManagedDownload {
		return false, "driver.managed_download is disabled"
	}
	return true, ""
}

func (s *ManagedDownloadStrategy) Launch(ctx context.Context) (interfaces.Session, error) {
	path, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("driver manager could not provide a binary: %w", err)
	}

	corrected, err := CorrectDriverPath(path, managedExeName, s.goos, s.exists)
	if err != nil {
		return nil, err
	}
	if corrected != path {
		s.logger.Info().Str("reported", path).Str("corrected", corrected).Msg("Corrected driver manager path")
	}
	return s.launch(ctx, s.cfg, corrected, s.logger)
}

// managedExeName is the executable name inside go-rod's Windows download
const managedExeName = "chrome.exe"

// rodLogger routes launcher download progress into arbor
type rodLogger struct {
	logger arbor.ILogger
}

func (l rodLogger) Println(vs ...interface{}) {
	l.logger.Debug().Str("source", "driver-manager").Msg(fmt.Sprint(vs...))
}

// ManagedFetcher returns a FetchFunc backed by go-rod's launcher browser
// manager, using driver.cache_dir when set
func ManagedFetcher(cfg *common.Config, logger arbor.ILogger) FetchFunc {
	return func(ctx context.Context) (string, error) {
		b := launcher.NewBrowser()
		b.Context = ctx
		b.Logger = rodLogger{logger: logger}
		if cfg.Driver.CacheDir != "" {
			b.RootDir = cfg.Driver.CacheDir
		}
		return b.Get()
	}
}

// WellKnownStrategy tries each conventional driver location that exists on disk
type WellKnownStrategy struct {
	cfg    *common.Config
	logger arbor.ILogger
	exists func(string) bool
	launch LaunchFunc
}

func NewWellKnownStrategy(cfg *common.Config, logger arbor.ILogger) *WellKnownStrategy {
	return &WellKnownStrategy{cfg: cfg, logger: logger, exists: fileExists, launch: LaunchBrowser}
}

func (s *WellKnownStrategy) Name() string { return "well-known location" }

func (s *WellKnownStrategy) existing() []string {
	var found []string
	for _, p := range s.cfg.Driver.WellKnownPaths {
		if s.exists(p) {
			found = append(found, p)
		}
	}
	return found
}

func (s *WellKnownStrategy) Available() (bool, string) {
	if len(s.existing()) == 0 {
		return false, fmt.Sprintf("none of %d well-known paths exist", len(s.cfg.Driver.WellKnownPaths))
	}
	return true, ""
}

// Launch tries existing paths in order, continuing past failed launches
func (s *WellKnownStrategy) Launch(ctx context.Context) (interfaces.Session, error) {
	var lastErr error
	for _, p := range s.existing() {
		session, err := s.launch(ctx, s.cfg, p, s.logger)
		if err == nil {
			s.logger.Info().Str("path", p).Msg("Launched driver from well-known location")
			return session, nil
		}
		if session != nil {
			_ = session.Close()
		}
		s.logger.Warn().Err(err).Str("path", p).Msg("Well-known driver failed to launch")
		lastErr = err
	}
	if lastErr == nil {
		return nil, fmt.Errorf("no well-known driver path exists")
	}
	return nil, fmt.Errorf("every well-known driver path failed, last error: %w", lastErr)
}

// ManagedCachedPath returns where the driver manager keeps its browser build,
// without downloading anything
func ManagedCachedPath(cfg *common.Config) string {
	b := launcher.NewBrowser()
	if cfg.Driver.CacheDir != "" {
		b.RootDir = cfg.Driver.CacheDir
	}
	return b.BinPath()
}
