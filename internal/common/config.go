package common

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// DefaultBaseURL is the Vite dev server address the Texmage client runs on
const DefaultBaseURL = "http://localhost:5173"

// Config represents the harness configuration. It is built once per run and
// passed explicitly to the acquisition procedure, the session and the runner.
type Config struct {
	BaseURL   string          `toml:"base_url" validate:"required,url"`
	Waits     WaitsConfig     `toml:"waits"`
	Browser   BrowserConfig   `toml:"browser"`
	Driver    DriverConfig    `toml:"driver"`
	Fixtures  FixturesConfig  `toml:"fixtures"`
	Scenarios ScenariosConfig `toml:"scenarios"`
	Logging   LoggingConfig   `toml:"logging"`
	Results   ResultsConfig   `toml:"results"`
}

// WaitsConfig holds the wait policy shared by every scenario
type WaitsConfig struct {
	ImplicitSeconds int    `toml:"implicit_seconds" validate:"gte=0"`    // Bound for element lookups
	ExplicitSeconds int    `toml:"explicit_seconds" validate:"gte=0"`    // Bound for condition waits
	PageLoadSeconds int    `toml:"page_load_seconds" validate:"gt=0"`    // Bound for navigation
	Settle          string `toml:"settle" validate:"required"`           // Delay after the per-scenario reset navigation
	Transition      string `toml:"transition" validate:"required"`       // Delay after clicks that trigger UI transitions
}

// BrowserConfig holds the fixed launch configuration used by every acquisition strategy
type BrowserConfig struct {
	Headless              bool `toml:"headless"`
	NoSandbox             bool `toml:"no_sandbox"`
	DisableDevShmUsage    bool `toml:"disable_dev_shm_usage"`
	DisableGPU            bool `toml:"disable_gpu"`
	WindowWidth           int  `toml:"window_width" validate:"gt=0"`
	WindowHeight          int  `toml:"window_height" validate:"gt=0"`
	HideAutomation        bool `toml:"hide_automation"`         // --disable-blink-features=AutomationControlled
	ExcludeAutomationFlag bool `toml:"exclude_automation_flag"` // Drop --enable-automation
	AutomationExtension   bool `toml:"automation_extension"`    // When false, extensions are disabled
}

// DriverConfig controls how the automation driver binary is located
type DriverConfig struct {
	BinaryName      string   `toml:"binary_name" validate:"required"`
	ManagedDownload bool     `toml:"managed_download"` // Allow the driver manager to download a browser build
	CacheDir        string   `toml:"cache_dir"`        // Driver manager cache, empty uses the manager default
	WellKnownPaths  []string `toml:"well_known_paths"`
	BrowserPaths    []string `toml:"browser_paths"`
}

// FixturesConfig holds the stable credentials used where random data is not wanted
type FixturesConfig struct {
	Email    string `toml:"email" validate:"required,email"`
	Password string `toml:"password" validate:"required"`
	Name     string `toml:"name" validate:"required"`
}

// ScenariosConfig tunes scenario leniency
type ScenariosConfig struct {
	StrictSignup bool `toml:"strict_signup"` // Fail the signup scenario when the backend does not log the user in
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output []string `toml:"output" validate:"dive,oneof=stdout console file"`
}

type ResultsConfig struct {
	Dir                 string `toml:"dir"`
	ScreenshotOnFailure bool   `toml:"screenshot_on_failure"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Waits: WaitsConfig{
			ImplicitSeconds: 10,
			ExplicitSeconds: 10,
			PageLoadSeconds: 30,
			Settle:          "2s",
			Transition:      "1s",
		},
		Browser: BrowserConfig{
			Headless:              true,
			NoSandbox:             true,
			DisableDevShmUsage:    true,
			DisableGPU:            true,
			WindowWidth:           1920,
			WindowHeight:          1080,
			HideAutomation:        true,
			ExcludeAutomationFlag: true,
			AutomationExtension:   false,
		},
		Driver: DriverConfig{
			BinaryName:      DefaultDriverBinaryName(runtime.GOOS),
			ManagedDownload: true,
			WellKnownPaths:  DefaultWellKnownPaths(runtime.GOOS),
			BrowserPaths:    DefaultBrowserPaths(runtime.GOOS),
		},
		Fixtures: FixturesConfig{
			Email:    "testuser@example.com",
			Password: "TestPassword123!",
			Name:     "Test User",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Results: ResultsConfig{
			Dir: "./results",
		},
	}
}

// DefaultDriverBinaryName returns the conventional driver executable name for goos
func DefaultDriverBinaryName(goos string) string {
	if goos == "windows" {
		return "chrome-headless-shell.exe"
	}
	return "chrome-headless-shell"
}

// DefaultWellKnownPaths lists the conventional driver locations, most specific first
func DefaultWellKnownPaths(goos string) []string {
	name := DefaultDriverBinaryName(goos)
	paths := []string{}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, name))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, name))
	}
	if goos == "windows" {
		return append(paths,
			`C:\chrome-headless-shell\`+name,
			`C:\Program Files\chrome-headless-shell\`+name,
		)
	}
	return append(paths,
		"/opt/chrome-headless-shell/"+name,
		"/usr/local/bin/"+name,
	)
}

// DefaultBrowserPaths lists the platform-conventional Chrome install locations
func DefaultBrowserPaths(goos string) []string {
	switch goos {
	case "windows":
		paths := []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, "AppData", "Local", "Google", "Chrome", "Application", "chrome.exe"))
		}
		return paths
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
}

// LoadFromFiles loads configuration with priority: default -> files -> env.
// {NAME} references in string values are resolved from the environment.
// Later files override earlier ones. CLI overrides are applied by the caller.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := ReplaceInStruct(config, EnvMap(), GetLogger()); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	// Base URL (highest priority: BASE_URL, fallback: APP_URL)
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	} else if appURL := os.Getenv("APP_URL"); appURL != "" {
		config.BaseURL = appURL
	}

	if level := os.Getenv("TEXMAGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}
	if output := os.Getenv("TEXMAGE_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if dir := os.Getenv("TEXMAGE_RESULTS_DIR"); dir != "" {
		config.Results.Dir = dir
	}

	if managed := os.Getenv("TEXMAGE_MANAGED_DOWNLOAD"); managed != "" {
		if m, err := strconv.ParseBool(managed); err == nil {
			config.Driver.ManagedDownload = m
		}
	}
	if cacheDir := os.Getenv("TEXMAGE_DRIVER_CACHE_DIR"); cacheDir != "" {
		config.Driver.CacheDir = cacheDir
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, baseURL string, headed bool) {
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if headed {
		config.Browser.Headless = false
	}
}

// Validate checks struct constraints and that the delay strings parse
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.ParseDuration(c.Waits.Settle); err != nil {
		return fmt.Errorf("invalid waits.settle %q: %w", c.Waits.Settle, err)
	}
	if _, err := time.ParseDuration(c.Waits.Transition); err != nil {
		return fmt.Errorf("invalid waits.transition %q: %w", c.Waits.Transition, err)
	}
	return nil
}

// ImplicitWait bounds every element lookup
func (c *Config) ImplicitWait() time.Duration {
	return time.Duration(c.Waits.ImplicitSeconds) * time.Second
}

// ExplicitWait bounds condition waits such as invisibility
func (c *Config) ExplicitWait() time.Duration {
	return time.Duration(c.Waits.ExplicitSeconds) * time.Second
}

// PageLoadTimeout bounds navigation and the browser startup probe
func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.Waits.PageLoadSeconds) * time.Second
}

// SettleDelay is the fixed pause after the per-scenario reset navigation.
// Validate guarantees the value parses.
func (c *Config) SettleDelay() time.Duration {
	d, _ := time.ParseDuration(c.Waits.Settle)
	return d
}

// TransitionDelay is the fixed pause after clicks that open or close UI
func (c *Config) TransitionDelay() time.Duration {
	d, _ := time.ParseDuration(c.Waits.Transition)
	return d
}

// URL joins path onto the base URL
func (c *Config) URL(path string) string {
	if path == "" || path == "/" {
		return c.BaseURL
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
