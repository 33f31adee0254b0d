package probe

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/testutil"
)

type fixture struct {
	dir    string
	out    *bytes.Buffer
	cfg    *common.Config
	prober *Prober
	fake   *testutil.FakeStrategy
}

func linked(paths ...string) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		info := &debug.BuildInfo{}
		for _, p := range paths {
			info.Deps = append(info.Deps, &debug.Module{Path: p, Version: "v0.0.1"})
		}
		return info, true
	}
}

// newFixture builds a prober over an empty temp directory: nothing installed,
// nothing on PATH, both modules linked
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	out := &bytes.Buffer{}

	cfg := common.NewDefaultConfig()
	cfg.Driver.BrowserPaths = []string{filepath.Join(dir, "chrome")}
	cfg.Driver.BinaryName = "chrome-headless-shell"

	fake := &testutil.FakeStrategy{StrategyName: "system path", Session: testutil.NewFakeSession("about:blank")}

	p := NewProber(cfg, arbor.NewLogger(), common.NewConsoleWithOutput(out))
	p.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	p.lookBrowser = func() (string, bool) { return "", false }
	p.buildInfo = linked(AutomationModule, DriverManagerModule)
	p.fetchManaged = func(context.Context) (string, error) { return "", errors.New("offline") }
	p.cachedPath = func() string { return filepath.Join(dir, "cache", "chrome") }
	p.localDirs = func() []string { return []string{dir} }
	p.strategies = func() []interfaces.Strategy { return []interfaces.Strategy{fake} }

	return &fixture{dir: dir, out: out, cfg: cfg, prober: p, fake: fake}
}

func (f *fixture) touch(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0755))
	return path
}

func TestCheckBrowser(t *testing.T) {
	f := newFixture(t)

	res := f.prober.CheckBrowser()
	assert.False(t, res.OK)
	assert.Contains(t, f.out.String(), "Chrome not found")

	path := f.touch(t, "chrome", 1)
	res = f.prober.CheckBrowser()
	assert.True(t, res.OK)
	assert.Equal(t, path, res.Detail)
}

func TestCheckBrowser_FallsBackToSearch(t *testing.T) {
	f := newFixture(t)
	f.prober.lookBrowser = func() (string, bool) { return "/usr/bin/chromium", true }

	res := f.prober.CheckBrowser()
	assert.True(t, res.OK)
	assert.Equal(t, "/usr/bin/chromium", res.Detail)
}

func TestCheckAutomationLibrary(t *testing.T) {
	f := newFixture(t)

	res := f.prober.CheckAutomationLibrary()
	assert.True(t, res.OK)
	assert.Equal(t, "v0.0.1", res.Detail)

	f.prober.buildInfo = linked()
	res = f.prober.CheckAutomationLibrary()
	assert.False(t, res.OK)
	assert.Equal(t, "not linked", res.Detail)
}

func TestCheckDriverManager(t *testing.T) {
	t.Run("not linked", func(t *testing.T) {
		f := newFixture(t)
		f.prober.buildInfo = linked(AutomationModule)
		assert.False(t, f.prober.CheckDriverManager(context.Background()).OK)
	})

	t.Run("fetch error", func(t *testing.T) {
		f := newFixture(t)
		res := f.prober.CheckDriverManager(context.Background())
		assert.False(t, res.OK)
		assert.Contains(t, res.Detail, "offline")
	})

	t.Run("fetched file missing", func(t *testing.T) {
		f := newFixture(t)
		f.prober.fetchManaged = func(context.Context) (string, error) { return filepath.Join(f.dir, "gone"), nil }
		res := f.prober.CheckDriverManager(context.Background())
		assert.False(t, res.OK)
		assert.Contains(t, f.out.String(), "File exists: ✗")
	})

	t.Run("fetched file empty", func(t *testing.T) {
		f := newFixture(t)
		path := f.touch(t, "empty", 0)
		f.prober.fetchManaged = func(context.Context) (string, error) { return path, nil }
		assert.False(t, f.prober.CheckDriverManager(context.Background()).OK)
	})

	t.Run("fetched file reports size", func(t *testing.T) {
		f := newFixture(t)
		path := f.touch(t, "driver", 42)
		f.prober.fetchManaged = func(context.Context) (string, error) { return path, nil }
		res := f.prober.CheckDriverManager(context.Background())
		assert.True(t, res.OK)
		assert.Contains(t, f.out.String(), "File size: 42 bytes")
	})

	t.Run("downloads disabled inspects cache", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Driver.ManagedDownload = false
		f.prober.fetchManaged = func(context.Context) (string, error) {
			t.Fatal("must not download when disabled")
			return "", nil
		}
		f.touch(t, filepath.Join("cache", "chrome"), 7)
		assert.True(t, f.prober.CheckDriverManager(context.Background()).OK)
	})
}

func TestCheckDriverInPath(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.prober.CheckDriverInPath().OK)

	f.prober.lookPath = func(name string) (string, error) { return "/usr/local/bin/" + name, nil }
	res := f.prober.CheckDriverInPath()
	assert.True(t, res.OK)
	assert.Equal(t, "/usr/local/bin/chrome-headless-shell", res.Detail)
}

func TestCheckDriverLocal(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.prober.CheckDriverLocal().OK)

	path := f.touch(t, "chrome-headless-shell", 1)
	res := f.prober.CheckDriverLocal()
	assert.True(t, res.OK)
	assert.Equal(t, path, res.Detail)
}

func TestRunAll_NothingInstalled(t *testing.T) {
	f := newFixture(t)

	report := f.prober.RunAll(context.Background())

	require.Len(t, report.Results, 6)
	names := []string{NameBrowser, NameAutomationLib, NameDriverManager, NameDriverPath, NameDriverLocal, NameDriverLaunch}
	for i, name := range names {
		assert.Equal(t, name, report.Results[i].Name)
	}
	assert.Equal(t, 1, report.ExitCode())

	launch, _ := report.Get(NameDriverLaunch)
	assert.False(t, launch.OK)
	assert.Equal(t, 0, f.fake.Launches, "launch is not attempted without a browser")
}

func TestRunAll_EverythingPresent(t *testing.T) {
	f := newFixture(t)
	f.touch(t, "chrome", 1)
	driverPath := f.touch(t, "chrome-headless-shell", 10)
	f.prober.lookPath = func(string) (string, error) { return driverPath, nil }
	f.prober.fetchManaged = func(context.Context) (string, error) { return driverPath, nil }

	report := f.prober.RunAll(context.Background())
	f.prober.PrintSummary(report)

	assert.True(t, report.AllPassed())
	assert.Equal(t, 0, report.ExitCode())
	assert.Equal(t, 1, f.fake.Launches)

	session := f.fake.Session.(*testutil.FakeSession)
	assert.Equal(t, 1, session.CloseCalls, "probe session is closed immediately")
	assert.Contains(t, f.out.String(), "All checks passed")
}
