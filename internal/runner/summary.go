package runner

import (
	"fmt"
	"time"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/models"
)

// ExitCode maps a run onto the process exit status: 2 when setup failed,
// 1 when any scenario did not pass, 0 otherwise
func ExitCode(summary *models.Summary) int {
	switch {
	case summary.SetupError != nil:
		return 2
	case !summary.OK():
		return 1
	default:
		return 0
	}
}

// PrintSummary writes the per-scenario lines and totals
func PrintSummary(console *common.Console, summary *models.Summary) {
	console.Section(fmt.Sprintf("Texmage E2E Results (%s)", summary.RunID))

	if summary.SetupError != nil {
		console.Check(false, "Setup failed, no scenarios were run")
		console.Println("%v", summary.SetupError)
		return
	}

	for _, r := range summary.Results {
		console.Println("%2d. %-32s %s  (%s)", r.Number, r.Name, console.Label(r.Passed(), string(r.Outcome)), r.Duration.Round(time.Millisecond))
		if r.Message != "" {
			console.Hint("%s", r.Message)
		}
		for _, n := range r.Notes {
			console.Hint("note: %s", n)
		}
		if r.Screenshot != "" {
			console.Hint("screenshot: %s", r.Screenshot)
		}
	}

	console.Println("")
	console.Println("Run: %d  Passed: %d  Failed: %d  Not found: %d  Errored: %d  (%s)",
		summary.Run, summary.Passed, summary.Failed, summary.NotFound, summary.Errored, summary.Duration.Round(time.Millisecond))
	console.Check(summary.OK(), "%s", overall(summary))
}

func overall(summary *models.Summary) string {
	if summary.OK() {
		return "All scenarios passed"
	}
	return fmt.Sprintf("%d of %d scenarios did not pass", summary.Run-summary.Passed, summary.Run)
}
