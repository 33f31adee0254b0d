package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocatorSelector(t *testing.T) {
	tests := []struct {
		name string
		loc  Locator
		want string
	}{
		{"css", CSS("img[alt*='Logo']"), "img[alt*='Logo']"},
		{"xpath", XPath("//img[@width='150']"), "//img[@width='150']"},
		{"text", Text("h1", "Turn text to"), "//h1[contains(text(), 'Turn text to')]"},
		{"text any tag", Text("", "Pricing"), "//*[contains(text(), 'Pricing')]"},
		{"text with apostrophe", Text("p", "Don't have an account?"), `//p[contains(text(), "Don't have an account?")]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.loc.Selector())
		})
	}
}

func TestXPathLiteral_BothQuotes(t *testing.T) {
	got := xpathLiteral(`say "it's" ok`)
	assert.Equal(t, `concat('say "it', "'", 's" ok')`, got)
}

func TestLocatorJSElement(t *testing.T) {
	assert.Equal(t, `document.querySelector("input[type='email']")`, CSS("input[type='email']").JSElement())
	assert.Equal(t,
		`document.evaluate("//button[contains(text(), 'Login')]", document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
		Text("button", "Login").JSElement())
}

func TestSummaryAdd(t *testing.T) {
	var s Summary
	s.Add(ScenarioResult{Number: 1, Outcome: OutcomePass})
	s.Add(ScenarioResult{Number: 2, Outcome: OutcomeFail})
	s.Add(ScenarioResult{Number: 3, Outcome: OutcomeNotFound})
	s.Add(ScenarioResult{Number: 4, Outcome: OutcomeError})

	assert.Equal(t, 4, s.Run)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.NotFound)
	assert.Equal(t, 1, s.Errored)
	assert.False(t, s.OK())
}

func TestProbeReportExitCode(t *testing.T) {
	var r ProbeReport
	assert.Equal(t, 1, r.ExitCode(), "an empty report is not a pass")

	r.Add(ProbeResult{Name: "Browser", OK: true})
	assert.Equal(t, 0, r.ExitCode())

	r.Add(ProbeResult{Name: "Driver in PATH", OK: false})
	assert.Equal(t, 1, r.ExitCode())

	got, ok := r.Get("Driver in PATH")
	assert.True(t, ok)
	assert.False(t, got.OK)
}
