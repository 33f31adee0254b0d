package scenarios

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/khawajarafayy/Texmage/internal/common"
	"github.com/khawajarafayy/Texmage/internal/interfaces"
	"github.com/khawajarafayy/Texmage/internal/models"
	"github.com/khawajarafayy/Texmage/internal/runner"
	"github.com/khawajarafayy/Texmage/internal/services/browser"
	"github.com/khawajarafayy/Texmage/internal/testutil"
)

// fakeApp models the anonymous Texmage client on top of a FakeSession
type fakeApp struct {
	base     string
	session  *testutil.FakeSession
	path     string
	modal    string
	loggedIn bool
	hideNav  bool
	noCross  bool
}

func newFakeApp(base string) *fakeApp {
	a := &fakeApp{base: base, session: testutil.NewFakeSession("about:blank")}
	a.session.OnNavigate = func(s *testutil.FakeSession, url string) {
		a.path = strings.TrimPrefix(url, a.base)
		a.modal = ""
		a.render()
	}
	a.session.OnClick = a.click
	a.session.OnEvaluate = func(expression string, res interface{}) error {
		if v, ok := res.(*bool); ok && strings.Contains(expression, "validity.valid") {
			*v = false
		}
		return nil
	}
	return a
}

func (a *fakeApp) visit(path string) {
	a.session.URL = a.base + path
	a.path = path
	a.modal = ""
	a.render()
}

func (a *fakeApp) render() {
	s := a.session
	s.Present = map[string]bool{}
	s.VisibleSet = map[string]bool{}

	s.Show(Logo...)
	if !a.hideNav {
		if a.loggedIn {
			s.Show(ProfileIcon[0])
		} else {
			s.Show(NavPricing[0], NavLogin[0])
		}
	}

	switch a.path {
	case "", PathHome:
		s.Show(HeroHeading[0], GenerateBtn[0], MagicHeader[0], Footer[0])
	case PathPricing:
		s.Show(PricingHeading[0], OurPlansBtn[0], PurchaseControls[0])
	}

	switch a.modal {
	case "login":
		s.Show(LoginHeading, EmailInput, PasswordInput, SignUpToggle[0], LoginSubmit[0])
	case "signup":
		s.Show(NameInput, EmailInput, PasswordInput, CreateAccount[0])
	}
	if a.modal != "" && !a.noCross {
		s.Show(DismissModal[0])
	}
}

func (a *fakeApp) click(s *testutil.FakeSession, loc models.Locator) {
	switch loc {
	case NavLogin[0]:
		a.modal = "login"
	case SignUpToggle[0]:
		a.modal = "signup"
	case DismissModal[0]:
		a.modal = ""
	case NavPricing[0]:
		a.visit(PathPricing)
		return
	case Logo[0]:
		a.visit(PathHome)
		return
	case GenerateBtn[0]:
		if !a.loggedIn {
			a.modal = "login"
		}
	}
	a.render()
}

func (a *fakeApp) run(t *testing.T, cfg *common.Config, scenarios []runner.Scenario) *models.Summary {
	t.Helper()
	cfg.BaseURL = a.base
	cfg.Waits.ImplicitSeconds = 0
	r := runner.New(cfg, arbor.NewLogger(), func(context.Context) (interfaces.Session, string, error) {
		return a.session, "fake", nil
	})
	r.Sleep = func(time.Duration) {}
	return r.Run(context.Background(), scenarios)
}

func only(t *testing.T, name string) []runner.Scenario {
	t.Helper()
	kept, err := runner.Filter(All(), "^"+name+"$")
	require.NoError(t, err)
	require.Len(t, kept, 1)
	return kept
}

func TestAll_NumberedInOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 12)

	names := map[string]bool{}
	for i, sc := range all {
		assert.Equal(t, i+1, sc.Number)
		assert.NotNil(t, sc.Run)
		assert.False(t, names[sc.Name], "duplicate scenario name %q", sc.Name)
		names[sc.Name] = true
	}
}

func TestAll_PassAgainstAnonymousApp(t *testing.T) {
	app := newFakeApp("http://texmage.test")
	summary := app.run(t, common.NewDefaultConfig(), All())

	for _, r := range summary.Results {
		assert.Equal(t, models.OutcomePass, r.Outcome, "%d %s: %s", r.Number, r.Name, r.Message)
	}
	assert.True(t, summary.OK())
	assert.Equal(t, 1, app.session.CloseCalls)

	signup := summary.Results[5]
	assert.Equal(t, "Successful signup", signup.Name)
	assert.Contains(t, signup.Notes, "signup form submitted, backend did not log the user in")

	protected := summary.Results[6]
	assert.Contains(t, protected.Notes, "result page requires authentication")

	generate := summary.Results[11]
	assert.Contains(t, generate.Notes, "login modal shown to unauthenticated user")
}

func TestSuccessfulSignup_StrictFailsWithoutLogin(t *testing.T) {
	app := newFakeApp("http://texmage.test")
	cfg := common.NewDefaultConfig()
	cfg.Scenarios.StrictSignup = true

	summary := app.run(t, cfg, only(t, "Successful signup"))

	assert.Equal(t, models.OutcomeFail, summary.Results[0].Outcome)
}

func TestSuccessfulSignup_TypesRandomIdentity(t *testing.T) {
	app := newFakeApp("http://texmage.test")
	app.run(t, common.NewDefaultConfig(), only(t, "Successful signup"))

	assert.Regexp(t, `^TestUser_[A-Za-z0-9]{6}$`, app.session.Typed[NameInput.String()])
	assert.Regexp(t, `^test_[a-z0-9]{8}@example\.com$`, app.session.Typed[EmailInput.String()])
	assert.Equal(t, "TestPassword123!", app.session.Typed[PasswordInput.String()])
}

func TestNavigateToPricing_DirectWhenLinkHidden(t *testing.T) {
	app := newFakeApp("http://texmage.test")
	app.hideNav = true

	summary := app.run(t, common.NewDefaultConfig(), only(t, "Navigate to pricing"))

	require.Len(t, summary.Results, 1)
	assert.Equal(t, models.OutcomePass, summary.Results[0].Outcome)
	assert.Contains(t, summary.Results[0].Notes, "Pricing link not visible, navigated directly")
	assert.Contains(t, app.session.Calls, "navigate http://texmage.test/pricing")
}

func TestLoginModalClose_EscapeWhenNoCloseControl(t *testing.T) {
	app := newFakeApp("http://texmage.test")
	app.noCross = true

	summary := app.run(t, common.NewDefaultConfig(), only(t, "Login modal close"))

	assert.Equal(t, models.OutcomePass, summary.Results[0].Outcome)
	assert.Equal(t, []string{browser.KeyEscape}, app.session.Keys)
	assert.Contains(t, summary.Results[0].Notes, "modal heading still visible after close, close control exercised")
}

func TestHomepageLoads_MissingHeroIsNotFound(t *testing.T) {
	app := newFakeApp("http://texmage.test")
	app.session.OnNavigate = func(s *testutil.FakeSession, url string) {
		app.path = PathHome
		app.render()
		s.Hide(HeroHeading...)
	}

	summary := app.run(t, common.NewDefaultConfig(), only(t, "Homepage loads"))

	assert.Equal(t, models.OutcomeNotFound, summary.Results[0].Outcome)
	assert.Contains(t, summary.Results[0].Message, "Turn text to")
}

func TestPricingPageElements_NoPlansFails(t *testing.T) {
	app := newFakeApp("http://texmage.test")
	app.session.OnNavigate = func(s *testutil.FakeSession, url string) {
		app.path = strings.TrimPrefix(url, app.base)
		app.render()
		s.Hide(PurchaseControls...)
	}

	summary := app.run(t, common.NewDefaultConfig(), only(t, "Pricing page elements"))

	assert.Equal(t, models.OutcomeFail, summary.Results[0].Outcome)
}
