// Package scenarios holds the numbered end-to-end checks run against the
// Texmage frontend.
package scenarios

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/khawajarafayy/Texmage/internal/fixtures"
	"github.com/khawajarafayy/Texmage/internal/locator"
	"github.com/khawajarafayy/Texmage/internal/models"
	"github.com/khawajarafayy/Texmage/internal/runner"
	"github.com/khawajarafayy/Texmage/internal/services/browser"
)

// Fixed waits for backend round trips, which have no observable completion signal in the UI
const (
	loginResponseDelay  = 3 * time.Second
	signupResponseDelay = 4 * time.Second
)

// All returns every scenario in execution order
func All() []runner.Scenario {
	return []runner.Scenario{
		{Number: 1, Name: "Homepage loads", Run: HomepageLoads},
		{Number: 2, Name: "Navigate to pricing", Run: NavigateToPricing},
		{Number: 3, Name: "Login modal opens", Run: LoginModalOpens},
		{Number: 4, Name: "Signup form validation", Run: SignupFormValidation},
		{Number: 5, Name: "Login with invalid credentials", Run: LoginInvalidCredentials},
		{Number: 6, Name: "Successful signup", Run: SuccessfulSignup},
		{Number: 7, Name: "Protected route without auth", Run: ProtectedRouteWithoutAuth},
		{Number: 8, Name: "Homepage elements", Run: HomepageElements},
		{Number: 9, Name: "Pricing page elements", Run: PricingPageElements},
		{Number: 10, Name: "Logo navigation", Run: LogoNavigation},
		{Number: 11, Name: "Login modal close", Run: LoginModalClose},
		{Number: 12, Name: "Generate button", Run: GenerateButton},
	}
}

func urlContains(ctx context.Context, env *runner.Env, fragment string) (string, bool, error) {
	url, err := env.CurrentURL(ctx)
	if err != nil {
		return "", false, err
	}
	return url, strings.Contains(url, fragment), nil
}

func findAll(ctx context.Context, env *runner.Env, targets ...[]models.Locator) error {
	for _, candidates := range targets {
		if _, err := env.Find(ctx, candidates...); err != nil {
			return err
		}
	}
	return nil
}

func typeInto(ctx context.Context, env *runner.Env, loc models.Locator, text string) error {
	if _, err := env.Find(ctx, loc); err != nil {
		return err
	}
	return env.Type(ctx, loc, text)
}

func openLoginModal(ctx context.Context, env *runner.Env) error {
	if _, err := env.FindAndClick(ctx, NavLogin...); err != nil {
		return err
	}
	env.Transition()
	return nil
}

func openSignupForm(ctx context.Context, env *runner.Env) error {
	if err := openLoginModal(ctx, env); err != nil {
		return err
	}
	if _, err := env.FindAndClick(ctx, SignUpToggle...); err != nil {
		return err
	}
	env.Transition()
	return nil
}

// HomepageLoads checks the logo, hero heading and call to action
func HomepageLoads(ctx context.Context, env *runner.Env) error {
	return findAll(ctx, env, Logo, HeroHeading, GenerateBtn)
}

// NavigateToPricing follows the navbar link, or goes to the route directly
// when the link is hidden (a logged-in navbar has no Pricing entry)
func NavigateToPricing(ctx context.Context, env *runner.Env) error {
	link, err := env.Find(ctx, NavPricing...)
	switch {
	case errors.Is(err, locator.ErrNotFound):
		env.Note("Pricing link not visible, navigated directly")
		if err := env.Goto(ctx, PathPricing); err != nil {
			return err
		}
		env.Settle()
	case err != nil:
		return err
	default:
		if err := env.Click(ctx, link); err != nil {
			return err
		}
		env.Settle()

		url, ok, err := urlContains(ctx, env, "pricing")
		if err != nil {
			return err
		}
		if !ok {
			return runner.Failf("expected pricing page, current URL is %s", url)
		}
	}

	_, err = env.Find(ctx, PricingHeading...)
	return err
}

// LoginModalOpens checks the modal heading and both credential inputs
func LoginModalOpens(ctx context.Context, env *runner.Env) error {
	if err := openLoginModal(ctx, env); err != nil {
		return err
	}
	return findAll(ctx, env, []models.Locator{LoginHeading}, []models.Locator{EmailInput}, []models.Locator{PasswordInput})
}

// SignupFormValidation submits the empty signup form and expects the browser
// to flag the email input as invalid
func SignupFormValidation(ctx context.Context, env *runner.Env) error {
	if err := openSignupForm(ctx, env); err != nil {
		return err
	}
	if _, err := env.FindAndClick(ctx, CreateAccount...); err != nil {
		return err
	}
	env.Transition()

	if _, err := env.Find(ctx, EmailInput); err != nil {
		return err
	}
	var valid bool
	if err := env.Eval(ctx, fmt.Sprintf("%s.validity.valid", EmailInput.JSElement()), &valid); err != nil {
		return err
	}
	if valid {
		return runner.Failf("empty email input reported valid, form validation did not block submission")
	}
	return nil
}

// LoginInvalidCredentials submits unknown credentials and expects to stay
// off the protected page
func LoginInvalidCredentials(ctx context.Context, env *runner.Env) error {
	if err := openLoginModal(ctx, env); err != nil {
		return err
	}
	if err := typeInto(ctx, env, EmailInput, "invalid@example.com"); err != nil {
		return err
	}
	if err := typeInto(ctx, env, PasswordInput, "wrongpassword"); err != nil {
		return err
	}
	if _, err := env.FindAndClick(ctx, LoginSubmit...); err != nil {
		return err
	}
	env.Pause(loginResponseDelay)

	url, onResult, err := urlContains(ctx, env, PathResult)
	if err != nil {
		return err
	}
	if onResult {
		return runner.Failf("invalid credentials reached the protected page: %s", url)
	}
	return nil
}

// SuccessfulSignup registers a random user. A missing profile icon means the
// backend did not log the user in; that is noted unless strict signup is on.
func SuccessfulSignup(ctx context.Context, env *runner.Env) error {
	if err := openSignupForm(ctx, env); err != nil {
		return err
	}

	creds := fixtures.NewSignup(env.Config())
	if err := typeInto(ctx, env, NameInput, creds.Name); err != nil {
		return err
	}
	if err := typeInto(ctx, env, EmailInput, creds.Email); err != nil {
		return err
	}
	if err := typeInto(ctx, env, PasswordInput, creds.Password); err != nil {
		return err
	}
	if _, err := env.FindAndClick(ctx, CreateAccount...); err != nil {
		return err
	}
	env.Pause(signupResponseDelay)

	_, err := env.Find(ctx, ProfileIcon...)
	switch {
	case err == nil:
		env.Note("signed up and logged in as %s", creds.Email)
		return nil
	case errors.Is(err, locator.ErrNotFound):
		if env.Config().Scenarios.StrictSignup {
			return runner.Failf("user %s not logged in after signup", creds.Email)
		}
		env.Note("signup form submitted, backend did not log the user in")
		return nil
	default:
		return err
	}
}

// ProtectedRouteWithoutAuth opens /result directly. Either outcome passes;
// which one happened is noted.
func ProtectedRouteWithoutAuth(ctx context.Context, env *runner.Env) error {
	if err := env.Goto(ctx, PathResult); err != nil {
		return err
	}
	env.Settle()

	_, found, err := env.Present(ctx, PromptInput...)
	if err != nil {
		return err
	}
	if found {
		env.Note("result page accessible")
	} else {
		env.Note("result page requires authentication")
	}
	return nil
}

// HomepageElements checks the secondary homepage sections, scrolling to load
// the lower half when needed
func HomepageElements(ctx context.Context, env *runner.Env) error {
	if err := findAll(ctx, env, HeroHeading, GenerateBtn); err != nil {
		return err
	}

	_, found, err := env.Present(ctx, MagicHeader...)
	if err != nil {
		return err
	}
	if !found {
		if err := env.ScrollToBottom(ctx); err != nil {
			return err
		}
		env.Transition()
		if _, err := env.Find(ctx, MagicHeader...); err != nil {
			return err
		}
	}

	_, err = env.Find(ctx, Footer...)
	return err
}

// PricingPageElements checks the plan page and that at least one plan is offered
func PricingPageElements(ctx context.Context, env *runner.Env) error {
	if err := env.Goto(ctx, PathPricing); err != nil {
		return err
	}
	env.Settle()

	if err := findAll(ctx, env, PricingHeading, OurPlansBtn); err != nil {
		return err
	}

	plans := 0
	for _, candidate := range PurchaseControls {
		n, err := env.Count(ctx, candidate)
		if err != nil {
			return err
		}
		if n > 0 {
			plans = n
			break
		}
	}
	if plans == 0 {
		return runner.Failf("no pricing plan displayed")
	}
	return nil
}

// LogoNavigation clicks the logo on the pricing page and expects the homepage
func LogoNavigation(ctx context.Context, env *runner.Env) error {
	if err := env.Goto(ctx, PathPricing); err != nil {
		return err
	}
	env.Settle()

	if _, err := env.FindAndClick(ctx, Logo...); err != nil {
		return err
	}
	env.Settle()

	url, onPricing, err := urlContains(ctx, env, "pricing")
	if err != nil {
		return err
	}
	if onPricing {
		return runner.Failf("logo click left the browser on %s", url)
	}

	_, err = env.Find(ctx, HeroHeading...)
	return err
}

// LoginModalClose dismisses the modal with its close icon, or Escape when no
// close icon can be found
func LoginModalClose(ctx context.Context, env *runner.Env) error {
	if err := openLoginModal(ctx, env); err != nil {
		return err
	}
	if _, err := env.Find(ctx, LoginHeading); err != nil {
		return err
	}

	dismiss, err := env.Find(ctx, DismissModal...)
	switch {
	case err == nil:
		if err := env.Click(ctx, dismiss); err != nil {
			return err
		}
	case errors.Is(err, locator.ErrNotFound):
		env.Note("no close control found, pressed Escape")
		if err := env.PressKey(ctx, browser.KeyEscape); err != nil {
			return err
		}
	default:
		return err
	}
	env.Transition()

	err = env.WaitGone(ctx, LoginHeading)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, locator.ErrTimeout):
		env.Note("modal heading still visible after close, close control exercised")
		return nil
	default:
		return err
	}
}

// GenerateButton expects the login modal for anonymous users or the result
// page for authenticated ones
func GenerateButton(ctx context.Context, env *runner.Env) error {
	button, err := env.Find(ctx, GenerateBtn...)
	if err != nil {
		return err
	}
	if err := env.ScrollIntoView(ctx, button); err != nil {
		return err
	}
	env.Transition()

	if err := env.Click(ctx, button); err != nil {
		return err
	}
	env.Settle()

	_, err = env.Find(ctx, LoginHeading)
	switch {
	case err == nil:
		env.Note("login modal shown to unauthenticated user")
		return nil
	case errors.Is(err, locator.ErrNotFound):
		_, onResult, urlErr := urlContains(ctx, env, "result")
		if urlErr != nil {
			return urlErr
		}
		if onResult {
			env.Note("navigated to result page as authenticated user")
		} else {
			env.Note("no login modal and no navigation after click")
		}
		return nil
	default:
		return err
	}
}
