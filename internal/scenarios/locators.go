package scenarios

import "github.com/khawajarafayy/Texmage/internal/models"

// Routes of the Texmage client
const (
	PathHome    = "/"
	PathPricing = "/pricing"
	PathResult  = "/result"
)

// Targets in the Texmage frontend. Each logical target is an ordered
// candidate chain; the first candidate is the primary contract.
var (
	Logo        = []models.Locator{models.CSS("img[alt*='Logo']")}
	HeroHeading = []models.Locator{models.Text("h1", "Turn text to")}
	GenerateBtn = []models.Locator{models.Text("button", "Generate Images")}
	MagicHeader = []models.Locator{models.Text("h1", "See the magic")}

	Footer = []models.Locator{
		models.XPath("//div[contains(@class, 'py-3') and contains(., 'All Rights Reserved')]"),
		models.XPath("//img[@alt='' and @width='150']"),
	}

	NavPricing = []models.Locator{models.Text("p", "Pricing")}
	NavLogin   = []models.Locator{models.Text("button", "Login")}

	ProfileIcon = []models.Locator{
		models.CSS("img[src*='profile_icon']"),
		models.Text("p", "Hi,"),
	}

	PricingHeading = []models.Locator{models.Text("h1", "Choose the plan")}
	OurPlansBtn    = []models.Locator{models.Text("button", "Our Plans")}

	// PurchaseControls are counted, not waited for
	PurchaseControls = []models.Locator{
		models.XPath("//button[contains(text(), 'Purchase') or contains(text(), 'Get Started')]"),
		models.XPath("//div[contains(@class, 'bg-white') and contains(@class, 'drop-shadow')]"),
	}

	LoginHeading  = models.Text("h1", "Log In")
	EmailInput    = models.CSS("input[type='email']")
	PasswordInput = models.CSS("input[type='password']")
	NameInput     = models.CSS("input[placeholder*='Full Name']")
	SignUpToggle  = []models.Locator{models.Text("span", "Sign Up")}
	CreateAccount = []models.Locator{models.Text("button", "Create Account")}

	// LoginSubmit prefers the button inside the modal form over the navbar button with the same label
	LoginSubmit = []models.Locator{
		models.XPath("//form//button[contains(text(), 'Login')]"),
		models.Text("button", "Login"),
	}

	DismissModal = []models.Locator{
		models.CSS("img[src*='cross']"),
		models.CSS("img[alt*='cross']"),
		models.XPath("//img[contains(@src, 'cross')]"),
		models.XPath("//img[@class='absolute top-5 right-5']"),
	}

	PromptInput = []models.Locator{models.CSS("input[placeholder*='Describe what you want to generate']")}
)
