package prompt

import (
	"errors"

	"github.com/Esysc/cloudflare-ddns/internal/ui"
	"github.com/charmbracelet/huh"
)

var ErrUserCancelled = errors.New("login cancelled")

// RunLoginPrompt asks for a Cloudflare API token without echoing it.
func RunLoginPrompt() (string, error) {
	var token string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API Token").
				Description("Create tokens in: Cloudflare Dashboard → My Profile → API Tokens").
				Placeholder("Enter your API token...").
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(func(s string) error {
					if len(s) == 0 {
						return errors.New("token cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(ui.HuhTheme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrUserCancelled
		}
		return "", err
	}

	return token, nil
}
