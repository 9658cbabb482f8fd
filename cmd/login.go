package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/Esysc/cloudflare-ddns/internal/cloudflare"
	"github.com/Esysc/cloudflare-ddns/internal/config"
	"github.com/Esysc/cloudflare-ddns/internal/prompt"
	"github.com/Esysc/cloudflare-ddns/internal/ui"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the Cloudflare API token for scheduled runs",
	Long:  "Verifies an API token and stores it encrypted in the config file, so scheduled runs work without CLOUDFLARE_API_TOKEN in the environment.",
	Run:   executeLogin,
}

var loginToken string

func init() {
	loginCmd.Flags().StringVarP(&loginToken, "token", "t", "", "Cloudflare API token")

	rootCmd.AddCommand(loginCmd)
}

func executeLogin(cmd *cobra.Command, args []string) {
	token := loginToken
	if token == "" {
		var err error
		token, err = prompt.RunLoginPrompt()
		if err != nil {
			if errors.Is(err, prompt.ErrUserCancelled) {
				return
			}
			println(ui.ErrorBox("Error reading login credentials.", err))
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	if err := cloudflare.VerifyToken(ctx, token); err != nil {
		println(ui.ErrorBox("Invalid credentials, could not log in.", err))
		os.Exit(1)
	}

	if err := config.SaveToken(token); err != nil {
		println(ui.ErrorBox("Error saving config.", err))
		os.Exit(1)
	}
	println(ui.Success("Token verified and stored."))
	println(ui.Muted("Scheduled runs will use it whenever CLOUDFLARE_API_TOKEN is unset."))
}
