package cmd

import (
	"os"

	"github.com/Esysc/cloudflare-ddns/internal/config"
	"github.com/Esysc/cloudflare-ddns/internal/crypt"
	"github.com/Esysc/cloudflare-ddns/internal/ui"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored Cloudflare API token",
	Run:   executeLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func executeLogout(cmd *cobra.Command, args []string) {
	if err := config.ClearToken(); err != nil {
		println(ui.ErrorBox("Error clearing stored token.", err))
		os.Exit(1)
	}
	if err := crypt.DeleteIdentity(); err != nil {
		println(ui.ErrorBox("Error removing keyring identity.", err))
		os.Exit(1)
	}
	println(ui.Success("You were successfully logged out."))
}
