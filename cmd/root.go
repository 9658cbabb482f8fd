package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Esysc/cloudflare-ddns/internal/cloudflare"
	"github.com/Esysc/cloudflare-ddns/internal/config"
	"github.com/Esysc/cloudflare-ddns/internal/constants"
	"github.com/Esysc/cloudflare-ddns/internal/ddns"
	"github.com/Esysc/cloudflare-ddns/internal/logging"
	"github.com/Esysc/cloudflare-ddns/internal/publicip"
	"github.com/Esysc/cloudflare-ddns/internal/ui"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	flagZone     string
	flagName     string
	flagDryRun   bool
	flagLogFile  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:          "cloudflare-ddns",
	Short:        "Updates Cloudflare A records to the machine's current public IP",
	Version:      constants.Version,
	SilenceUsage: true,
	RunE:         runReconcile,
}

func init() {
	rootCmd.Flags().StringVarP(&flagZone, "zone", "z", "", "Cloudflare zone name (e.g. example.com)")
	rootCmd.Flags().StringVarP(&flagName, "name", "n", "", "DNS record name to update (e.g. host.example.com)")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", true, "Simulate updates without touching any record")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Log file path")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log verbosity (debug, info, warn, error)")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	overrides := config.Overrides{
		ZoneName:   flagZone,
		RecordName: flagName,
		LogFile:    flagLogFile,
		LogLevel:   flagLogLevel,
	}
	// The flag default must not shadow DDNS_DRY_RUN; only an explicit flag wins.
	if cmd.Flags().Changed("dry-run") {
		overrides.DryRun = &flagDryRun
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return err
	}
	log := logging.New(cfg)

	opts := []cloudflare.Option{cloudflare.WithLogger(log)}
	if cfg.DryRun {
		log.Info("dry-run mode active; no records will be modified")
		opts = append(opts, cloudflare.WithDryRun())
	}
	api := cloudflare.New(string(cfg.APIToken), opts...)
	resolver := publicip.New(publicip.WithLogger(log))

	code := ddns.Run(cmd.Context(), cfg, api, resolver, log)
	if code == ddns.ExitUpdated {
		fmt.Println(ui.Success(fmt.Sprintf("A records for %s reconciled", cfg.RecordName)))
		return nil
	}
	return &ddns.ExitError{Code: code}
}

func Execute() {
	err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion(constants.Version),
		fang.WithErrorHandler(printRunError),
	)
	if err == nil {
		return
	}
	var exitErr *ddns.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(int(exitErr.Code))
	}
	os.Exit(1)
}

func printRunError(w io.Writer, _ fang.Styles, err error) {
	// Exit codes carry outcomes already logged at the failure point.
	var exitErr *ddns.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fmt.Fprintln(w, ui.ErrorBox("Error executing command", err))
}
