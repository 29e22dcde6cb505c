package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/precision-desktop/precisiond/pkg/client"
)

var (
	logLevel       = "info"
	unixSocketPath = "/var/run/precisiond.sock"
	configPath     = "/etc/precisiond.json"

	apiClient *client.Client
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: precisiond daemon is not running")
		fmt.Fprintln(os.Stderr, "Is the daemon running? Start it with 'precisiond daemon'.")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or run the daemon with the '--always-allow-non-root-access' flag to grant permissions to your user")
	} else if errors.Is(err, client.ErrNotCalibrated) {
		fmt.Fprintln(os.Stderr, "\nError: no calibration yet")
		fmt.Fprintln(os.Stderr, "Run 'precisiond calibrate' with at least 2 reference points first.")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precisiond",
		Short: "precisiond calibrates DPI coordinate systems for desktop automation",
		Long: `precisiond establishes the mapping between physical (device pixel) and
logical (DPI-scaled) screen coordinates, keeps it verified and fresh, and
converts coordinates between the two spaces for automation tools.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := setupLogger(); err != nil {
				return err
			}
			apiClient = client.NewClient(unixSocketPath)
			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "precisiond daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewCalibrateCommand(),
		NewVerifyCommand(),
		NewStatusCommand(),
		NewConvertCommand(),
		NewLandmarksCommand(),
		NewDoctorCommand(),
		NewPatchesCommand(),
	)

	return cmd
}
