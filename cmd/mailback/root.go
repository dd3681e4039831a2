package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"

	"github.com/nhle/mailback/internal/config"
	"github.com/nhle/mailback/internal/logging"
	"github.com/nhle/mailback/internal/theme"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "mailback",
		Short:         "Fetch mail over IMAP and print it as plain text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "path to the configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newDecodeCmd(a),
		newClassifyCmd(),
		newRenderCmd(a),
		newAccountCmd(a),
		newFetchCmd(a),
		newWatchCmd(a),
	)

	return root
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lvl := cfg.Log.Level
	if a.logLevel != "" {
		lvl = a.logLevel
	}
	a.logger = logging.New(stderr, lvl)
	return nil
}

// printError reports a failed command.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, theme.ErrorStyle.Render("Error: "+err.Error()))
}

// readInput returns the contents of the file named by args[0], or of
// stdin when no file is given or the name is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
