package cli

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/dmitrijs2005/moodkeeper/internal/client/config"
	"github.com/dmitrijs2005/moodkeeper/internal/client/printers"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X ...".
var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

const configFlagsHelp = `Flags:
  -a string    remote store address (default "127.0.0.1:50051")
  -l string    local database file (default "moodkeeper.db")
  -w string    write failure policy, logout or auth-only (default "logout")
  -m string    mood catalog JSON file (default: built in)
  -o string    download directory (default "downloads")
  -t int       request timeout in seconds (default 10)
  -c string    JSON config file
`

// NewRootCommand builds the moodkeeper command tree. Config flags are parsed
// by the config package, so cobra flag parsing is off for the commands that
// take them.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	shell := newShellCommand(in, out, errOut)

	root := &cobra.Command{
		Use:                "moodkeeper",
		Short:              "Mood journal client",
		Long:               "MoodKeeper records check-ins of how you feel and keeps them in a remote store.\n\n" + configFlagsHelp,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE:               shell.RunE,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(shell, newMoodsCommand(out, errOut), newVersionCommand(out))
	return root
}

func newLogger(w io.Writer) logging.Logger {
	return logging.NewText(w, slog.LevelWarn)
}

func newShellCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:                "shell",
		Short:              "Start the interactive shell (default)",
		Long:               "Start the interactive shell.\n\n" + configFlagsHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(args)
			if err != nil {
				return err
			}

			app, err := NewApp(cmd.Context(), cfg, newLogger(errOut), in, out)
			if err != nil {
				return err
			}
			defer app.Close()

			return app.Run(cmd.Context())
		},
	}
}

func newMoodsCommand(out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:                "moods",
		Short:              "Print the mood catalog",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(args)
			if err != nil {
				return err
			}
			cat := loadCatalog(cmd.Context(), cfg, newLogger(errOut))
			if err := cat.LoadErr(); err != nil {
				return err
			}
			(&printers.PrettyPrint{Out: out}).Catalog(cat.Moods())
			return nil
		},
	}
}

func newVersionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "Build version: %s\n", buildVersion)
			fmt.Fprintf(out, "Build date: %s\n", buildDate)
			fmt.Fprintf(out, "Build commit: %s\n", buildCommit)
			fmt.Fprintf(out, "Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
