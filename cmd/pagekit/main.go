// Command pagekit serves and inspects pagekit applications.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/knowdesk/pagekit/internal/config"
	"github.com/knowdesk/pagekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:   "pagekit",
		Short: "Named routes and page bootstrapping for server-rendered apps",
		Long: `pagekit serves host documents for page components and provides
tools to inspect the route table and page resolution.

Configuration is read from pagekit.json in the project directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&dir, "dir", "C", ".", "Project directory containing pagekit.json")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(dir)
		if err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}

	root.AddCommand(
		initCmd(),
		serveCmd(load),
		routeCmd(load),
		routesCmd(load),
		resolveCmd(load),
		versionCmd(),
	)
	return root
}

type loadFunc func() (*config.Config, error)

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
