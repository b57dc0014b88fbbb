package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/knowdesk/pagekit/internal/config"
	"github.com/knowdesk/pagekit/internal/server"
	"github.com/knowdesk/pagekit/pkg/routes"
)

func routeCmd(load loadFunc) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "route NAME [PARAM]",
		Short: "Build the URL of a named route",
		Long: `Build the URL of a named route.

Unknown names print "/" like the runtime helper does; use --strict to
fail instead.

Examples:
  pagekit route project.index
  pagekit route project.detail 42`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			table, err := loadTable(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var param any
			if len(args) == 2 {
				param = parseParam(args[1])
			}

			if strict {
				url, err := table.Resolve(args[0], param)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.URL(args[0], param))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on unknown route names")

	return cmd
}

func routesCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			table, err := loadTable(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tURL")
			for _, name := range table.Names() {
				e, _ := table.Lookup(name)
				fmt.Fprintf(tw, "%s\t%s\t%s\n", name, e.Kind(), e)
			}
			return tw.Flush()
		},
	}
}

func loadTable(cfg *config.Config, logs io.Writer) (*routes.Table, error) {
	return server.LoadTable(cfg, cfg.NewLogger(logs))
}

// parseParam passes integers as numbers so they format without quotes.
func parseParam(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
