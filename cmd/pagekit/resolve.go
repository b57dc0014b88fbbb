package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knowdesk/pagekit/internal/server"
	"github.com/knowdesk/pagekit/pkg/alert"
	"github.com/knowdesk/pagekit/pkg/page"
)

func resolveCmd(load loadFunc) *cobra.Command {
	var (
		docPath  string
		location string
		render   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Bootstrap a host document against the page sources",
		Long: `Bootstrap a host document against the page sources and report the
states the bootstrap passed through.

Examples:
  pagekit resolve --doc index.html
  pagekit resolve --doc index.html --location /projects/3 --render`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			table, err := loadTable(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			registry, err := server.LoadRegistry(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}

			f, err := os.Open(docPath)
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := page.ParseDocument(f, cfg.MountID)
			if err != nil {
				return err
			}

			logger := cfg.NewLogger(cmd.ErrOrStderr())
			notices := alert.NewStack()
			res := page.NewBootstrap(page.Config{
				Document: doc,
				Resolver: page.NewResolver(registry, page.WithResolverLogger(logger)),
				Runtime:  page.NewHTMLRuntime(doc, page.WithRoute(table.Func()), page.WithNotices(notices)),
				Location: location,
				Logger:   logger,
				Reporter: notices,
			}).Run(cmd.Context())

			out := cmd.OutOrStdout()
			if render {
				return doc.Render(out)
			}

			trace := make([]string, len(res.Trace))
			for i, s := range res.Trace {
				trace[i] = s.String()
			}
			fmt.Fprintf(out, "component: %s\n", res.Descriptor.Component)
			fmt.Fprintf(out, "trace:     %s\n", strings.Join(trace, " -> "))
			fmt.Fprintf(out, "outcome:   %s\n", res.Outcome())
			for _, err := range res.Errors {
				warn(out, "%v", err)
			}
			if res.Root != nil {
				success(out, "mounted root %s", res.Root.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "Host document to bootstrap")
	cmd.Flags().StringVar(&location, "location", "/", "Current location used by the fallback descriptor")
	cmd.Flags().BoolVar(&render, "render", false, "Print the mounted document instead of a summary")
	_ = cmd.MarkFlagRequired("doc")

	return cmd
}
