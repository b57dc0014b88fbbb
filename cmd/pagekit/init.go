package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knowdesk/pagekit/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Create a new pagekit project",
		Long: `Create a new pagekit project from a template.

Templates:
  ` + strings.Join(templates.List(), "\n  ") + `

Examples:
  pagekit init
  pagekit init ./notes --template=full`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			tmpl, err := templates.Get(template)
			if err != nil {
				return err
			}
			if err := tmpl.Create(dir, templates.Config{
				ProjectName: filepath.Base(abs),
				Description: description,
			}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Created %s project in %s", tmpl.Name, dir)
			fmt.Fprintf(out, "  pagekit -C %s serve\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "minimal", "Project template")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")

	return cmd
}
