package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/templui/lifeos/internal/service"
)

func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import CMS content from files",
	}

	cmd.AddCommand(importArticlesCmd(), importInspirationsCmd())
	return cmd
}

func importArticlesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "articles <dir>",
		Short: "Upsert markdown articles (with YAML frontmatter) by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}

			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Importer.ImportArticles(os.DirFS(args[0]))
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), "articles", report)
		},
	}
}

func importInspirationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspirations <file.yaml>",
		Short: "Upsert inspirations from a YAML list, matched by kind and title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Importer.ImportInspirations(f)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), "inspirations", report)
		},
	}
}

func printReport(w io.Writer, kind string, report *service.ImportReport) error {
	fmt.Fprintf(w, "%s: %d created, %d updated, %d failed\n", kind, report.Created, report.Updated, len(report.Failures))
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  %s: %s\n", f.Source, f.Error)
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d %s failed to import", len(report.Failures), kind)
	}
	return nil
}
