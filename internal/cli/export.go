package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/heritagebakes/bakebook/pkg/pdf"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
	Title  string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as a PDF cookbook",
		Long: `Export the recipe collection as a PDF cookbook.

When the server is reachable the PDF is rendered server-side from the
authoritative collection; otherwise it is rendered locally from the
cached snapshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts.RootOptions)
			if err != nil {
				return err
			}
			token, err := e.requireToken(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out, err := os.Create(opts.Output)
			if err != nil {
				return err
			}
			defer out.Close()

			if !opts.Offline && e.client.Online(ctx) {
				if err := e.client.ExportCookbook(ctx, token, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (server render)\n", opts.Output)
				return nil
			}

			recipes, err := e.store.LoadRecipes(ctx)
			if err != nil {
				return err
			}
			author := ""
			if user, _ := e.store.LoadUser(ctx); user != nil {
				author = user.Name
			}
			if err := pdf.RenderCookbook(out, opts.Title, author, recipes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (local render, %d recipes)\n", opts.Output, len(recipes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "o", "cookbook.pdf", "output file")
	cmd.Flags().StringVar(&opts.Title, "title", "My Cookbook", "cookbook title for local renders")
	return cmd
}
