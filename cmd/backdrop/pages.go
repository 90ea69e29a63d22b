package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPagesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List the site's pages and their backgrounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := root.loadCatalog()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPATH\tCONTAINER\tCOLOR1\tCOLOR2")
			for _, p := range c.Pages {
				if !p.HasScene() {
					fmt.Fprintf(w, "%s\t%s\t-\t-\t-\n", p.Name, p.Path)
					continue
				}
				cfg, err := p.Config()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Path, p.Container, cfg.Color1.Hex(), cfg.Color2.Hex())
			}
			return w.Flush()
		},
	}
}
