package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mailsift/internal/cli"
	"github.com/Veraticus/mailsift/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the built-in category sets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("taxonomy")
			names := model.TaxonomyNames()
			if name != "" {
				names = []string{name}
			}

			out := cmd.OutOrStdout()
			for i, n := range names {
				t, err := model.TaxonomyByName(n)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				if _, err := fmt.Fprintln(out, cli.FormatTitle(t.Name)); err != nil {
					return err
				}
				if _, err := fmt.Fprintln(out, cli.FormatCategoryList(t, "")); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("taxonomy", "", "show only this category set (source, academic, topic)")

	return cmd
}
