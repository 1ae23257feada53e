package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"corpusprep/internal/catalog"
)

func newCatalogCommand() *cobra.Command {
	var training bool

	cmd := &cobra.Command{
		Use:         "catalog [selector]",
		Short:       "List dataset groups or the categories a selector expands to",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				rows := make([][]string, 0, len(cat.Groups))
				for _, name := range cat.GroupNames() {
					rows = append(rows, []string{name, strconv.Itoa(len(cat.Groups[name]))})
				}
				fmt.Fprintln(out, renderTable([]string{"Group", "Categories"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			}

			categories := cat.Expand(args[0])
			if len(categories) == 0 {
				return fmt.Errorf("selector %q names no categories", strings.TrimSpace(args[0]))
			}
			rows := make([][]string, 0, len(categories))
			for _, category := range categories {
				paths := cat.Paths("", catalog.Spec{Category: category, Training: training})
				rows = append(rows, []string{category, paths.AudioArchive, paths.LabelArchive})
			}
			fmt.Fprintln(out, renderTable([]string{"Category", "Audio archive", "Label archive"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&training, "training-set", true, "Show training archive names (false for validation)")
	return cmd
}
