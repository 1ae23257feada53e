package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"corpusprep/internal/ledger"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the per-dataset ledger for the configured data root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireDataRoot(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			path := cfg.LedgerPath()
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(out, "No ledger at %s; nothing has been processed yet\n", path)
				return nil
			}

			store, err := ledger.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			datasets, err := store.Datasets(cmd.Context())
			if err != nil {
				return err
			}
			if len(datasets) == 0 {
				fmt.Fprintln(out, "Ledger is empty")
				return nil
			}
			fmt.Fprintln(out, renderDatasets(datasets, isTerminal(out)))
			return nil
		},
	}
}

func renderDatasets(datasets []ledger.Dataset, color bool) string {
	rows := make([][]string, 0, len(datasets))
	for _, d := range datasets {
		rows = append(rows, []string{
			d.Split,
			d.Category,
			stateLabel(d.State, color),
			strconv.Itoa(d.LabelCount),
			strconv.Itoa(d.MissingAudio),
			strconv.Itoa(d.RecordCount),
			d.UpdatedAt.Local().Format("2006-01-02 15:04"),
			d.LastError,
		})
	}
	return renderTable(
		[]string{"Split", "Category", "State", "Labels", "Missing", "Records", "Updated", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
}

func stateLabel(state ledger.State, color bool) string {
	switch state {
	case ledger.StateProcessed:
		return colorize(color, text.FgGreen, string(state))
	case ledger.StateFailed:
		return colorize(color, text.FgRed, string(state))
	default:
		return colorize(color, text.FgYellow, string(state))
	}
}
