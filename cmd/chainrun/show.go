package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainrun/chainrun/internal/graph"
	"github.com/chainrun/chainrun/internal/model"
	"github.com/chainrun/chainrun/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <checklist>",
	Short: "Show every step with its status and recorded result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if err := graph.Validate(list.Steps); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "requester: %s\n", list.Requester)
		if list.Description != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "description: %s\n", list.Description)
		}

		levels := graph.Levels(list.Steps)
		ready := make(map[string]bool)
		for _, s := range graph.NextSteps(list) {
			ready[s.Head().ID] = true
		}

		for _, s := range list.Steps {
			h := s.Head()
			status := "blocked"
			switch {
			case s.Complete():
				status = "done"
			case ready[h.ID]:
				status = "ready"
			}
			if _, ok := levels[h.ID]; !ok {
				status = "cyclic"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-8s %s", status, s.Kind(), h.ID)
			if len(h.DependsOn) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  <- %s", strings.Join(h.DependsOn, ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout())

			if res := stepResult(s); res != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "         %s\n", res)
			}
		}
		return nil
	},
}

// stepResult renders a completed step's recorded outcome.
func stepResult(s model.Step) string {
	switch st := s.(type) {
	case *model.ManualStep:
		if st.Value != nil {
			return fmt.Sprintf("value: %s", *st.Value)
		}
	case *model.ViewStep:
		if st.Output != nil {
			res := fmt.Sprintf("output: %s", *st.Output)
			if st.BlockNumber != nil {
				res += fmt.Sprintf(" (block %d)", *st.BlockNumber)
			}
			return res
		}
	case *model.RawStep:
		if st.TxHash != nil {
			return fmt.Sprintf("tx: %s success: %v", *st.TxHash, st.Success != nil && *st.Success)
		}
	case *model.MethodStep:
		if st.TxHash != nil {
			res := fmt.Sprintf("tx: %s success: %v", *st.TxHash, st.Success != nil && *st.Success)
			if st.Output != nil {
				res += " " + *st.Output
			}
			return res
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(showCmd)
}
