package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainrun/chainrun/internal/graph"
	"github.com/chainrun/chainrun/internal/model"
	"github.com/chainrun/chainrun/internal/store"
)

var nextCmd = &cobra.Command{
	Use:   "next <checklist>",
	Short: "List the steps that are executable right now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if err := graph.Validate(list.Steps); err != nil {
			return err
		}

		ready := graph.NextSteps(list)
		if len(ready) == 0 {
			if list.Complete {
				fmt.Fprintln(cmd.OutOrStdout(), "checklist is complete")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "no steps are ready")
			}
			return nil
		}

		levels := graph.Levels(list.Steps)
		for _, s := range ready {
			printStepLine(cmd, s, levels[s.Head().ID])
		}
		return nil
	},
}

func printStepLine(cmd *cobra.Command, s model.Step, level int) {
	h := s.Head()
	line := fmt.Sprintf("[%d] %-8s %s", level, s.Kind(), h.ID)
	if h.Executor != "" {
		line += fmt.Sprintf("  (executor: %s)", h.Executor)
	}
	if h.Description != "" {
		line += "  " + h.Description
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}

func init() {
	rootCmd.AddCommand(nextCmd)
}
