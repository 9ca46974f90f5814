package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chainrun/chainrun/internal/graph"
	"github.com/chainrun/chainrun/internal/store"
)

var graphCmd = &cobra.Command{
	Use:   "graph <checklist>",
	Short: "Show the checklist's dependency levels and any cycles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if err := graph.Validate(list.Steps); err != nil {
			return err
		}

		levels := graph.Levels(list.Steps)
		byLevel := make(map[int][]string)
		max := 0
		for _, s := range list.Steps {
			lvl, ok := levels[s.Head().ID]
			if !ok {
				continue
			}
			byLevel[lvl] = append(byLevel[lvl], s.Head().ID)
			if lvl > max {
				max = lvl
			}
		}
		for lvl := 1; lvl <= max; lvl++ {
			ids := byLevel[lvl]
			sort.Strings(ids)
			fmt.Fprintf(cmd.OutOrStdout(), "level %d: %s\n", lvl, strings.Join(ids, ", "))
		}

		if cycles := graph.Cycles(list.Steps); len(cycles) > 0 {
			var ids []string
			for _, s := range cycles {
				ids = append(ids, s.Head().ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cyclic (never executable): %s\n", strings.Join(ids, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
