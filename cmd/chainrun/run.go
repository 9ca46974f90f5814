package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainrun/chainrun/internal/chain"
)

var runBlock string

var runCmd = &cobra.Command{
	Use:   "run <checklist>",
	Short: "Execute every ready automatic step until only manual steps remain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := a.Context(cmd.Context())
		sess, err := a.OpenSession(ctx, args[0])
		if err != nil {
			return err
		}

		res := sess.Runner.RunReady(ctx, chain.BlockRef(runBlock))
		if err := sess.Save(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, id := range res.Completed {
			fmt.Fprintf(out, "done     %s\n", id)
		}
		for _, id := range res.Manual {
			fmt.Fprintf(out, "manual   %s  (awaiting `chainrun complete`)\n", id)
		}
		for id, stepErr := range res.Failed {
			fmt.Fprintf(out, "failed   %s: %s\n", id, stepErr)
		}

		if len(res.Failed) > 0 {
			return fmt.Errorf("%d step(s) failed", len(res.Failed))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runBlock, "block", string(chain.Latest), "block reference for view calls")
	rootCmd.AddCommand(runCmd)
}
