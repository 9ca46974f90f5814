package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainrun/chainrun/internal/chain"
	"github.com/chainrun/chainrun/internal/model"
)

var execBlock string

var execCmd = &cobra.Command{
	Use:   "exec <checklist> <step>",
	Short: "Execute one view, raw, or method step",
	Args:  cobra.ExactArgs(2),
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

		stepID := args[1]
		step := sess.Runner.Checklist().Step(stepID)
		if step == nil {
			return fmt.Errorf("unknown step %q", stepID)
		}

		switch step.Kind() {
		case model.KindView:
			err = sess.Runner.CompleteView(ctx, stepID, chain.BlockRef(execBlock))
		case model.KindRaw:
			err = sess.Runner.CompleteRaw(ctx, stepID)
		case model.KindMethod:
			err = sess.Runner.CompleteMethod(ctx, stepID)
		case model.KindManual:
			return fmt.Errorf("step %q is manual: use `chainrun complete`", stepID)
		}
		if err != nil {
			return err
		}
		if err := sess.Save(); err != nil {
			return err
		}

		line, err := execReport(stepID, step)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), line)
		return nil
	},
}

// execReport renders the outcome line for an executed step. A method step
// that recorded a failure returns an error instead: the completer treats
// "ran and failed" as an outcome, but the operator still needs to see it.
func execReport(stepID string, step model.Step) (string, error) {
	if ms, ok := step.(*model.MethodStep); ok && ms.Success != nil && !*ms.Success {
		msg := ""
		if ms.Output != nil {
			msg = *ms.Output
		}
		if ms.TxHash == nil {
			return "", fmt.Errorf("step %q failed before broadcast: %s", stepID, msg)
		}
		return "", fmt.Errorf("step %q transaction %s failed: %s", stepID, *ms.TxHash, msg)
	}
	if res := stepResult(step); res != "" {
		return fmt.Sprintf("%s: %s\n", stepID, res), nil
	}
	return fmt.Sprintf("executed %s\n", stepID), nil
}

func init() {
	execCmd.Flags().StringVar(&execBlock, "block", string(chain.Latest), "block reference for view calls")
	rootCmd.AddCommand(execCmd)
}
