package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var completeValue string

var completeCmd = &cobra.Command{
	Use:   "complete <checklist> <step>",
	Short: "Record the value of a manual step",
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

		value := completeValue
		if !cmd.Flags().Changed("value") {
			if value, err = promptValue(args[1]); err != nil {
				return err
			}
		}

		if err := sess.Runner.CompleteManual(ctx, args[1], value); err != nil {
			return err
		}
		if err := sess.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "completed %s\n", args[1])
		return nil
	},
}

// promptValue reads the step value interactively. It refuses to block
// when stdin is not a terminal.
func promptValue(stepID string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("step %q needs a value: pass --value or run interactively", stepID)
	}
	fmt.Fprintf(os.Stderr, "value for %s: ", stepID)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read value: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	completeCmd.Flags().StringVar(&completeValue, "value", "", "the value to record")
	rootCmd.AddCommand(completeCmd)
}
