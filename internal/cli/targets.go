package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/pingpool/internal/config"
	"github.com/aryankumar/pingpool/internal/output"
)

// newTargetsCmd creates the targets command
func newTargetsCmd() *cobra.Command {
	var allContexts bool

	cmd := &cobra.Command{
		Use:   "targets [targets...]",
		Short: "List the batch a run would probe",
		Long: `List the targets a ping or compare run would probe, after duplicates are
dropped and fault injection is applied.`,
		Example: `  # Show the resolved batch
  pingpool targets

  # Show which target --corrupt-index 2 would corrupt
  pingpool targets --corrupt-index 2 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(cmd, args, allContexts)
		},
	}

	cmd.Flags().BoolVar(&allContexts, "all-contexts", false, "add a kube:// target for every kubeconfig context")
	addFaultFlags(cmd)

	cmd.AddCommand(newTargetsAddCmd())
	cmd.AddCommand(newTargetsRemoveCmd())

	return cmd
}

func runTargets(cmd *cobra.Command, args []string, allContexts bool) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	targets, err := s.resolveTargets(args, allContexts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.format.Streaming() {
		for _, target := range targets {
			fmt.Fprintln(out, target)
		}
		return nil
	}

	return output.NewFormatter(s.format, output.WithNoColor(s.noColor())).Format(out, targets)
}

// newTargetsAddCmd creates the targets add command
func newTargetsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <target>...",
		Short: "Add targets to the config file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editTargets(cmd, args, (*config.Manager).AddTarget, "Added", "already configured")
		},
	}
}

// newTargetsRemoveCmd creates the targets remove command
func newTargetsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <target>...",
		Aliases: []string{"rm"},
		Short:   "Remove targets from the config file",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editTargets(cmd, args, (*config.Manager).RemoveTarget, "Removed", "not configured")
		},
	}
}

// editTargets applies edit to every argument and saves the file when the
// batch changed
func editTargets(cmd *cobra.Command, args []string, edit func(*config.Manager, string) bool, done, skipped string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	manager := config.NewManager(cfgFile)
	if _, err := manager.Load(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	changed := false
	for _, target := range args {
		if edit(manager, target) {
			changed = true
			fmt.Fprintf(out, "%s %s\n", done, target)
		} else {
			fmt.Fprintf(out, "Target %s %s\n", target, skipped)
		}
	}

	if !changed {
		return nil
	}
	if err := manager.Save(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Saved %s\n", manager.Path())
	return nil
}
