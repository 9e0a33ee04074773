package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/pingpool/internal/output"
	"github.com/aryankumar/pingpool/pkg/version"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for pingpool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	out := cmd.OutOrStdout()
	outputFormat, _ := cmd.Flags().GetString("output")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if outputFormat == "" || outputFormat == string(output.FormatText) {
		_, err := fmt.Fprintln(out, info.String())
		return err
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format, output.WithNoColor(noColor))
	if format == output.FormatTable {
		return formatter.Format(out, map[string]interface{}{
			"Version":    info.Version,
			"Commit":     info.Commit,
			"Build Time": info.BuildTime,
			"Go Version": info.GoVersion,
			"Platform":   info.Platform,
		})
	}

	return formatter.Format(out, info)
}
