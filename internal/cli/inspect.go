package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/zipack/pkg/archive"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect ARCHIVE",
		Short: "List the entries of an archive",
		Long: `List every entry of a zip archive with its compression method, size and
compressed size. File contents are decompressed to verify them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}

	return cmd
}

func runInspect(cmd *cobra.Command, archivePath string) error {
	entries, err := archive.NewManager().Inspect(cmd.Context(), archivePath)
	if err != nil {
		return fmt.Errorf("failed to inspect archive: %w", err)
	}

	tabWriter := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "NAME\tMETHOD\tSIZE\tCOMPRESSED")
	_, _ = fmt.Fprintln(tabWriter, "----\t------\t----\t----------")
	for _, entry := range entries {
		method := entry.Method
		if entry.IsDir {
			method = "-"
		}
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t%d\t%d\n", entry.Name, method, entry.Size, entry.CompressedSize)
	}
	return tabWriter.Flush()
}
