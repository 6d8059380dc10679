package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var psCmd = &cobra.Command{
	Use:     "ps",
	Aliases: []string{"list"},
	Short:   "List processes in the kernel's process table",
	Args:    cobra.NoArgs,
	RunE:    runPs,
}

func init() {
	rootCmd.AddCommand(psCmd)
}

func runPs(cmd *cobra.Command, args []string) error {
	k, err := loadKernel(GetSnapshotPath())
	if err != nil {
		return err
	}
	defer k.Shutdown()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tPPID\tUID\tSTATE\tNAME")
	for _, p := range k.Processes() {
		ppid := "-"
		if p.Parent != nil {
			ppid = fmt.Sprintf("%d", *p.Parent)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", p.Pid, ppid, p.Uid, p.State.Kind, p.Name)
	}
	return w.Flush()
}
