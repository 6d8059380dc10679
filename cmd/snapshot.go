package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"axeberg-kernel/kernel"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect or copy a kernel snapshot file",
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotCopyCmd)
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current snapshot as YAML",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotShow,
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	snap, err := kernel.LoadSnapshot(GetSnapshotPath())
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

var snapshotCopyCmd = &cobra.Command{
	Use:   "copy <destination>",
	Short: "Copy the current snapshot to a new path",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotCopy,
}

func runSnapshotCopy(cmd *cobra.Command, args []string) error {
	snap, err := kernel.LoadSnapshot(GetSnapshotPath())
	if err != nil {
		return err
	}
	return snap.Save(args[0])
}
