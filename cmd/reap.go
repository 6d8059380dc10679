package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"axeberg-kernel/ids"
)

var reapCmd = &cobra.Command{
	Use:   "reap <pid>",
	Short: "Remove a zombie's process table entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runReap,
}

func init() {
	rootCmd.AddCommand(reapCmd)
}

func runReap(cmd *cobra.Command, args []string) error {
	pid, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("parse pid: %w", err)
	}

	path := GetSnapshotPath()
	k, err := loadKernel(path)
	if err != nil {
		return err
	}
	defer k.Shutdown()

	if err := k.Reap(ids.Pid(pid)); err != nil {
		return err
	}
	return saveKernel(k, path)
}
