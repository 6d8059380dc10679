package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"axeberg-kernel/ids"
)

var forkCmd = &cobra.Command{
	Use:   "fork <pid>",
	Short: "Fork a copy-on-write child of pid",
	Args:  cobra.ExactArgs(1),
	RunE:  runFork,
}

func init() {
	rootCmd.AddCommand(forkCmd)
}

func runFork(cmd *cobra.Command, args []string) error {
	parentPid, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("parse pid: %w", err)
	}

	path := GetSnapshotPath()
	k, err := loadKernel(path)
	if err != nil {
		return err
	}
	defer k.Shutdown()

	childPid, err := k.Fork(ids.Pid(parentPid), 0)
	if err != nil {
		return err
	}

	if err := saveKernel(k, path); err != nil {
		return err
	}
	fmt.Println(childPid)
	return nil
}
