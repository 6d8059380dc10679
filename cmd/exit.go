package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"axeberg-kernel/ids"
)

var exitCmd = &cobra.Command{
	Use:   "exit <pid> <code>",
	Short: "Mark pid a zombie with the given exit code",
	Args:  cobra.ExactArgs(2),
	RunE:  runExit,
}

func init() {
	rootCmd.AddCommand(exitCmd)
}

func runExit(cmd *cobra.Command, args []string) error {
	pid, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("parse pid: %w", err)
	}
	code, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("parse exit code: %w", err)
	}

	path := GetSnapshotPath()
	k, err := loadKernel(path)
	if err != nil {
		return err
	}
	defer k.Shutdown()

	if err := k.Exit(ids.Pid(pid), int32(code), 0); err != nil {
		return err
	}
	return saveKernel(k, path)
}
