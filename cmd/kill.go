package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"axeberg-kernel/ids"
	"axeberg-kernel/process"
)

var killCmd = &cobra.Command{
	Use:   "kill <pid> [signal]",
	Short: "Send a signal to a process",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runKill,
}

func init() {
	rootCmd.AddCommand(killCmd)
}

func runKill(cmd *cobra.Command, args []string) error {
	pid, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("parse pid: %w", err)
	}

	sigName := "TERM"
	if len(args) == 2 {
		sigName = args[1]
	}
	sig, err := process.ParseSignal(sigName)
	if err != nil {
		return err
	}

	path := GetSnapshotPath()
	k, err := loadKernel(path)
	if err != nil {
		return err
	}
	defer k.Shutdown()

	if err := k.Kill(ids.Pid(pid), sig, 0); err != nil {
		return err
	}
	return saveKernel(k, path)
}
