package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"axeberg-kernel/bootspec"
	"axeberg-kernel/kernel"
)

var bootConfigPath string

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Boot a kernel instance and snapshot it",
	Long: `Boot seeds users, groups and mounts from a bootspec configuration,
spawns the configured initial process as pid 1, and writes the result to
the snapshot file. A subsequent axctl invocation against the same --root
resumes from that snapshot rather than booting again.`,
	Args: cobra.NoArgs,
	RunE: runBoot,
}

func init() {
	rootCmd.AddCommand(bootCmd)
	bootCmd.Flags().StringVar(&bootConfigPath, "config", "", "path to a bootspec JSON config (default: a root /bin/sh)")
}

func runBoot(cmd *cobra.Command, args []string) error {
	cfg := bootspec.Default()
	if bootConfigPath != "" {
		loaded, err := bootspec.Load(bootConfigPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	k, err := kernel.Boot(cfg)
	if err != nil {
		return err
	}
	defer k.Shutdown()

	path := GetSnapshotPath()
	if err := saveKernel(k, path); err != nil {
		return err
	}

	procs := k.Processes()
	if len(procs) == 1 {
		fmt.Printf("booted %s, init pid %d, snapshot %s\n", k.Hostname, procs[0].Pid, path)
	}
	return nil
}
