package cmd

import (
	"github.com/spf13/cobra"

	"axeberg-kernel/mount"
)

var mountOptions string

var mountCmd = &cobra.Command{
	Use:   "mount <source> <target> <fstype>",
	Short: "Add an entry to the kernel's mount table",
	Args:  cobra.ExactArgs(3),
	RunE:  runMount,
}

func init() {
	rootCmd.AddCommand(mountCmd)
	mountCmd.Flags().StringVarP(&mountOptions, "options", "o", "", "comma-separated mount options")
}

func runMount(cmd *cobra.Command, args []string) error {
	source, target, fstype := args[0], args[1], args[2]

	path := GetSnapshotPath()
	k, err := loadKernel(path)
	if err != nil {
		return err
	}
	defer k.Shutdown()

	opts := mount.ParseMountOptions(mountOptions)
	if err := k.Mounts.Mount(source, target, mount.ParseFsType(fstype), opts, 0); err != nil {
		return err
	}
	return saveKernel(k, path)
}

var umountCmd = &cobra.Command{
	Use:   "umount <target>",
	Short: "Remove an entry from the kernel's mount table",
	Args:  cobra.ExactArgs(1),
	RunE:  runUmount,
}

func init() {
	rootCmd.AddCommand(umountCmd)
}

func runUmount(cmd *cobra.Command, args []string) error {
	path := GetSnapshotPath()
	k, err := loadKernel(path)
	if err != nil {
		return err
	}
	defer k.Shutdown()

	if _, err := k.Mounts.Umount(args[0]); err != nil {
		return err
	}
	return saveKernel(k, path)
}

var mountsCmd = &cobra.Command{
	Use:   "mounts",
	Short: "Print the mount table in /proc/mounts format",
	Args:  cobra.NoArgs,
	RunE:  runMounts,
}

func init() {
	rootCmd.AddCommand(mountsCmd)
}

func runMounts(cmd *cobra.Command, args []string) error {
	k, err := loadKernel(GetSnapshotPath())
	if err != nil {
		return err
	}
	defer k.Shutdown()

	cmd.Print(k.Mounts.ToProcMounts())
	return nil
}
