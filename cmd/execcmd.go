package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"axeberg-kernel/ids"
)

var (
	execEnv []string
	execCwd string
)

var execCmd = &cobra.Command{
	Use:   "exec <pid> <name>",
	Short: "Replace pid's image in place",
	Long: `exec replaces the named process's image: its name, environment
additions, and working directory change, but its pid, credentials, and
open file descriptors survive, matching POSIX exec semantics.`,
	Args: cobra.ExactArgs(2),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringArrayVarP(&execEnv, "env", "e", nil, "KEY=VALUE environment addition (repeatable)")
	execCmd.Flags().StringVar(&execCwd, "cwd", "", "working directory to exec into")
}

func runExec(cmd *cobra.Command, args []string) error {
	pid, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("parse pid: %w", err)
	}
	name := args[1]

	env := make(map[string]string, len(execEnv))
	for _, kv := range execEnv {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("malformed --env %q, want KEY=VALUE", kv)
		}
		env[key] = value
	}

	path := GetSnapshotPath()
	k, err := loadKernel(path)
	if err != nil {
		return err
	}
	defer k.Shutdown()

	if err := k.Exec(ids.Pid(pid), name, env, execCwd, 0); err != nil {
		return err
	}
	return saveKernel(k, path)
}
