package cmd

import (
	"axeberg-kernel/bootspec"
	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/kernel"
)

// loadKernel restores a kernel from the snapshot at path, or boots a
// fresh default kernel if no snapshot exists yet. Every axctl verb that
// mutates kernel state goes through this so a sequence of invocations
// behaves like one long-lived kernel observed between syscalls.
func loadKernel(path string) (*kernel.Kernel, error) {
	snap, err := kernel.LoadSnapshot(path)
	if err != nil {
		if kerrors.IsKind(err, kerrors.ErrNotFound) {
			return kernel.Boot(bootspec.Default())
		}
		return nil, err
	}
	return kernel.Restore(*snap), nil
}

// saveKernel snapshots k to path.
func saveKernel(k *kernel.Kernel, path string) error {
	return k.Snapshot().Save(path)
}

// ExitCode maps a kernel error to the exit-code convention spec.md §6
// defines for the CLI-visible surface: 1 general failure, 2 usage, 126
// found-but-not-executable, 127 not found.
func ExitCode(err error) int {
	kind, ok := kerrors.GetKind(err)
	if !ok {
		return 1
	}
	switch kind {
	case kerrors.ErrNotFound:
		return 127
	case kerrors.ErrInvalidInput:
		return 2
	case kerrors.ErrPermission:
		return 126
	default:
		return 1
	}
}
