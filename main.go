// axctl drives axeberg's simulated kernel core: a cooperative,
// single-process simulation of processes, credentials, mounts,
// sockets, terminals, and a work-stealing scheduler, with no real OS
// sandboxing and no binary compatibility with an actual kernel.
//
// Commands:
//
//	boot      - Boot a kernel instance from a bootspec and snapshot it
//	ps        - List the process table
//	fork      - Fork a copy-on-write child
//	exec      - Replace a process's image in place
//	kill      - Send a signal to a process
//	exit      - Mark a process a zombie
//	reap      - Remove a zombie's process table entry
//	mount     - Add a mount table entry
//	umount    - Remove a mount table entry
//	mounts    - Print /proc/mounts-formatted mount table
//	snapshot  - Inspect or copy the kernel snapshot
//	attach    - Bridge the host terminal to a simulated tty
//	version   - Print version information
package main

import (
	"fmt"
	"os"

	"axeberg-kernel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "axctl: %v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}
