package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"axeberg-kernel/utils"
)

var attachTty string

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Bridge the host terminal to a simulated tty",
	Long: `attach reads the real host terminal's window size and termios
bits, applies them to a simulated tty.Tty, puts the host terminal into
raw mode for the duration, and restores it on exit. It demonstrates the
translation between a real terminal and axeberg's simulated termios
model without attempting to proxy a byte stream, since the simulated
tty has no I/O channel of its own.`,
	Args: cobra.NoArgs,
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)
	attachCmd.Flags().StringVar(&attachTty, "tty", "console", "name of the simulated tty to attach")
}

func runAttach(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("attach requires an interactive terminal on stdin")
	}

	path := GetSnapshotPath()
	k, err := loadKernel(path)
	if err != nil {
		return err
	}
	defer k.Shutdown()

	simTty, ok := k.Ttys.GetTty(attachTty)
	if !ok {
		simTty = k.Ttys.CreateTty(attachTty)
	}

	ws, err := utils.GetWinsize(os.Stdin)
	if err == nil {
		rows, cols := utils.ToSimulated(ws)
		simTty.SetWinsize(rows, cols)
	}

	hostTermios, err := utils.GetTermios(os.Stdin)
	if err == nil {
		simTty.Termios = utils.HostTermiosToSimulated(hostTermios)
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("put host terminal in raw mode: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	if hostTermios != nil {
		defer utils.SetTermios(os.Stdin, hostTermios)
		defer func() {
			synced := utils.SimulatedToHostTermios(*hostTermios, simTty.Termios)
			utils.SetTermios(os.Stdin, &synced)
		}()
	}
	if ws != nil {
		defer utils.SetWinsize(os.Stdin, ws)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "attached to %s: canonical=%v echo=%v winsize=%dx%d\n",
		attachTty, simTty.IsCanonical(), simTty.IsEcho(), simTty.Rows, simTty.Cols)
	fmt.Fprintln(cmd.OutOrStdout(), "press any key to detach, or Ctrl-C")

	ctx := GetContext()
	keyPress := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		os.Stdin.Read(buf)
		close(keyPress)
	}()

	select {
	case <-keyPress:
	case <-ctx.Done():
	}

	return saveKernel(k, path)
}
