package cmd

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"muxd/internal/session/protocol"
	"muxd/internal/socketdir"
)

func newAttachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach [name]",
		Short: "Attach to a running muxd session",
		Long: `Dials the Unix socket of a running daemon, reports this terminal's
size and color capability, then bridges stdin/stdout to the session until
the daemon or the client disconnects.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "main"
			if len(args) == 1 {
				name = args[0]
			}
			return runAttach(name)
		},
	}
	return cmd
}

func runAttach(name string) error {
	sockPath, err := socketdir.Find(name)
	if err != nil {
		return fmt.Errorf("find session %q: %w", name, err)
	}

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		return fmt.Errorf("dial session %q: %w", name, err)
	}
	defer conn.Close()

	req := &protocol.Request{Type: "attach"}

	stdinFd := os.Stdin.Fd()
	interactive := isatty.IsTerminal(stdinFd)
	var restore func()

	if interactive {
		cols, rows, err := term.GetSize(int(stdinFd))
		if err == nil {
			req.Rows, req.Cols = rows, cols
		}

		output := termenv.NewOutput(os.Stdout)
		req.OscFg = colorToX11(output.ForegroundColor())
		req.OscBg = colorToX11(output.BackgroundColor())
		req.ColorProfile = colorProfileName(colorprofile.Detect(os.Stdout, os.Environ()))

		state, err := term.MakeRaw(int(stdinFd))
		if err != nil {
			return fmt.Errorf("set raw mode: %w", err)
		}
		restore = func() {
			term.Restore(int(stdinFd), state)
			os.Stdout.Write([]byte("\033[?25h\033[0m\r\n"))
		}
		defer restore()
	} else {
		req.ColorProfile = "ascii"
	}

	if err := protocol.SendRequest(conn, req); err != nil {
		return fmt.Errorf("send attach request: %w", err)
	}
	resp, err := protocol.ReadResponse(conn)
	if err != nil {
		return fmt.Errorf("read attach response: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("attach refused: %s", resp.Error)
	}

	if interactive {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		go watchResize(conn, sigCh, stdinFd)
	}

	go pipeStdinToConn(conn, os.Stdin)

	return pipeFramesToStdout(conn, os.Stdout)
}

// pipeStdinToConn forwards raw client bytes as FrameData frames, the
// client half of the protocol handshake internal/session/attach.go reads
// on the daemon side (spec §6 "client protocol").
func pipeStdinToConn(conn net.Conn, in *os.File) {
	buf := make([]byte, 4096)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if werr := protocol.WriteFrame(conn, protocol.FrameData, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// pipeFramesToStdout reads rendered frames from the daemon and writes
// their bytes straight to the local terminal; the daemon has already
// composed a complete ANSI byte stream (spec §4.E "frame composition").
func pipeFramesToStdout(conn net.Conn, out *os.File) error {
	for {
		ft, payload, err := protocol.ReadFrame(conn)
		if err != nil {
			return nil
		}
		if ft == protocol.FrameData && len(payload) > 0 {
			out.Write(payload)
		}
	}
}

// watchResize reports a new terminal size to the daemon as a
// FrameControl resize, mirroring the synchronous-resize discipline spec
// §5 describes at the session layer instead of a raw SIGWINCH forward.
func watchResize(conn net.Conn, sigCh <-chan os.Signal, stdinFd uintptr) {
	for range sigCh {
		cols, rows, err := term.GetSize(int(stdinFd))
		if err != nil {
			continue
		}
		payload, err := json.Marshal(protocol.ResizeControl{Type: "resize", Rows: rows, Cols: cols})
		if err != nil {
			continue
		}
		if protocol.WriteFrame(conn, protocol.FrameControl, payload) != nil {
			return
		}
	}
}
