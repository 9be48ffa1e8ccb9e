package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"muxd/internal/session/protocol"
	"muxd/internal/socketdir"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [name]",
		Short: "Show a running session's tab/pane counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "main"
			if len(args) == 1 {
				name = args[0]
			}
			st, err := queryStatus(name)
			if err != nil {
				return err
			}
			attached := "no"
			if st.Attached {
				attached = "yes"
			}
			fmt.Printf("%s: %d tab(s), %d pane(s), started %s, attached: %s\n",
				st.Name, st.Tabs, st.Panes, st.StartedAt, attached)
			return nil
		},
	}
	return cmd
}

// queryStatus dials the named session's socket, sends a "status" request,
// and returns its answer without touching the framed attach protocol.
func queryStatus(name string) (*protocol.Status, error) {
	sockPath, err := socketdir.Find(name)
	if err != nil {
		return nil, fmt.Errorf("find session %q: %w", name, err)
	}
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("dial session %q: %w", name, err)
	}
	defer conn.Close()

	if err := protocol.SendRequest(conn, &protocol.Request{Type: "status"}); err != nil {
		return nil, fmt.Errorf("send status request: %w", err)
	}
	resp, err := protocol.ReadResponse(conn)
	if err != nil {
		return nil, fmt.Errorf("read status response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp.Status, nil
}
