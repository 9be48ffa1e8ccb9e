// Package protocol implements the attach wire format between a muxd
// client and the daemon holding its session: a short JSON handshake
// followed by a length-prefixed frame stream (spec §6 "external
// interfaces" — client <-> daemon is a private wire format, not a
// public API). Grounded on the teacher's session/message framing
// convention (internal/session/attach.go's frameWriter/frameInputReader
// callers), rebuilt here since the teacher's own message package was
// never present in the retrieved pack (see DESIGN.md).
package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// FrameType tags the payload of a length-prefixed frame.
type FrameType byte

const (
	FrameData FrameType = iota + 1
	FrameControl
)

const maxFrameLen = 1 << 20

// WriteFrame writes a one-byte type, a 4-byte big-endian length, then
// payload.
func WriteFrame(w io.Writer, t FrameType, payload []byte) error {
	header := make([]byte, 5)
	header[0] = byte(t)
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one frame written by WriteFrame.
func ReadFrame(r io.Reader) (FrameType, []byte, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	t := FrameType(header[0])
	n := binary.BigEndian.Uint32(header[1:])
	if n > maxFrameLen {
		return 0, nil, fmt.Errorf("frame length %d exceeds max %d", n, maxFrameLen)
	}
	if n == 0 {
		return t, nil, nil
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("read frame payload: %w", err)
	}
	return t, payload, nil
}

// Request is the handshake a client sends immediately after dialing the
// socket, before the connection switches to the framed protocol.
type Request struct {
	Type string `json:"type"` // "attach" or "status"
	Rows int    `json:"rows,omitempty"`
	Cols int    `json:"cols,omitempty"`

	// OscFg/OscBg are the attaching terminal's real foreground/background,
	// in X11 rgb: form, detected client-side (see internal/cmd) so the
	// daemon can answer a child process's OSC 10/11 default-color query
	// truthfully instead of with a generic dark-palette guess.
	OscFg string `json:"osc_fg,omitempty"`
	OscBg string `json:"osc_bg,omitempty"`

	// ColorProfile is the attaching terminal's negotiated color
	// capability, one of "truecolor", "ansi256", "ansi", "ascii",
	// detected client-side with charmbracelet/colorprofile (see
	// internal/cmd) so the daemon can downsample SGR colors to match
	// (spec §6 "24-bit SGR").
	ColorProfile string `json:"color_profile,omitempty"`
}

// Response answers a Request. For "attach", OK==true means the caller
// should now read/write frames; for "status" it carries Status instead.
type Response struct {
	OK     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// Status is the JSON body returned for a "status" Request (also used by
// `muxd status`).
type Status struct {
	Name      string `json:"name"`
	Tabs      int    `json:"tabs"`
	Panes     int    `json:"panes"`
	StartedAt string `json:"started_at"`
	Attached  bool   `json:"attached"`
}

// ResizeControl is the JSON body of a FrameControl frame reporting a
// terminal size change.
type ResizeControl struct {
	Type string `json:"type"` // "resize"
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

// handshake frames are newline-delimited JSON, read/written once per
// connection before any FrameData/FrameControl frame.

func SendRequest(w io.Writer, req *Request) error {
	return writeJSONLine(w, req)
}

func ReadRequest(r io.Reader) (*Request, error) {
	var req Request
	if err := readJSONLine(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func SendResponse(w io.Writer, resp *Response) error {
	return writeJSONLine(w, resp)
}

func ReadResponse(r io.Reader) (*Response, error) {
	var resp Response
	if err := readJSONLine(r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func writeJSONLine(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// readJSONLine reads one newline-terminated JSON value a byte at a time.
// A connection handshake is small and infrequent enough that this isn't
// worth a buffered reader that could over-read into the frame stream
// that follows.
func readJSONLine(r io.Reader, v any) error {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				break
			}
			line = append(line, buf[0])
		}
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				break
			}
			return err
		}
	}
	return json.Unmarshal(line, v)
}
