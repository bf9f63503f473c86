// Package x11randr lists outputs by speaking the X11 RandR extension directly.
package x11randr

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/frudas24/dualhead/internal/monitor"
)

// Querier lists outputs over a fresh X connection per call.
type Querier struct {
	// Display is the X display to dial; empty means $DISPLAY.
	Display string
	// Timeout bounds the dial and the whole request sequence; zero means none.
	Timeout time.Duration

	list func() ([]monitor.Output, error)
}

// New returns a Querier for display.
func New(display string, timeout time.Duration) *Querier {
	q := &Querier{Display: display, Timeout: timeout}
	q.list = q.query
	return q
}

type listResult struct {
	outputs []monitor.Output
	err     error
}

// Outputs connects, reads the screen resources and closes the connection.
// xgb requests take no context, so the exchange runs in its own goroutine and
// is abandoned when ctx ends or the timeout passes.
func (q *Querier) Outputs(ctx context.Context) ([]monitor.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.Timeout)
		defer cancel()
	}
	list := q.list
	if list == nil {
		list = q.query
	}

	done := make(chan listResult, 1)
	go func() {
		outputs, err := list()
		done <- listResult{outputs: outputs, err: err}
	}()

	select {
	case res := <-done:
		return res.outputs, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("randr query: %w", ctx.Err())
	}
}

// query performs the blocking RandR exchange.
func (q *Querier) query() ([]monitor.Output, error) {
	conn, err := q.dial()
	if err != nil {
		return nil, fmt.Errorf("connect to X display: %w", err)
	}
	defer conn.Close()

	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr extension: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root

	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("screen resources: %w", err)
	}
	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primary = reply.Output
	}

	outputs := make([]monitor.Output, 0, len(res.Outputs))
	for _, id := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, id, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, fmt.Errorf("output %d info: %w", id, err)
		}
		var mode *monitor.Mode
		if info.Crtc != 0 {
			crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
			if err != nil {
				return nil, fmt.Errorf("output %s crtc: %w", info.Name, err)
			}
			mode = crtcMode(crtc)
		}
		outputs = append(outputs, monitor.Output{
			Name:    string(info.Name),
			State:   stateFromConnection(info.Connection),
			Mode:    mode,
			Primary: primary != 0 && id == primary,
		})
	}
	return outputs, nil
}

// dial opens the configured display.
func (q *Querier) dial() (*xgb.Conn, error) {
	if q.Display == "" {
		return xgb.NewConn()
	}
	return xgb.NewConnDisplay(q.Display)
}

// stateFromConnection maps the RandR connection byte to a state.
func stateFromConnection(c byte) monitor.ConnectionState {
	switch c {
	case randr.ConnectionConnected:
		return monitor.Connected
	case randr.ConnectionDisconnected:
		return monitor.Disconnected
	default:
		return monitor.Unknown
	}
}

// crtcMode returns the geometry of an active CRTC, or nil when it drives nothing.
func crtcMode(crtc *randr.GetCrtcInfoReply) *monitor.Mode {
	if crtc == nil || crtc.Width == 0 || crtc.Height == 0 {
		return nil
	}
	return &monitor.Mode{
		Width:  int(crtc.Width),
		Height: int(crtc.Height),
		X:      int(crtc.X),
		Y:      int(crtc.Y),
	}
}
