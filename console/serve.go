package console

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"

	"lattice-board/debug"
)

type Mode uint8

const (
	// LogMode echoes input and streams debug log lines.
	LogMode Mode = iota
	// DashboardMode redraws the dashboard in place.
	DashboardMode
)

const (
	DefaultBaud   = 115200
	DefaultRedraw = 100 * time.Millisecond
)

// OpenSerial opens a serial device for the console. The read timeout keeps
// the reader goroutine responsive to shutdown.
func OpenSerial(device string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	if err := p.SetReadTimeout(DefaultRedraw); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	debug.Log("console", "serial port %s opened at %d baud", device, baud)
	return p, nil
}

// Console runs the command/dashboard loop over one byte stream.
type Console struct {
	Port    io.ReadWriter
	Targets Targets
	Status  func() Status
	Redraw  time.Duration

	mu   sync.Mutex
	mode Mode

	wmu sync.Mutex // serializes port writes
}

func New(port io.ReadWriter, targets Targets, status func() Status) *Console {
	return &Console{Port: port, Targets: targets, Status: status, Redraw: DefaultRedraw}
}

func (c *Console) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Serve runs until ctx is done or the port fails.
func (c *Console) Serve(ctx context.Context) error {
	debug.SetMirror(logWriter{c})
	defer debug.SetMirror(nil)

	input := make(chan []byte)
	readErr := make(chan error, 1)
	go c.readLoop(ctx, input, readErr)

	redraw := c.Redraw
	if redraw <= 0 {
		redraw = DefaultRedraw
	}
	ticker := time.NewTicker(redraw)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case data := <-input:
			c.handleInput(data)
		case <-ticker.C:
			if c.Mode() == DashboardMode && c.Status != nil {
				c.write(cursorHome + Dashboard(c.Status()))
			}
		}
	}
}

func (c *Console) readLoop(ctx context.Context, input chan<- []byte, readErr chan<- error) {
	buf := make([]byte, 64)
	for {
		n, err := c.Port.Read(buf)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			readErr <- err
			return
		}
		if n == 0 {
			// read timeout
			continue
		}
		select {
		case input <- append([]byte(nil), buf[:n]...):
		case <-ctx.Done():
			return
		}
	}
}

func (c *Console) handleInput(data []byte) {
	for _, b := range data {
		if b == 'D' || b == 'd' {
			c.toggleMode()
		}
	}
	if c.Mode() == LogMode {
		c.writeBytes(data)
	}
	c.Targets.ApplyAll(data)
}

func (c *Console) toggleMode() {
	c.mu.Lock()
	if c.mode == LogMode {
		c.mode = DashboardMode
	} else {
		c.mode = LogMode
	}
	mode := c.mode
	c.mu.Unlock()

	if mode == DashboardMode {
		c.write(clearScreen + hideCursor)
	} else {
		c.write(showCursor + "\r\n--- Log Mode ---\r\n")
	}
}

func (c *Console) write(s string) { c.writeBytes([]byte(s)) }

func (c *Console) writeBytes(p []byte) {
	if err := c.writePort(p); err != nil {
		debug.LogEvery(50, "console", "write error: %v", err)
	}
}

func (c *Console) writePort(p []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.Port.Write(p)
	return err
}

// logWriter forwards debug lines to the port while in log mode. Logging its
// own failures would feed them straight back in, so it stays quiet.
type logWriter struct{ c *Console }

func (w logWriter) Write(p []byte) (int, error) {
	if w.c.Mode() == LogMode {
		w.c.writePort(p)
	}
	return len(p), nil
}
