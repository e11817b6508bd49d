// Package debug is a category-tagged file logger. Logging is off until
// Enable is called; a console can additionally mirror every line. Mirrored
// lines are queued and dropped when the mirror falls behind, so a stalled
// reader never blocks a caller.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// mirrorDepth bounds lines waiting for a slow mirror.
const mirrorDepth = 256

var (
	mu            sync.Mutex
	file          *os.File
	mirror        chan string
	mirrorDropped int
	enabled       bool
	counters      = make(map[string]int)
)

// Dir is where the log file is written.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lattice-board")
}

// Enable starts logging to debug.log under Dir, truncating the previous run.
func Enable() error {
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		return nil
	}

	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(Dir(), "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	file = f
	enabled = true
	writeLocked("debug", "=== debug logging started ===")
	return nil
}

// Disable closes the log file. A mirror, if set, keeps receiving lines.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// SetMirror copies every log line to w (nil stops mirroring). Lines go to
// the mirror even when file logging is disabled. w is written from its own
// goroutine.
func SetMirror(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if mirror != nil {
		close(mirror)
		mirror = nil
	}
	mirrorDropped = 0
	if w == nil {
		return
	}
	lines := make(chan string, mirrorDepth)
	mirror = lines
	go func() {
		for line := range lines {
			io.WriteString(w, line)
		}
	}()
}

func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if file == nil && mirror == nil {
		return
	}
	writeLocked(category, fmt.Sprintf(format, args...))
}

// LogEvery logs only every n-th call with the same category and format, for
// high-frequency events.
func LogEvery(n int, category, format string, args ...any) {
	key := category + format
	mu.Lock()
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n <= 1 || count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

func writeLocked(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	if file != nil {
		fmt.Fprintf(file, "[%s] %-10s %s\n", ts, category, msg)
		file.Sync() // flush so lines survive a crash
	}
	if mirror != nil {
		line := fmt.Sprintf("[%s] %-10s %s\r\n", ts, category, msg)
		if mirrorDropped > 0 {
			line = fmt.Sprintf("[%s] %-10s %d mirrored line(s) lost\r\n", ts, "debug", mirrorDropped) + line
		}
		select {
		case mirror <- line:
			mirrorDropped = 0
		default:
			mirrorDropped++
		}
	}
}
