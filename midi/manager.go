package midi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"lattice-board/debug"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// portScanTimeout bounds one port enumeration; CoreMIDI can hang.
const portScanTimeout = 3 * time.Second

// DeviceOptions selects which ports become controllers. Matching is by
// case-insensitive substring.
type DeviceOptions struct {
	// Launchpads defaults to "launchpad".
	Launchpads []string
	// Keyboards are plain note inputs played as a grid.
	Keyboards []string
	// Ignore excludes ports, e.g. the synth the transport talks to.
	Ignore []string
}

// DeviceManager handles hot-plug detection of grid controllers
type DeviceManager struct {
	opts        DeviceOptions
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

func NewDeviceManager(opts DeviceOptions) *DeviceManager {
	if len(opts.Launchpads) == 0 {
		opts.Launchpads = []string{"launchpad"}
	}
	return &DeviceManager{
		opts:        opts,
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// GetLaunchpad returns the first connected Launchpad (or nil)
func (dm *DeviceManager) GetLaunchpad() Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, c := range dm.controllers {
		if c.Type() == ControllerLaunchpad {
			return c
		}
	}
	return nil
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

// ErrPortScanTimeout means the MIDI backend did not enumerate ports in
// time. On macOS: sudo killall coreaudiod midiserver
var ErrPortScanTimeout = errors.New("midi: port scan timed out")

// ListPorts enumerates MIDI ports, giving up after portScanTimeout.
func ListPorts() ([]drivers.In, []drivers.Out, error) {
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case res := <-ch:
		return res.inPorts, res.outPorts, nil
	case <-time.After(portScanTimeout):
		return nil, nil, ErrPortScanTimeout
	}
}

func (dm *DeviceManager) scan() {
	inPorts, outPorts, err := ListPorts()
	if err != nil {
		debug.LogEvery(10, "devices", "%v", err)
		return
	}

	seenIDs := make(map[string]bool)
	for _, inPort := range inPorts {
		id := inPort.String()
		if matchAny(id, dm.opts.Ignore) {
			continue
		}
		launchpad := isLaunchpad(id, dm.opts.Launchpads)
		if !launchpad && !matchAny(id, dm.opts.Keyboards) {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		var c Controller
		var err error
		if launchpad {
			c, err = NewLaunchpadController(id, inPort, matchingOut(id, outPorts))
		} else {
			c, err = NewKeyboardController(id, inPort)
		}
		if err != nil {
			debug.Log("devices", "open %s: %v", id, err)
			continue
		}
		debug.Log("devices", "connected %s (%s)", id, c.Type())

		dm.mu.Lock()
		dm.controllers[id] = c
		dm.mu.Unlock()
		dm.events <- DeviceEvent{Type: DeviceConnected, Controller: c, ID: id}
	}

	dm.mu.Lock()
	var gone []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		dm.controllers[id].Close()
		delete(dm.controllers, id)
		debug.Log("devices", "disconnected %s", id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func matchingOut(name string, outs []drivers.Out) drivers.Out {
	for _, op := range outs {
		if strings.EqualFold(op.String(), name) {
			return op
		}
	}
	return nil
}

func isLaunchpad(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	// the Launchpad X exposes a DAW port alongside the MIDI port
	if strings.Contains(lower, "launchpad") && !strings.Contains(lower, "midi") {
		return false
	}
	return matchAny(name, patterns)
}

func matchAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && containsIgnoreCase(name, p) {
			return true
		}
	}
	return false
}
