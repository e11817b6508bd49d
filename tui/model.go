package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lattice-board/board"
	"lattice-board/console"
	"lattice-board/midi"
	"lattice-board/theme"
	"lattice-board/tuning"
	"lattice-board/widgets"
)

// Remote voices and stats change without an update notification.
const refreshInterval = 100 * time.Millisecond

// layoutBounds holds cached layout info
type layoutBounds struct {
	gridTop  int
	gridRows int
	gridCols int
}

type Model struct {
	Manager    *board.Manager
	DeviceMgr  *midi.DeviceManager
	Theme      *theme.Theme
	quitting   bool
	tooltip    string
	bounds     *layoutBounds
	controller midi.Controller // current controller (may be nil)
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

type tickMsg time.Time

func NewModel(manager *board.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Manager:   manager,
		DeviceMgr: deviceMgr,
		Theme:     th,
		bounds:    &layoutBounds{},
	}
}

func ListenForUpdates(manager *board.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForDevices(m.DeviceMgr),
		tick(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] < 0x80 {
			m.Manager.Apply(byte(msg.Runes[0]))
		}

	case tea.MouseMsg:
		m.tooltip = m.hitTest(msg.X, msg.Y)

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case tickMsg:
		return m, tick()

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			if m.controller == nil && event.Controller != nil {
				m.controller = event.Controller
				m.Manager.SetController(event.Controller)
			}
		} else if event.Type == midi.DeviceDisconnected {
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
				m.Manager.SetController(nil)
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

// hitTest describes the pad under the mouse.
func (m Model) hitTest(x, y int) string {
	b := m.bounds
	row, col, ok := widgets.PadAt(b.gridRows, b.gridCols, x, y-b.gridTop)
	if !ok {
		return ""
	}
	if cmd, ok := board.ControlCommand(row, col); ok {
		return fmt.Sprintf("control %q: %s", cmd, console.Describe(cmd))
	}
	coord, ok := m.Manager.Board.KeyToCoord(row, col)
	if !ok {
		return ""
	}
	p := m.Manager.Tunables.Snapshot()
	center := m.Manager.Board.Center()
	cents := tuning.PitchCents(coord, center, p.FifthSize)
	return fmt.Sprintf("pad %d,%d  coord (%d,%d)  %.2f cents  note %d",
		row, col, coord.X, coord.Y, cents, tuning.NearestNote(cents))
}

// grid collects the current frame keyed by pad position and its extent.
func (m Model) grid() (rows, cols int, pads map[[2]int][3]uint8) {
	frame := m.Manager.Frame()
	pads = make(map[[2]int][3]uint8, len(frame))
	for _, u := range frame {
		pads[[2]int{u.Row, u.Col}] = u.Color
		if u.Row+1 > rows {
			rows = u.Row + 1
		}
		if u.Col+1 > cols {
			cols = u.Col + 1
		}
	}
	return rows, cols, pads
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Manager.Snapshot()

	// Styles
	headerStyle := m.Theme.Style(theme.RoleAccent)
	valueStyle := m.Theme.Style(theme.RoleFG)
	activeStyle := m.Theme.Style(theme.RoleActive)
	dimStyle := m.Theme.Style(theme.RoleMuted)
	warnStyle := m.Theme.Style(theme.RoleWarning)
	tooltipStyle := lipgloss.NewStyle().
		Foreground(m.Theme.FG()).
		Background(m.Theme.Muted()).
		Padding(0, 1)

	deviceStatus := dimStyle.Render("no controller")
	if m.controller != nil {
		deviceStatus = activeStyle.Render(m.controller.Type().String() + ": " + m.controller.ID())
	}

	header := headerStyle.Render("lattice-board " + console.Version + "  ") + deviceStatus

	var status strings.Builder
	fmt.Fprintf(&status, "%s %s   %s %s   %s %s\n",
		dimStyle.Render("mode"), activeStyle.Render(st.Tuning.Mode.String()),
		dimStyle.Render("fifth"), valueStyle.Render(fmt.Sprintf("%.1fc", st.Tuning.FifthSize)),
		dimStyle.Render("bend"), valueStyle.Render(fmt.Sprintf("%.1f", st.Tuning.PitchBendRange)))
	fmt.Fprintf(&status, "%s %s   %s %s   %s %s\n",
		dimStyle.Render("brightness"), valueStyle.Render(fmt.Sprintf("%.2f", st.LEDs.Brightness)),
		dimStyle.Render("hue"), valueStyle.Render(fmt.Sprintf("%.0f°", st.LEDs.HueOffset)),
		dimStyle.Render("anchor"), widgets.RenderPad(st.LEDs.Anchors[st.LEDs.Selected])+
			valueStyle.Render(fmt.Sprintf(" %d", st.LEDs.Selected)))

	held := make([]string, 0, len(st.Held))
	for _, h := range st.Held {
		held = append(held, fmt.Sprintf("%c%d/%d", m.Theme.Symbols.Held, h.Octaves, h.Fifths))
	}
	fmt.Fprintf(&status, "%s %s   %s %d\n",
		dimStyle.Render("held"), valueStyle.Render(strings.Join(held, " ")),
		dimStyle.Render("remote"), len(st.Remote))

	stats := fmt.Sprintf("sent %d  recv %d", st.Stats.Sent, st.Stats.Received)
	if st.Stats.Dropped > 0 || st.Stats.Rejected > 0 {
		stats += warnStyle.Render(fmt.Sprintf("  dropped %d  rejected %d", st.Stats.Dropped, st.Stats.Rejected))
	}
	status.WriteString(dimStyle.Render("midi ") + stats)

	rows, cols, pads := m.grid()
	gridView := widgets.RenderPadGrid(rows, cols, pads)

	legend := strings.Join([]string{
		widgets.RenderLegendItem(board.ColorFifths, "mode", "Fifths"),
		widgets.RenderLegendItem(board.ColorStandard, "mode", "Standard"),
		dimStyle.Render(fmt.Sprintf("  %c top row and right column run console commands", m.Theme.Symbols.Control)),
	}, "\n")

	var keys []widgets.KeyBinding
	for _, h := range console.Help {
		keys = append(keys, widgets.KeyBinding{Key: h.Keys, Desc: h.Action})
	}
	keys = append(keys, widgets.KeyBinding{Key: "q", Desc: "quit"})
	helpView := dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{{Keys: keys}}))

	// Compute layout bounds
	statusView := status.String()
	m.bounds.gridTop = 1 + lipgloss.Height(header) + 1 + lipgloss.Height(statusView) + 1
	m.bounds.gridRows = rows
	m.bounds.gridCols = cols

	// Build output
	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(statusView)
	out.WriteString("\n\n")
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, gridView, "    ", helpView))
	out.WriteString("\n\n")
	out.WriteString(legend)

	if m.tooltip != "" {
		out.WriteString("\n")
		out.WriteString(tooltipStyle.Render(m.tooltip))
	}

	return out.String()
}
