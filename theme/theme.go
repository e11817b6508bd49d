package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps UI roles onto a palette.
type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Held    rune // ●
	Control rune // ▪
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{Held: '●', Control: '▪'},
	}
}

// Role is a position along the palette ramp.
type Role float64

const (
	RoleBG      Role = 0.0
	RoleSurface Role = 0.1
	RoleMuted   Role = 0.25
	RoleFG      Role = 0.45
	RoleAccent  Role = 0.6
	RoleActive  Role = 0.75
	RoleWarning Role = 0.85
	RoleSuccess Role = 1.0
)

// Color returns the lipgloss colour for a role.
func (t *Theme) Color(r Role) lipgloss.Color {
	c := t.Palette.Lookup(float64(r))
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Style is a foreground style in the role's colour.
func (t *Theme) Style(r Role) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color(r))
}
