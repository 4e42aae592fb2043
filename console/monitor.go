package console

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// The monitor is an interactive single-step debugger for the
// console, handy when a ROM wedges before it ever enables
// rendering.
type monitorModel struct {
	con    *Console
	offset uint16 // base of the memory page on display
	dump   bool   // show the pad dump pane
	err    error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func (m monitorModel) Init() tea.Cmd {
	return nil
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "s":
			if _, err := m.con.Step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		case "f":
			if err := m.con.RunFrame(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		case "r":
			m.con.Reset()
		case "d":
			m.dump = !m.dump
		case "l", "pgdown":
			m.offset += 0x100
		case "h", "pgup":
			m.offset -= 0x100
		}
	}

	return m, nil
}

// renderPage renders 16 lines of 16 bytes from the page offset,
// highlighting the PC. The bytes come in through the bus, so
// browsing the $2000-$3FFF window perturbs the PPU's read latches.
func (m monitorModel) renderPage() string {
	var sb strings.Builder

	pc := m.con.cpu.PC()
	for row := 0; row < 16; row++ {
		start := m.offset + uint16(row*16)
		sb.WriteString(fmt.Sprintf("%04x | ", start))
		for i := 0; i < 16; i++ {
			a := start + uint16(i)
			if a == pc {
				sb.WriteString(fmt.Sprintf("[%02x] ", m.con.Read(a)))
			} else {
				sb.WriteString(fmt.Sprintf(" %02x  ", m.con.Read(a)))
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (m monitorModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("famigo monitor") + "\n\n")
	sb.WriteString(statusStyle.Render(m.con.cpu.String()) + "\n")
	sb.WriteString(statusStyle.Render(m.con.ppu.String()) + "\n\n")
	sb.WriteString(m.renderPage() + "\n")

	if m.dump {
		sb.WriteString(spew.Sdump(m.con.pads[0], m.con.pads[1]))
	}

	if m.err != nil {
		sb.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	sb.WriteString(helpStyle.Render("space/s: step  f: frame  r: reset  h/l: page  d: dump pads  q: quit"))

	return sb.String()
}

// RunMonitor drops into the interactive monitor in place of the
// windowed frontend.
func (c *Console) RunMonitor() error {
	m := monitorModel{con: c, offset: c.cpu.PC() & 0xFF00}

	fm, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}

	if fm, ok := fm.(monitorModel); ok && fm.err != nil {
		return fm.err
	}

	return nil
}
