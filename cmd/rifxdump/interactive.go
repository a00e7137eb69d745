package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/rifx/chunk"
	"github.com/wippyai/rifx/movie"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// listHeight is the number of slot rows shown at once.
const listHeight = 20

type modelState int

const (
	stateBrowse modelState = iota
	stateFilter
	stateDetail
)

type interactiveModel struct {
	movie    *movie.Movie
	filename string
	filter   textinput.Model
	detail   viewport.Model
	slots    []uint32
	selected int
	top      int
	state    modelState
}

func newInteractiveModel(filename string, m *movie.Movie) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "tag"
	ti.Prompt = "filter: "
	ti.CharLimit = 4
	ti.Width = 10

	im := &interactiveModel{
		movie:    m,
		filename: filename,
		filter:   ti,
		detail:   viewport.New(80, listHeight),
		state:    stateBrowse,
	}
	im.applyFilter()
	return im
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) applyFilter() {
	tag := chunk.Tag(m.filter.Value())
	if tag == "" {
		m.slots = m.movie.Indices()
	} else {
		m.slots = m.movie.ChunksByTag(tag)
	}
	m.selected, m.top = 0, 0
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-6, 1)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilter:
			switch msg.String() {
			case "enter", "esc":
				if msg.String() == "esc" {
					m.filter.SetValue("")
				}
				m.filter.Blur()
				m.applyFilter()
				m.state = stateBrowse
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m, cmd

		case stateDetail:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "enter":
				m.state = stateBrowse
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.slots)-1 {
				m.selected++
			}

		case "/":
			m.state = stateFilter
			return m, m.filter.Focus()

		case "enter":
			if len(m.slots) > 0 {
				c, _ := m.movie.Chunk(m.slots[m.selected])
				m.detail.SetContent(describe(m.slots[m.selected], c))
				m.detail.GotoTop()
				m.state = stateDetail
			}
		}

		if m.selected < m.top {
			m.top = m.selected
		} else if m.selected >= m.top+listHeight {
			m.top = m.selected - listHeight + 1
		}
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RIFX Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %s, codec %s, %d chunks",
		m.movie.ByteOrder(), m.movie.Meta().Codec, m.movie.Len())))
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse, stateFilter:
		if len(m.slots) == 0 {
			b.WriteString("No chunks.\n")
		}
		end := min(m.top+listHeight, len(m.slots))
		for i := m.top; i < end; i++ {
			c, _ := m.movie.Chunk(m.slots[i])
			line := fmt.Sprintf("%5d  %-4s  %10d  %s", m.slots[i], c.Tag, c.Length, summarize(c))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(m.filter.View())
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("enter apply • esc clear"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • / filter by tag • q quit"))
		}

	case stateDetail:
		b.WriteString(m.detail.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}

	return b.String()
}

// describe renders every decoded field of a chunk, and a hex dump of opaque
// payloads.
func describe(slot uint32, c *chunk.Chunk) string {
	var b strings.Builder
	field := func(name string, v any) {
		fmt.Fprintf(&b, "%s %v\n", fieldStyle.Render(fmt.Sprintf("%-16s", name)), v)
	}

	fmt.Fprintf(&b, "%s slot %d\n\n", tagStyle.Render(string(c.Tag)), slot)
	field("offset", c.Offset)
	field("length", c.Length)

	switch v := c.Variant.(type) {
	case *chunk.Meta:
		field("codec", v.Codec)
	case *chunk.InitialMap:
		field("entry_count", v.EntryCount)
		for i, e := range v.Entries {
			field(fmt.Sprintf("entry[%d]", i), e)
		}
	case *chunk.MemoryMap:
		field("unknown0", v.Unknown0)
		field("unknown1", v.Unknown1)
		field("chunk_count_max", v.ChunkCountMax)
		field("chunk_count_used", v.ChunkCountUsed)
		field("junk_pointer", v.JunkPointer)
		field("unknown2", v.Unknown2)
		field("free_pointer", v.FreePointer)
		b.WriteString("\n")
		for i, e := range v.Entries {
			fmt.Fprintf(&b, "%5d  %-4s  len %-8d off %-8d pad %d unk %d link %d\n",
				i, e.Tag, e.Length, e.Offset, e.Padding, e.Unknown0, e.Link)
		}
	case *chunk.Unimplemented:
		b.WriteString("\n")
		b.WriteString(hex.Dump(v.Payload))
	}

	return b.String()
}

func runInteractive(filename string, m *movie.Movie) error {
	p := tea.NewProgram(newInteractiveModel(filename, m), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
