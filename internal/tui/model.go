// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"github.com/verte-zerg/tuidiner/internal/board"
	"github.com/verte-zerg/tuidiner/internal/game"
)

const (
	tickInterval = 100 * time.Millisecond
	shakeTicks   = 6
	strobeTicks  = 5
	winMessage   = "You did it! You rock at CSS."
)

type tickMsg time.Time

// Model implements the Bubble Tea game UI. It is also the session's listener:
// the session calls back into it synchronously from Update.
type Model struct {
	ctx     context.Context
	session *game.Session
	queue   *game.Queue
	input   textinput.Model

	width  int
	height int

	level       int
	instruction string
	total       int
	percent     float64
	completed   bool
	milestone   float64

	// shake marks the nodes of the last wrong guess for a few ticks.
	shake      []*html.Node
	shakeLeft  int
	ticks      int
	lastResult string

	menuOpen     bool
	menuCursor   int
	confirmReset bool
	// markupCursor selects a markup line for the tag description; -1 hides it.
	markupCursor int
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	instructionText = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	markupStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	strobeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	strobeDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	shakeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	selectedStyle   = lipgloss.NewStyle().Underline(true)
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#BFBFBF"))
	helpTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Underline(true)
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E9CD2"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	winStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#52C41A"))
	panelStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
)

// NewModel constructs the game UI. The session must be attached with
// SetSession before the program starts; queue is the session's scheduler.
func NewModel(ctx context.Context, queue *game.Queue) *Model {
	in := textinput.New()
	in.Placeholder = "Type in a CSS selector"
	in.Prompt = "> "
	in.CharLimit = 200
	in.Focus()
	return &Model{
		ctx:          ctx,
		queue:        queue,
		input:        in,
		markupCursor: -1,
	}
}

// SetSession attaches the session driven by this UI.
func (m *Model) SetSession(s *game.Session) {
	m.session = s
}

// LevelLoaded implements game.Listener.
func (m *Model) LevelLoaded(index int, instruction string) {
	m.level = index
	m.instruction = instruction
	m.completed = false
	m.shake = nil
	m.shakeLeft = 0
	m.lastResult = ""
	m.markupCursor = -1
	m.menuCursor = index
	m.input.SetValue("")
}

// GuessResult implements game.Listener.
func (m *Model) GuessResult(correct bool) {
	if correct {
		m.lastResult = "Correct!"
		return
	}
	m.lastResult = "Not quite. Try again."
}

// GameCompleted implements game.Listener.
func (m *Model) GameCompleted() {
	m.completed = true
}

// ProgressChanged implements game.Listener.
func (m *Model) ProgressChanged(totalCorrect int, percent float64) {
	m.total = totalCorrect
	m.percent = percent
}

// MilestoneReached implements game.Listener.
func (m *Model) MilestoneReached(percent float64) {
	m.milestone = percent
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.session != nil {
		m.session.Start(m.ctx)
	}
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.queue.RunDue(time.Time(msg))
		m.ticks++
		if m.shakeLeft > 0 {
			m.shakeLeft--
			if m.shakeLeft == 0 {
				m.shake = nil
			}
		}
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.confirmReset {
		m.confirmReset = false
		if key == "ctrl+r" || key == "y" {
			m.session.ResetAll(m.ctx)
		}
		return m, nil
	}
	if m.menuOpen {
		return m.handleMenuKey(key)
	}
	switch key {
	case "tab":
		m.menuOpen = true
		m.menuCursor = m.level
		return m, nil
	case "ctrl+n":
		m.session.Navigate(m.ctx, game.Next)
		return m, nil
	case "ctrl+p":
		m.session.Navigate(m.ctx, game.Prev)
		return m, nil
	case "ctrl+r":
		m.confirmReset = true
		return m, nil
	case "up":
		m.moveMarkupCursor(-1)
		return m, nil
	case "down":
		m.moveMarkupCursor(1)
		return m, nil
	case "esc":
		m.markupCursor = -1
		m.input.SetValue("")
		return m, nil
	case "enter":
		m.submit()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMenuKey(key string) (tea.Model, tea.Cmd) {
	count := m.session.Catalog().Len()
	switch key {
	case "tab", "esc":
		m.menuOpen = false
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < count-1 {
			m.menuCursor++
		}
	case "enter":
		m.menuOpen = false
		m.session.LoadLevel(m.ctx, m.menuCursor)
	}
	return m, nil
}

func (m *Model) submit() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}
	out := m.session.SubmitGuess(m.ctx, text)
	switch out.Kind {
	case game.OutcomeIncorrect:
		m.shake = out.Evaluation.Candidate
		m.shakeLeft = shakeTicks
	case game.OutcomeCorrect:
		m.input.SetValue("")
	}
}

func (m *Model) moveMarkupCursor(delta int) {
	lines := m.session.Catalog().Board(m.level).Lines(nil)
	next := m.markupCursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(lines) {
		next = len(lines) - 1
	}
	m.markupCursor = next
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.session == nil {
		return ""
	}
	var content string
	switch {
	case m.menuOpen:
		content = m.renderMenu()
	case m.completed:
		content = m.renderWin()
	default:
		content = m.renderLevel()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 80
	}
	w := int(float64(m.width) * 0.90)
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) renderHeader() string {
	count := m.session.Catalog().Len()
	header := titleStyle.Render(fmt.Sprintf("Level %d of %d", m.level+1, count))
	if m.session.Completed(m.level) {
		header += " " + doneStyle.Render("✓")
	}
	return header
}

func (m *Model) renderLevel() string {
	width := m.contentWidth()
	left := []string{
		m.renderHeader(),
		wrapText(m.instruction, instructionText, width/2),
		"",
		m.renderMarkup(),
		"",
		m.input.View(),
	}
	if specLine := m.renderSpecificity(); specLine != "" {
		left = append(left, specLine)
	}
	if m.lastResult != "" {
		style := shakeStyle
		if m.lastResult == "Correct!" {
			style = doneStyle
		}
		left = append(left, style.Render(m.lastResult))
	}
	if tip := m.renderTooltip(); tip != "" {
		left = append(left, tip)
	}
	help := panelStyle.Width(width / 2).Render(m.renderHelp(width/2 - 4))
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(left, "\n"), "  ", help)
}

// renderMarkup draws the board. Canonical nodes strobe; after a wrong guess
// the guessed nodes are marked until the shake wears off.
func (m *Model) renderMarkup() string {
	b := m.session.Catalog().Board(m.level)
	target := b.Query(m.session.Level().Selector)
	lines := b.Lines(target)
	shaken := make(map[*html.Node]struct{}, len(m.shake))
	for _, n := range m.shake {
		shaken[n] = struct{}{}
	}
	strobe := strobeStyle
	if (m.ticks/strobeTicks)%2 == 1 {
		strobe = strobeDimStyle
	}
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		style := markupStyle
		if line.Highlight {
			style = strobe
		}
		if _, ok := shaken[line.Node]; ok {
			style = shakeStyle
		}
		if i == m.markupCursor {
			style = style.Inherit(selectedStyle)
		}
		out = append(out, style.Render(strings.Repeat("  ", line.Depth)+line.Text))
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderSpecificity() string {
	entries := board.Specificity(m.input.Value())
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.String())
	}
	return hintStyle.Render(strings.Join(parts, "\n"))
}

func (m *Model) renderTooltip() string {
	if m.markupCursor < 0 {
		return ""
	}
	lines := m.session.Catalog().Board(m.level).Lines(nil)
	if m.markupCursor >= len(lines) {
		return ""
	}
	return helpStyle.Render(board.Describe(lines[m.markupCursor].Node))
}

func (m *Model) renderHelp(width int) string {
	lv := m.session.Level()
	var parts []string
	if lv.SelectorName != "" {
		parts = append(parts, titleStyle.Render(lv.SelectorName))
	}
	if lv.HelpTitle != "" {
		parts = append(parts, wrapText(lv.HelpTitle, helpTitleStyle, width))
	}
	parts = append(parts, hintStyle.Render(lv.Syntax))
	if lv.Help != "" {
		parts = append(parts, wrapText(lv.Help, helpStyle, width))
	}
	if len(lv.Examples) > 0 {
		parts = append(parts, "", titleStyle.Render("Examples"))
		for _, ex := range lv.Examples {
			parts = append(parts, wrapText(ex, helpStyle, width))
		}
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderMenu() string {
	levels := m.session.Catalog().Levels()
	start, end := 0, len(levels)
	if visible := m.height - 4; m.height > 0 && visible > 0 && visible < len(levels) {
		start = m.menuCursor - visible/2
		if start < 0 {
			start = 0
		}
		end = start + visible
		if end > len(levels) {
			end = len(levels)
			start = end - visible
		}
	}
	lines := []string{titleStyle.Render("Choose a level")}
	for i := start; i < end; i++ {
		mark := " "
		if m.session.Completed(i) {
			mark = doneStyle.Render("✓")
		}
		label := levels[i].Syntax
		if levels[i].SelectorName != "" {
			label = fmt.Sprintf("%s  %s", levels[i].Syntax, levels[i].SelectorName)
		}
		line := fmt.Sprintf("%s %2d  %s", mark, i+1, truncate(label, m.contentWidth()-8))
		if i == m.menuCursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderWin() string {
	return strings.Join([]string{
		m.renderHeader(),
		winStyle.Render(winMessage),
		"",
		helpStyle.Render("Type a level number to play again, or ctrl+r to reset."),
		m.input.View(),
	}, "\n")
}

func (m *Model) renderFooter() string {
	count := 0
	if m.session != nil {
		count = m.session.Catalog().Len()
	}
	segments := []string{fmt.Sprintf("Progress %d/%d (%d%%)", m.total, count, int(m.percent*100+0.5))}
	if m.milestone > 0 {
		segments = append(segments, fmt.Sprintf("Milestone %d%%", int(m.milestone*100+0.5)))
	}
	if m.confirmReset {
		segments = append(segments, "Reset all progress? ctrl+r or y to confirm")
	} else {
		segments = append(segments, "tab levels · ctrl+p/ctrl+n prev/next · ctrl+r reset · ctrl+c quit")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
