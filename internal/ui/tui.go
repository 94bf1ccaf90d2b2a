package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"coinfolio/internal/model"
	"coinfolio/internal/portfolio"
)

// storeChangedMsg is pushed into the program whenever the store commits a
// state change; rendering always follows a fresh snapshot.
type storeChangedMsg struct{}

type focusArea int

const (
	focusSearch focusArea = iota
	focusAmount
	focusTable
)

type tuiModel struct {
	store *portfolio.Store
	snap  portfolio.State

	search textinput.Model
	amount textinput.Model
	table  table.Model
	spin   spinner.Model

	focus      focusArea
	suggestIdx int
	filtered   []model.Coin
	rowIDs     []string

	width  int
	height int
}

// Run starts the interactive tracker and blocks until the user quits.
func Run(store *portfolio.Store) error {
	m := newTUIModel(store)
	p := tea.NewProgram(m, tea.WithAltScreen())
	// Listener may fire from the Update goroutine itself (synchronous
	// setters), so the send has to leave the loop.
	store.Subscribe(func() {
		go p.Send(storeChangedMsg{})
	})
	_, err := p.Run()
	return err
}

func newTUIModel(store *portfolio.Store) tuiModel {
	search := textinput.New()
	search.Prompt = "🔎 "
	search.Placeholder = "Search coin by name or symbol..."
	search.CharLimit = 64
	search.Focus()

	amount := textinput.New()
	amount.Prompt = "Σ "
	amount.Placeholder = "Amount..."
	amount.CharLimit = 32

	tbl := table.New(
		table.WithColumns(holdingColumns(60)),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.Bold(true)
	tbl.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return tuiModel{
		store:  store,
		snap:   store.Snapshot(),
		search: search,
		amount: amount,
		table:  tbl,
		spin:   sp,
	}
}

func holdingColumns(width int) []table.Column {
	name := width - 14 - 14 - 14
	if name < 10 {
		name = 10
	}
	return []table.Column{
		{Title: "Coin", Width: name},
		{Title: "Amount", Width: 14},
		{Title: "Price", Width: 14},
		{Title: "Value", Width: 14},
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spin.Tick,
		m.opCmd(func() { m.store.Init(context.Background()) }),
	)
}

// opCmd runs a store operation off the update loop. Completion surfaces via
// the store's own change notifications, so no result message is needed.
func (m tuiModel) opCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// refresh pulls a fresh snapshot and rebuilds everything derived from it.
func (m *tuiModel) refresh() {
	m.snap = m.store.Snapshot()

	if m.search.Value() != m.snap.SearchText {
		m.search.SetValue(m.snap.SearchText)
		m.search.CursorEnd()
	}
	if m.amount.Value() != m.snap.AmountText {
		m.amount.SetValue(m.snap.AmountText)
		m.amount.CursorEnd()
	}

	m.filtered = m.store.FilteredCoins()
	if m.suggestIdx >= len(m.filtered) {
		m.suggestIdx = 0
	}

	rows := make([]table.Row, 0, len(m.snap.Items))
	ids := make([]string, 0, len(m.snap.Items))
	for _, it := range m.snap.Items {
		rows = append(rows, table.Row{
			it.CoinName,
			it.Amount.String(),
			money(it.Price),
			money(it.Value()),
		})
		ids = append(ids, it.ID)
	}
	m.table.SetRows(rows)
	m.rowIDs = ids
}

func (m *tuiModel) setFocus(f focusArea) {
	m.focus = f
	m.search.Blur()
	m.amount.Blur()
	m.table.Blur()
	switch f {
	case focusSearch:
		m.search.Focus()
	case focusAmount:
		m.amount.Focus()
	case focusTable:
		m.table.Focus()
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(holdingColumns(m.width - 8))
		h := m.height - 18
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % 3)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + 2) % 3)
			return m, nil
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusAmount:
			return m.updateAmount(msg)
		default:
			return m.updateTable(msg)
		}
	}

	return m, nil
}

func (m tuiModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down":
		if m.suggestIdx < len(m.filtered)-1 {
			m.suggestIdx++
		}
		return m, nil
	case "up":
		if m.suggestIdx > 0 {
			m.suggestIdx--
		}
		return m, nil
	case "enter":
		if m.suggestIdx < len(m.filtered) {
			c := m.filtered[m.suggestIdx]
			m.store.SelectCoin(&c)
			m.refresh()
			m.setFocus(focusAmount)
		}
		return m, nil
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.store.SetSearchText(m.search.Value())
	m.refresh()
	m.suggestIdx = 0
	return m, cmd
}

func (m tuiModel) updateAmount(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		add := m.opCmd(func() { m.store.AddToPortfolio(context.Background()) })
		return m, add
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.amount, cmd = m.amount.Update(msg)
	m.store.SetAmount(m.amount.Value())
	m.refresh()
	return m, cmd
}

func (m tuiModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "d":
		if id, ok := m.selectedItemID(); ok {
			m.store.RemoveFromPortfolio(id)
			m.refresh()
		}
		return m, nil
	case "r":
		if id, ok := m.selectedItemID(); ok {
			return m, m.opCmd(func() { m.store.RefreshPrice(context.Background(), id) })
		}
		return m, nil
	case "R":
		return m, m.opCmd(func() { m.store.RefreshAllPrices(context.Background()) })
	case "t":
		m.store.ToggleDarkMode()
		m.refresh()
		return m, nil
	case "c":
		m.store.ClearError()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m tuiModel) selectedItemID() (string, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rowIDs) {
		return "", false
	}
	return m.rowIDs[i], true
}

func (m tuiModel) View() string {
	p := newPalette(m.snap.DarkMode)

	header := p.title.Render("coinfolio")
	switch {
	case m.snap.Loading:
		header += "  " + m.spin.View() + p.muted.Render("fetching prices...")
	case m.snap.Adding:
		header += "  " + m.spin.View() + p.muted.Render("adding...")
	}
	header += "  " + p.total.Render("Total "+money(m.store.TotalValue()))

	search := m.search.View()
	if m.focus == focusSearch {
		search += "\n" + m.suggestionLines(p)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		search,
		m.amount.View(),
		"",
		m.table.View(),
	)

	if m.snap.Err != "" {
		body += "\n" + p.errText.Render("✖ "+m.snap.Err) + p.muted.Render("  (c to dismiss)")
	}
	body += "\n" + p.muted.Render("tab focus · enter select/add · d remove · r requote · R requote all · t theme · q quit")

	return p.frame.Render(body)
}

func (m tuiModel) suggestionLines(p palette) string {
	if len(m.filtered) == 0 {
		return p.muted.Render("  no matching coins")
	}
	out := ""
	for i, c := range m.filtered {
		line := fmt.Sprintf("%s (%s) #%d", c.Name, c.Symbol, c.Rank)
		if i == m.suggestIdx {
			line = p.selected.Render("> " + line)
		} else {
			line = "  " + p.accent.Render(line)
		}
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
