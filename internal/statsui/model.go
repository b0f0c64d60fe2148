// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/tuiguess/internal/ledger"
	"github.com/verte-zerg/tuiguess/internal/model"
	"github.com/verte-zerg/tuiguess/internal/stats"
	"github.com/verte-zerg/tuiguess/internal/store"
)

const (
	tabOverview = iota
	tabLeaderboard
	tabHistory
)

const (
	filterDifficulty = iota
	filterPlayer
	filterSince
	filterLast
	filterWindow
)

const defaultWindow = 5

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store  *store.Store
	ledger *ledger.Ledger
	filter model.HistoryFilter
	window int
	now    func() time.Time

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	overview     viewport.Model
	scoreTable   table.Model
	historyTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model. History comes from the archive when
// st is non-nil and from the ledger's state file otherwise.
func NewModel(st *store.Store, l *ledger.Ledger, filter model.HistoryFilter, window int) *Model {
	if window < 1 {
		window = defaultWindow
	}
	m := &Model{
		store:    st,
		ledger:   l,
		filter:   filter,
		window:   window,
		now:      time.Now,
		tabs:     []string{"Overview", "High Scores", "History"},
		overview: viewport.New(0, 0),
	}
	m.initInputs()
	m.scoreTable = buildScoreTable(nil, m.now(), 80, 10)
	m.historyTable = buildHistoryTable(nil, m.now(), 80, 10)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.window = nextWindow(m.window)
			m.renderTabContents()
			return m, nil
		case "-":
			m.window = prevWindow(m.window)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			m.gotoEdge(true)
			return m, nil
		case "G", "end":
			m.gotoEdge(false)
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabLeaderboard:
			m.scoreTable, cmd = m.scoreTable.Update(msg)
		case tabHistory:
			m.historyTable, cmd = m.historyTable.Update(msg)
		default:
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Difficulty: "),
		newFilterInput("Player: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Trend window: "),
	}
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	m.filterInputs[filterDifficulty].SetValue(m.filter.Difficulty)
	m.filterInputs[filterPlayer].SetValue(m.filter.Player)
	if m.filter.Since != nil {
		m.filterInputs[filterSince].SetValue(m.filter.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[filterSince].SetValue("")
	}
	if m.filter.Last > 0 {
		m.filterInputs[filterLast].SetValue(strconv.Itoa(m.filter.Last))
	} else {
		m.filterInputs[filterLast].SetValue("")
	}
	m.filterInputs[filterWindow].SetValue(strconv.Itoa(m.window))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.scoreTable.SetWidth(m.width)
	m.scoreTable.SetHeight(maxInt(1, bodyHeight-1))
	m.historyTable.SetWidth(m.width)
	m.historyTable.SetHeight(maxInt(1, bodyHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.scoreTable.Blur()
	m.historyTable.Blur()
	switch m.activeTab {
	case tabLeaderboard:
		m.scoreTable.Focus()
	case tabHistory:
		m.historyTable.Focus()
	}
}

func (m *Model) gotoEdge(top bool) {
	switch m.activeTab {
	case tabLeaderboard:
		if top {
			m.scoreTable.GotoTop()
		} else {
			m.scoreTable.GotoBottom()
		}
	case tabHistory:
		if top {
			m.historyTable.GotoTop()
		} else {
			m.historyTable.GotoBottom()
		}
	default:
		if top {
			m.overview.GotoTop()
		} else {
			m.overview.GotoBottom()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	return headerStyle.Render(truncateLine(filterSummary(m.filter, m.window), m.width))
}

func filterSummary(filter model.HistoryFilter, window int) string {
	difficulty := filter.Difficulty
	if difficulty == "" {
		difficulty = "any"
	}
	player := filter.Player
	if player == "" {
		player = "any"
	}
	since := "any"
	if filter.Since != nil {
		since = filter.Since.Format("2006-01-02")
	}
	last := "all"
	if filter.Last > 0 {
		last = strconv.Itoa(filter.Last)
	}
	return fmt.Sprintf("Settings: difficulty=%s  player=%s  since=%s  last=%s  window=%d",
		difficulty, player, since, last, window)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	switch m.activeTab {
	case tabLeaderboard:
		if len(m.scoreTable.Rows()) == 0 {
			return fitLines("No high scores recorded yet.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.scoreTable.View()), m.width, height)
	case tabHistory:
		if len(m.report.Outcomes) == 0 {
			return fitLines("No games found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.historyTable.View()), m.width, height)
	default:
		return fitLines(m.overview.View(), m.width, height)
	}
}

func (m *Model) refreshReport() {
	report, err := m.loadReport(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.renderTabContents()
}

func (m *Model) loadReport(ctx context.Context) (stats.Report, error) {
	if m.store != nil {
		return stats.BuildReport(ctx, m.store, m.filter)
	}
	if m.ledger == nil {
		return stats.Report{}, nil
	}
	return stats.ReportFromOutcomes(stats.FilterOutcomes(m.ledger.History(), m.filter)), nil
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	now := m.now()

	var board []model.HighScoreEntry
	if m.ledger != nil {
		board = m.ledger.HighScores()
	}
	m.overview.SetContent(renderOverview(m.report, m.window, width))
	m.scoreTable.SetRows(scoreRows(board, now))
	m.scoreTable.SetWidth(width)
	m.scoreTable.SetHeight(maxInt(1, bodyHeight-1))
	m.historyTable.SetRows(historyRows(m.report.Outcomes, now))
	m.historyTable.SetWidth(width)
	m.historyTable.SetHeight(maxInt(1, bodyHeight-1))
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Outcomes) == 0 {
		return "No games found."
	}
	var buf bytes.Buffer
	summary := renderSummaryCards(report.Totals, width)
	if err := stats.RenderBreakdown(&buf, report.Breakdown); err != nil {
		return fmt.Sprintf("Failed to render breakdown: %v", err)
	}
	if err := stats.RenderTrend(&buf, report.Outcomes, window, width); err != nil {
		return fmt.Sprintf("Failed to render trend: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(agg model.AggregateStats, width int) string {
	best := "-"
	if agg.BestScore != nil {
		best = strconv.Itoa(*agg.BestScore)
	}
	cards := []string{
		metricCard("Games", strconv.Itoa(agg.GamesPlayed)),
		metricCard("Wins", strconv.Itoa(agg.Wins)),
		metricCard("Win Rate", fmt.Sprintf("%.1f%%", stats.WinRate(agg)*100)),
		metricCard("Fewest Attempts", best),
		metricCard("Total Score", humanize.Comma(int64(agg.TotalScore))),
		metricCard("Avg Score", fmt.Sprintf("%.1f", stats.AverageScore(agg))),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildScoreTable(board []model.HighScoreEntry, now time.Time, width, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 7},
		{Title: "Attempts", Width: 8},
		{Title: "Difficulty", Width: 10},
		{Title: "When", Width: 16},
	}
	return newTable(columns, scoreRows(board, now), width, height)
}

func buildHistoryTable(outcomes []model.SessionOutcome, now time.Time, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Player", Width: 16},
		{Title: "Difficulty", Width: 10},
		{Title: "Result", Width: 6},
		{Title: "Target", Width: 6},
		{Title: "Attempts", Width: 8},
		{Title: "Score", Width: 7},
		{Title: "When", Width: 16},
	}
	return newTable(columns, historyRows(outcomes, now), width, height)
}

func newTable(columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func scoreRows(board []model.HighScoreEntry, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(board))
	for i, e := range board {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			e.PlayerName,
			humanize.Comma(int64(e.Score)),
			strconv.Itoa(e.Attempts),
			e.Difficulty,
			relTime(e.Timestamp, now),
		})
	}
	return rows
}

// historyRows lists outcomes newest first.
func historyRows(outcomes []model.SessionOutcome, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(outcomes))
	for i := len(outcomes) - 1; i >= 0; i-- {
		o := outcomes[i]
		result := "lost"
		if o.Won {
			result = "won"
		}
		rows = append(rows, table.Row{
			o.PlayerName,
			o.Difficulty,
			result,
			strconv.Itoa(o.TargetNumber),
			strconv.Itoa(o.Attempts),
			humanize.Comma(int64(o.Score)),
			relTime(o.Timestamp, now),
		})
	}
	return rows
}

func relTime(ts, now time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A")).
		Bold(false)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		filter, window, err := parseFilter(m.filterValues())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filter = filter
		m.window = window
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) filterValues() []string {
	values := make([]string, len(m.filterInputs))
	for i, input := range m.filterInputs {
		values[i] = strings.TrimSpace(input.Value())
	}
	return values
}

// parseFilter reads the settings form fields in filter* order.
func parseFilter(values []string) (model.HistoryFilter, int, error) {
	filter := model.HistoryFilter{
		Difficulty: values[filterDifficulty],
		Player:     values[filterPlayer],
	}
	if v := values[filterSince]; v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return model.HistoryFilter{}, 0, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		filter.Since = &parsed
	}
	if v := values[filterLast]; v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return model.HistoryFilter{}, 0, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		filter.Last = parsed
	}
	window := defaultWindow
	if v := values[filterWindow]; v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return model.HistoryFilter{}, 0, fmt.Errorf("invalid trend window (use integer >= 1)")
		}
		window = parsed
	}
	return filter, window, nil
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
