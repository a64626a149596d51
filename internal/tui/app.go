// Package tui provides the interactive Bubble Tea dashboard for hlm.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Wanderer0074348/hlm/internal/analytics"
	"github.com/Wanderer0074348/hlm/internal/api"
	"github.com/Wanderer0074348/hlm/internal/auth"
	"github.com/Wanderer0074348/hlm/internal/chat"
	"github.com/Wanderer0074348/hlm/internal/config"
	"github.com/Wanderer0074348/hlm/internal/tui/components"
	"github.com/Wanderer0074348/hlm/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// AuthCheckedMsg carries the result of the startup session probe.
type AuthCheckedMsg struct {
	State auth.State
}

// LoginOpenedMsg is sent after the browser login attempt.
type LoginOpenedMsg struct {
	Err error
}

// ChatDoneMsg carries the outcome of a chat turn.
type ChatDoneMsg struct {
	Attempt chat.SendAttempt
	Result  *api.ChatResult
	Err     error
}

// SessionsListedMsg carries the refreshed session listing.
type SessionsListedMsg struct {
	List *api.SessionList
	Err  error
}

// SessionFetchedMsg carries a full session transcript.
type SessionFetchedMsg struct {
	ID      string
	Session *api.ChatSession
	Err     error
}

// SessionDeletedMsg reports a session delete.
type SessionDeletedMsg struct {
	ID  string
	Err error
}

// AnalyticsLoadedMsg carries the local response history and its summary.
type AnalyticsLoadedMsg struct {
	Records []analytics.Record
	Summary analytics.Summary
	Err     error
}

// ActiveTestMsg carries the currently running experiment, nil when none.
type ActiveTestMsg struct {
	Test *api.ABTestConfig
	Err  error
}

// TestCreatedMsg reports a newly started experiment.
type TestCreatedMsg struct {
	Test *api.ABTestConfig
	Err  error
}

// TestEndedMsg reports the end of an experiment.
type TestEndedMsg struct {
	Err error
}

// TrainDoneMsg carries the result of a router training run.
type TrainDoneMsg struct {
	Result *api.TrainingResult
	Err    error
}

// FeedbackDoneMsg reports a submitted vote.
type FeedbackDoneMsg struct {
	DecisionID string
	Err        error
}

// voteState tracks per-decision feedback progress in the chat tab.
type voteState int

const (
	voteNone voteState = iota
	votePending
	voteSent
)

// App is the root Bubble Tea model.
type App struct {
	client *api.Client
	cfg    config.Config
	store  *analytics.Store

	conv *chat.Conversation
	auth *auth.Manager

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	authState auth.State
	loginErr  string

	// Chat tab
	input      textinput.Model
	sending    bool
	chatErr    string
	chatScroll int // lines scrolled up from the bottom of the transcript
	votes      map[string]voteState

	// Sessions tab
	sessions      []api.SessionSummary
	sessCursor    int
	sessLoading   bool
	sessErr       string
	confirmDelete string // session id awaiting confirmation, empty otherwise

	// Analytics tab
	records  []analytics.Record
	summary  analytics.Summary
	test     *api.ABTestConfig
	abErr    string
	ending   bool
	training bool
	trainRes *api.TrainingResult

	// Create-test form (huh), nil when closed
	testForm *huh.Form

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160

	minContentHeight = 5
	chatTimeout      = 90 * time.Second
	callTimeout      = 30 * time.Second
)

// NewApp creates the dashboard model. store may be nil when the local
// analytics database could not be opened; the analytics tab then shows
// live data only.
func NewApp(client *api.Client, cfg config.Config, store *analytics.Store) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	ti := textinput.New()
	ti.Placeholder = "Ask anything..."
	ti.CharLimit = 4000
	ti.Focus()

	conv := chat.New()
	if store != nil {
		conv.OnResponse(func(r api.ChatResponse) {
			_ = store.Add(analytics.FromResponse(r))
		})
	}

	return App{
		client:    client,
		cfg:       cfg,
		store:     store,
		conv:      conv,
		auth:      auth.New(client),
		authState: auth.StateChecking,
		input:     ti,
		votes:     make(map[string]voteState),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		textinput.Blink,
		a.checkAuthCmd(),
		a.loadAnalyticsCmd(),
		a.listSessionsCmd(),
		a.fetchActiveTestCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = a.contentWidth() - 8
		if a.testForm != nil {
			a.testForm = a.testForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case AuthCheckedMsg:
		a.authState = msg.State
		return a, nil

	case LoginOpenedMsg:
		if msg.Err != nil {
			a.loginErr = msg.Err.Error()
		} else {
			a.loginErr = ""
		}
		return a, nil

	case ChatDoneMsg:
		a.sending = false
		if err := a.conv.FinishSend(msg.Attempt, msg.Result, msg.Err); err != nil {
			a.chatErr = err.Error()
			return a, nil
		}
		a.chatErr = ""
		a.chatScroll = 0
		return a, tea.Batch(a.loadAnalyticsCmd(), a.listSessionsCmd())

	case SessionsListedMsg:
		a.sessLoading = false
		if msg.Err != nil {
			a.sessErr = msg.Err.Error()
			return a, nil
		}
		a.sessErr = ""
		a.sessions = msg.List.Sessions
		if a.sessCursor >= len(a.sessions) {
			a.sessCursor = len(a.sessions) - 1
		}
		if a.sessCursor < 0 {
			a.sessCursor = 0
		}
		return a, nil

	case SessionFetchedMsg:
		applied, err := a.conv.FinishLoad(msg.ID, msg.Session, msg.Err)
		if err != nil {
			// The enter handler already moved to the chat tab.
			a.chatErr = err.Error()
			return a, nil
		}
		if applied {
			a.sessErr = ""
			a.chatErr = ""
			a.chatScroll = 0
			a.activeTab = 0
			a.input.Focus()
			return a, textinput.Blink
		}
		return a, nil

	case SessionDeletedMsg:
		if msg.Err != nil {
			a.sessErr = msg.Err.Error()
			return a, nil
		}
		a.sessErr = ""
		a.conv.SessionDeleted(msg.ID)
		return a, a.listSessionsCmd()

	case AnalyticsLoadedMsg:
		if msg.Err == nil {
			a.records = msg.Records
			a.summary = msg.Summary
		}
		return a, nil

	case ActiveTestMsg:
		if msg.Err != nil {
			a.abErr = msg.Err.Error()
			return a, nil
		}
		a.abErr = ""
		a.test = msg.Test
		return a, nil

	case TestCreatedMsg:
		if msg.Err != nil {
			a.abErr = msg.Err.Error()
			return a, nil
		}
		a.abErr = ""
		a.test = msg.Test
		return a, nil

	case TestEndedMsg:
		a.ending = false
		if msg.Err != nil {
			a.abErr = msg.Err.Error()
			return a, nil
		}
		a.abErr = ""
		a.test = nil
		return a, a.fetchActiveTestCmd()

	case TrainDoneMsg:
		a.training = false
		if msg.Err != nil {
			a.abErr = msg.Err.Error()
			return a, nil
		}
		a.abErr = ""
		a.trainRes = msg.Result
		return a, nil

	case FeedbackDoneMsg:
		if msg.Err != nil {
			a.votes[msg.DecisionID] = voteNone
			a.chatErr = msg.Err.Error()
			return a, nil
		}
		a.votes[msg.DecisionID] = voteSent
		return a, nil
	}

	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		switch a.activeTab {
		case 0:
			a.chatScroll++
		case 2:
			if a.sessCursor > 0 {
				a.sessCursor--
			}
		}
		return a, nil

	case tea.MouseButtonWheelDown:
		switch a.activeTab {
		case 0:
			if a.chatScroll > 0 {
				a.chatScroll--
			}
		case 2:
			if a.sessCursor < len(a.sessions)-1 {
				a.sessCursor++
			}
		}
		return a, nil

	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.authState == auth.StateChecking {
		return a, nil
	}

	if a.authState == auth.StateUnauthenticated {
		return a.updateSignIn(key)
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// An open create-test form owns the keyboard.
	if a.testForm != nil {
		return a.updateTestForm(msg)
	}

	// The chat input swallows printable keys while focused.
	if a.activeTab == 0 && a.input.Focused() {
		return a.updateChatInput(msg)
	}

	// A pending delete owns the keyboard until answered.
	if a.activeTab == 2 && a.confirmDelete != "" {
		return a.updateSessions(key)
	}

	switch key {
	case "?":
		a.showHelp = true
		return a, nil
	case "q":
		return a, tea.Quit
	case "left", "shift+tab":
		a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case 0:
		return a.updateChatBrowse(key)
	case 1:
		return a.updateAnalytics(key)
	case 2:
		return a.updateSessions(key)
	}
	return a, nil
}

func (a App) updateSignIn(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		return a, tea.Quit
	case "l", "enter":
		return a, a.loginCmd()
	case "r":
		a.authState = auth.StateChecking
		return a, a.checkAuthCmd()
	}
	return a, nil
}

func (a App) updateChatInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.input.Blur()
		return a, nil
	case "enter":
		text := strings.TrimSpace(a.input.Value())
		if text == "" {
			return a, nil
		}
		attempt, err := a.conv.BeginSend(text)
		if err != nil {
			a.chatErr = "still waiting for the previous reply"
			return a, nil
		}
		a.input.SetValue("")
		a.sending = true
		a.chatErr = ""
		a.chatScroll = 0
		return a, a.sendChatCmd(attempt)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateChatBrowse(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "i", "enter":
		a.input.Focus()
		return a, textinput.Blink
	case "j", "down":
		if a.chatScroll > 0 {
			a.chatScroll--
		}
		return a, nil
	case "k", "up":
		a.chatScroll++
		return a, nil
	case "G":
		a.chatScroll = 0
		return a, nil
	case "n":
		a.conv.Reset()
		a.chatErr = ""
		a.chatScroll = 0
		a.input.Focus()
		return a, textinput.Blink
	case "u", "d":
		return a.voteLatest(key == "u")
	}
	return a, nil
}

// voteLatest submits thumbs feedback for the newest assistant reply
// that carries a routing decision and has not been voted on yet.
func (a App) voteLatest(up bool) (tea.Model, tea.Cmd) {
	msgs := a.conv.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Meta == nil || m.Meta.DecisionID == "" {
			continue
		}
		id := m.Meta.DecisionID
		if a.votes[id] != voteNone {
			return a, nil
		}
		a.votes[id] = votePending
		return a, a.voteCmd(id, up)
	}
	return a, nil
}

func (a App) updateAnalytics(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "r":
		return a, tea.Batch(a.loadAnalyticsCmd(), a.fetchActiveTestCmd())
	case "b":
		if a.test != nil {
			a.abErr = "end the running experiment first"
			return a, nil
		}
		a.testForm = newCreateTestForm().
			WithWidth(a.width).WithHeight(a.height)
		return a, a.testForm.Init()
	case "e":
		if a.test == nil || a.ending {
			return a, nil
		}
		a.ending = true
		return a, a.endTestCmd(a.test.ID)
	case "t":
		if a.training {
			return a, nil
		}
		a.training = true
		a.trainRes = nil
		return a, a.trainCmd()
	}
	return a, nil
}

func (a App) updateSessions(key string) (tea.Model, tea.Cmd) {
	// A pending delete intercepts everything until confirmed or canceled.
	if a.confirmDelete != "" {
		id := a.confirmDelete
		a.confirmDelete = ""
		if key == "y" {
			return a, a.deleteSessionCmd(id)
		}
		return a, nil
	}

	switch key {
	case "j", "down":
		if a.sessCursor < len(a.sessions)-1 {
			a.sessCursor++
		}
		return a, nil
	case "k", "up":
		if a.sessCursor > 0 {
			a.sessCursor--
		}
		return a, nil
	case "g":
		a.sessCursor = 0
		return a, nil
	case "G":
		if len(a.sessions) > 0 {
			a.sessCursor = len(a.sessions) - 1
		}
		return a, nil
	case "r":
		a.sessLoading = true
		return a, a.listSessionsCmd()
	case "enter":
		if a.sessCursor < len(a.sessions) {
			id := a.sessions[a.sessCursor].SessionID
			a.conv.BeginLoad(id)
			a.chatErr = ""
			a.activeTab = 0
			return a, a.fetchSessionCmd(id)
		}
		return a, nil
	case "x":
		if a.sessCursor < len(a.sessions) {
			a.confirmDelete = a.sessions[a.sessCursor].SessionID
		}
		return a, nil
	case "n":
		a.conv.Reset()
		a.chatErr = ""
		a.chatScroll = 0
		a.activeTab = 0
		a.input.Focus()
		return a, textinput.Blink
	}
	return a, nil
}

// ─── Commands ───────────────────────────────────────────────────

func (a App) checkAuthCmd() tea.Cmd {
	mgr := a.auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return AuthCheckedMsg{State: mgr.Check(ctx)}
	}
}

func (a App) loginCmd() tea.Cmd {
	mgr := a.auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return LoginOpenedMsg{Err: mgr.Login(ctx)}
	}
}

func (a App) sendChatCmd(attempt chat.SendAttempt) tea.Cmd {
	client := a.client
	req := attempt.Request()
	req.MaxTokens = a.cfg.Chat.MaxTokens
	req.Temperature = a.cfg.Chat.Temperature
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()
		res, err := client.Chat(ctx, req)
		return ChatDoneMsg{Attempt: attempt, Result: res, Err: err}
	}
}

func (a App) listSessionsCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		list, err := client.ListSessions(ctx)
		return SessionsListedMsg{List: list, Err: err}
	}
}

func (a App) fetchSessionCmd(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		sess, err := client.GetSession(ctx, id)
		return SessionFetchedMsg{ID: id, Session: sess, Err: err}
	}
}

func (a App) deleteSessionCmd(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return SessionDeletedMsg{ID: id, Err: client.DeleteSession(ctx, id)}
	}
}

func (a App) loadAnalyticsCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		if store == nil {
			return AnalyticsLoadedMsg{}
		}
		records, err := store.Recent()
		if err != nil {
			return AnalyticsLoadedMsg{Err: err}
		}
		return AnalyticsLoadedMsg{Records: records, Summary: analytics.Summarize(records)}
	}
}

func (a App) fetchActiveTestCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		test, err := client.ActiveABTest(ctx)
		return ActiveTestMsg{Test: test, Err: err}
	}
}

func (a App) endTestCmd(id string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return TestEndedMsg{Err: client.EndABTest(ctx, id)}
	}
}

func (a App) trainCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()
		res, err := client.TrainModel(ctx)
		return TrainDoneMsg{Result: res, Err: err}
	}
}

func (a App) voteCmd(decisionID string, up bool) tea.Cmd {
	client := a.client
	thumbs := "down"
	if up {
		thumbs = "up"
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		_, err := client.SubmitFeedback(ctx, api.FeedbackRequest{DecisionID: decisionID, Thumbs: thumbs})
		return FeedbackDoneMsg{DecisionID: decisionID, Err: err}
	}
}

// ─── View ───────────────────────────────────────────────────────

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	switch a.authState {
	case auth.StateChecking:
		return a.viewChecking()
	case auth.StateUnauthenticated:
		return a.viewSignIn()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  hlm needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewChecking() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ hlm"))
	b.WriteString(subtitleStyle.Render(" · Hybrid LLM Router"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Checking session..."))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewSignIn() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	textStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	errStyle := lipgloss.NewStyle().
		Foreground(t.Red)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ hlm"))
	b.WriteString(textStyle.Render(" · Hybrid LLM Router"))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render("You are not signed in."))
	b.WriteString("\n\n")
	b.WriteString(keyStyle.Render("[l]"))
	b.WriteString(textStyle.Render(" open browser login    "))
	b.WriteString(keyStyle.Render("[r]"))
	b.WriteString(textStyle.Render(" re-check    "))
	b.WriteString(keyStyle.Render("[q]"))
	b.WriteString(textStyle.Render(" quit"))
	if a.loginErr != "" {
		b.WriteString("\n\n")
		b.WriteString(errStyle.Render(a.loginErr))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"c a s", "Jump to tab"},
		{"← → / tab", "Previous / Next tab"},
		{"j k", "Navigate / scroll"},
		{"g G", "Top / Bottom"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Chat"))
	b.WriteString("\n")
	chatBindings := []struct{ key, desc string }{
		{"i / Enter", "Focus input"},
		{"Esc", "Leave input"},
		{"u d", "Vote on last reply"},
		{"n", "New conversation"},
	}
	for _, bind := range chatBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"Enter", "Load session / Send"},
		{"x", "Delete session"},
		{"b", "Begin A/B test"},
		{"e", "End active A/B test"},
		{"t", "Trigger router training"},
		{"r", "Refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	account := ""
	if u := a.auth.User(); u != nil {
		account = u.Email
	}
	statusBar := components.RenderStatusBar(w, account, a.client.BaseURL())

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.testForm != nil:
		content = a.testForm.View()
	case a.activeTab == 0:
		content = a.renderChatTab(cw, contentH)
	case a.activeTab == 1:
		content = a.renderAnalyticsTab(cw)
	case a.activeTab == 2:
		content = a.renderSessionsTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1.
// Hitboxes must match RenderTabBar's layout: a leading space, two
// spaces between tabs.
func (a App) tabAtX(x int) int {
	pos := 1
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 2
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
