package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mfigueira/aventuria/pkg/actor"
	"github.com/mfigueira/aventuria/pkg/game"
)

const (
	NarratorName    = "Narrator"
	PlaceHolderText = "What do you do?"
)

// uiPhase tracks which stage of the session the console is driving.
type uiPhase int

const (
	phaseConnecting uiPhase = iota
	phaseTheme
	phaseParty
	phasePlay
)

var titler = cases.Title(language.English)

// ConsoleUI is the BubbleTea model that runs the terminal client.
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *game.GameState
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool
	phase        uiPhase
	notice       string

	showQuitModal bool
	progressTick  int
}

type sessionCreatedMsg struct {
	session *game.GameState
	err     error
}

type worldSetMsg struct {
	session *game.GameState
	err     error
}

type characterAddedMsg struct {
	character *actor.Character
	err       error
}

type sessionStartedMsg struct {
	session *game.GameState
	err     error
}

type turnResolvedMsg struct {
	result *game.TurnResult
	err    error
}

type sessionMsg struct {
	session *game.GameState
	err     error
}

type actionDoneMsg struct {
	response *actionResponse
	err      error
}

type clipboardMsg struct{ err error }

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	rollStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	deadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Strikethrough(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = "Describe the world you want to play in..."
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		phase:        phaseConnecting,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.createSession(), textarea.Blink)
}

func (m ConsoleUI) createSession() tea.Cmd {
	return func() tea.Msg {
		gs, err := createSession(m.client, m.config.APIBaseURL, m.config.Modes)
		return sessionCreatedMsg{gs, err}
	}
}

func (m ConsoleUI) setWorld(theme string) tea.Cmd {
	return func() tea.Msg {
		gs, err := setWorld(m.client, m.config.APIBaseURL, m.session.ID, theme)
		return worldSetMsg{gs, err}
	}
}

func (m ConsoleUI) addCharacter(name, concept string) tea.Cmd {
	return func() tea.Msg {
		draft := game.CharacterDraft{
			Name:    name,
			Concept: concept,
			Attributes: actor.Attributes{
				For: 5, Des: 5, Con: 5, Int: 5, Sab: 5, Car: 5, Agi: 5, Sor: 5,
			},
			Wealth: 50,
		}
		c, err := addCharacter(m.client, m.config.APIBaseURL, m.session.ID, draft)
		return characterAddedMsg{c, err}
	}
}

func (m ConsoleUI) startSession() tea.Cmd {
	return func() tea.Msg {
		gs, err := startSession(m.client, m.config.APIBaseURL, m.session.ID)
		return sessionStartedMsg{gs, err}
	}
}

func (m ConsoleUI) submitTurn(actions []game.TurnAction) tea.Cmd {
	return func() tea.Msg {
		result, err := submitTurn(m.client, m.config.APIBaseURL, m.session.ID, actions)
		return turnResolvedMsg{result, err}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	return func() tea.Msg {
		gs, err := getSession(m.client, m.config.APIBaseURL, m.session.ID)
		return sessionMsg{gs, err}
	}
}

func (m ConsoleUI) doAction(req actionRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := doAction(m.client, m.config.APIBaseURL, m.session.ID, req)
		return actionDoneMsg{resp, err}
	}
}

// copyLastNarration puts the most recent narration on the system clipboard.
func (m ConsoleUI) copyLastNarration() tea.Cmd {
	return func() tea.Msg {
		if m.session == nil {
			return clipboardMsg{fmt.Errorf("nothing to copy yet")}
		}
		for i := len(m.session.History) - 1; i >= 0; i-- {
			if m.session.History[i].Kind == game.LogGM {
				return clipboardMsg{clipboard.WriteAll(m.session.History[i].Text)}
			}
		}
		return clipboardMsg{fmt.Errorf("nothing to copy yet")}
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeChatContent()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			return m, m.copyLastNarration()
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			return m.handleInput(input)
		}

	case sessionCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.phase = phaseTheme
		m.writeChatContent()
		m.writeMetadata()

	case worldSetMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
			return m, nil
		}
		m.session = msg.session
		m.phase = phaseParty
		m.textarea.Placeholder = "Name: concept (e.g. Aria: disgraced duelist)"
		m.notice = ""
		m.writeChatContent()
		m.writeMetadata()

	case characterAddedMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
			return m, nil
		}
		m.notice = fmt.Sprintf("%s joins the party. Add another, or /start.", msg.character.Name)
		m.writeChatContent()
		return m, m.refreshSession()

	case sessionStartedMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
			return m, nil
		}
		m.session = msg.session
		m.phase = phasePlay
		m.textarea.Placeholder = PlaceHolderText
		m.notice = ""
		m.writeChatContent()
		m.writeMetadata()

	case turnResolvedMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
			return m, m.refreshSession()
		}
		return m, m.refreshSession()

	case actionDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.appendError(msg.err)
			return m, nil
		}
		m.session = msg.response.State
		m.writeChatContent()
		m.writeMetadata()

	case sessionMsg:
		if msg.err == nil && msg.session != nil {
			m.session = msg.session
			m.writeChatContent()
			m.writeMetadata()
		}

	case clipboardMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Last narration copied to clipboard."
		}
		m.writeChatContent()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
	m.ready = true
}

// handleInput routes free text by phase: theme, recruit, or turn.
func (m ConsoleUI) handleInput(input string) (tea.Model, tea.Cmd) {
	m.textarea.Reset()
	switch m.phase {
	case phaseTheme:
		m.loading = true
		m.progressTick = 0
		m.notice = "The Oracle shapes the world..."
		m.writeChatContent()
		return m, tea.Batch(m.setWorld(input), progressTick())

	case phaseParty:
		name, concept, ok := strings.Cut(input, ":")
		if !ok {
			m.notice = "Use Name: concept, e.g. Aria: disgraced duelist"
			m.writeChatContent()
			return m, nil
		}
		m.loading = true
		m.progressTick = 0
		return m, tea.Batch(m.addCharacter(strings.TrimSpace(name), strings.TrimSpace(concept)), progressTick())

	case phasePlay:
		actions, err := m.parseActions(input)
		if err != nil {
			m.notice = err.Error()
			m.writeChatContent()
			return m, nil
		}
		m.loading = true
		m.progressTick = 0
		m.notice = ""
		m.writeChatContent()
		return m, tea.Batch(m.submitTurn(actions), progressTick())
	}
	return m, nil
}

// parseActions turns input into turn actions. "Name: action" addresses one
// party member; bare text goes to the first character able to act.
func (m ConsoleUI) parseActions(input string) ([]game.TurnAction, error) {
	if m.session == nil || len(m.session.Characters) == 0 {
		return nil, fmt.Errorf("no party")
	}

	if name, action, ok := strings.Cut(input, ":"); ok {
		for _, c := range m.session.Characters {
			if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
				return []game.TurnAction{{CharacterID: c.ID, Action: strings.TrimSpace(action)}}, nil
			}
		}
		// No such character: treat the colon as part of the action text.
	}

	for _, c := range m.session.Characters {
		if c.CanAct() {
			return []game.TurnAction{{CharacterID: c.ID, Action: input}}, nil
		}
	}
	return nil, fmt.Errorf("no one in the party can act")
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.textarea.Reset()
	fields := strings.Fields(strings.TrimSpace(input))
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/help":
		m.notice = "Commands: /start, /take N, /drop N, /copy, /help. Ctrl+Y copies the last narration."
		m.writeChatContent()

	case "/start":
		if m.phase != phaseParty {
			m.notice = "The adventure has already begun."
			m.writeChatContent()
			return m, nil
		}
		m.loading = true
		m.progressTick = 0
		m.notice = "The Oracle opens the scene..."
		m.writeChatContent()
		return m, tea.Batch(m.startSession(), progressTick())

	case "/copy":
		return m, m.copyLastNarration()

	case "/take", "/drop":
		if m.phase != phasePlay {
			m.notice = "Items come later."
			m.writeChatContent()
			return m, nil
		}
		if len(fields) < 2 {
			m.notice = fmt.Sprintf("Usage: %s N", cmd)
			m.writeChatContent()
			return m, nil
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil || idx < 1 {
			m.notice = fmt.Sprintf("Usage: %s N", cmd)
			m.writeChatContent()
			return m, nil
		}
		charID := ""
		for _, c := range m.session.Characters {
			if c.CanAct() {
				charID = c.ID
				break
			}
		}
		if charID == "" {
			m.notice = "No one in the party can act."
			m.writeChatContent()
			return m, nil
		}
		req := actionRequest{CharacterID: charID}
		if cmd == "/take" {
			req.Type = "take"
			req.GroundIndex = idx - 1
		} else {
			req.Type = "drop"
			req.ItemIndex = idx - 1
		}
		m.loading = true
		return m, m.doAction(req)

	default:
		m.notice = "Unknown command. Try /help."
		m.writeChatContent()
	}
	return m, nil
}

func (m *ConsoleUI) appendError(err error) {
	m.err = err
	m.notice = ""
	m.writeChatContent()
	content := m.chatViewport.View()
	m.chatViewport.SetContent(content + "\n" + errorStyle.Render("Error: "+err.Error()) + "\n")
	m.chatViewport.GotoBottom()
}

// writeChatContent rebuilds the chat pane from the session history.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("AVENTURIA") + "\n\n")

	switch m.phase {
	case phaseConnecting:
		content.WriteString("Setting up your session...\n")
	case phaseTheme:
		content.WriteString("Describe the world you want to play in and press Enter.\n")
		content.WriteString("A sentence is enough; the Oracle does the rest.\n")
	case phaseParty:
		content.WriteString(wordwrap.String(m.session.World.Premise, chatWidth) + "\n\n")
		content.WriteString("Recruit your party. One per line as Name: concept.\n")
		content.WriteString("Type /start when everyone is in.\n")
	case phasePlay:
		content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")
		for _, entry := range m.session.History {
			switch entry.Kind {
			case game.LogGM:
				content.WriteString(narratorStyle.Render(NarratorName+": ") +
					wordwrap.String(entry.Text, chatWidth-len(NarratorName)-2) + "\n\n")
			case game.LogPlayer:
				content.WriteString(userStyle.Render(wordwrap.String(entry.Text, chatWidth)) + "\n\n")
			case game.LogRoll:
				content.WriteString(rollStyle.Render(entry.Text) + "\n\n")
			case game.LogSystem:
				content.WriteString(systemStyle.Render(wordwrap.String(entry.Text, chatWidth)) + "\n\n")
			}
		}
	}

	if m.notice != "" {
		content.WriteString(systemStyle.Render(wordwrap.String(m.notice, chatWidth)) + "\n\n")
	}
	if m.loading {
		content.WriteString(m.renderProgressBar() + "\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

// writeMetadata rebuilds the right-hand status pane.
func (m *ConsoleUI) writeMetadata() {
	if m.session == nil {
		return
	}
	gs := m.session

	var content strings.Builder
	content.WriteString(titleStyle.Render("PARTY") + "\n\n")

	for _, c := range gs.Characters {
		name := titler.String(c.Name)
		switch {
		case c.Dead:
			content.WriteString(deadStyle.Render(name) + " (dead)\n")
		case c.IsDowned():
			content.WriteString(errorStyle.Render(name) + " (downed)\n")
		default:
			content.WriteString(name + "\n")
		}
		content.WriteString(fmt.Sprintf("  HP %d/%d  MP %d/%d  ST %d/%d\n",
			c.Derived.HP, c.MaxPools.HP,
			c.Derived.Mana, c.MaxPools.Mana,
			c.Derived.Stamina, c.MaxPools.Stamina))
		content.WriteString(fmt.Sprintf("  %d %s, %d item(s)\n\n",
			c.Wealth, currencyName(gs), len(c.Items)))
	}

	if gs.Map != nil {
		content.WriteString("Location:\n" + titler.String(gs.Map.LocationName) + "\n\n")
	}
	if gs.Time != nil {
		content.WriteString(fmt.Sprintf("Day %d, %s\n\n",
			gs.Time.DayCount, titler.String(strings.ToLower(string(gs.Time.Phase)))))
	}

	if len(gs.GroundItems) > 0 {
		content.WriteString("Nearby:\n")
		for i, item := range gs.GroundItems {
			content.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.Name))
		}
		content.WriteString("\n")
	}

	if len(gs.Enemies) > 0 {
		content.WriteString(errorStyle.Render("Enemies:") + "\n")
		for _, e := range gs.Enemies {
			content.WriteString(fmt.Sprintf("%s (%d/%d HP)\n", e.Name, e.CurrentHP, e.MaxHP))
		}
		content.WriteString("\n")
	}

	content.WriteString("Ambience: " + string(gs.Ambience()) + "\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• Enter: send\n")
	content.WriteString("• Ctrl+Y: copy narration\n")
	content.WriteString("• /help: commands\n")
	content.WriteString("• Ctrl+C: quit\n")

	m.metaViewport.SetContent(content.String())
}

func currencyName(gs *game.GameState) string {
	if gs.World != nil && gs.World.CurrencyName != "" {
		return gs.World.CurrencyName
	}
	return "gold"
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the table?"))
	content.WriteString("\n\n")
	content.WriteString("The session stays saved on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to keep playing"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.err != nil && m.session == nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n\nPress Ctrl+C to exit.\n"
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
