package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/swipefeed/swipefeed/internal/command"
	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

type viewMode int

const (
	modeFeed viewMode = iota
	modeDuel
)

// Sessions resolves the feed and duel session of the viewer's installation.
type Sessions interface {
	command.FeedSessions
	command.FeedOpener
	command.DuelSessions
}

type feedMsg struct {
	snap session.FeedSnapshot
	err  error
}

// prefetchMsg reports the end of a page fetch started in the background by navigation.
type prefetchMsg struct {
	snap session.FeedSnapshot
	err  error
}

type duelMsg struct {
	state session.DuelState
	err   error
}

type likeMsg struct {
	candidateID string
	result      domain.LikeResult
	err         error
}

type reconcileTickMsg struct{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	nameStyle    = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	likedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Model is the bubbletea model of the terminal client. It runs on bubbletea's single event
// loop; session calls happen inside tea.Cmds and come back as messages.
type Model struct {
	ctx              context.Context
	installationID   string
	sessions         Sessions
	toggleLike       command.Command[command.ToggleLikeRequest, domain.LikeResult]
	loadDuelRound    command.Command[command.LoadDuelRoundRequest, session.DuelState]
	castDuelVote     command.Command[command.CastDuelVoteRequest, session.DuelState]
	viewportFraction float64
	axis             domain.GestureAxis
	now              func() time.Time

	gesture *domain.GestureMapper
	mode    viewMode
	width   int
	height  int

	// pending is set while a navigation or vote is running; gestures and keys that would
	// start another one are dropped until it completes.
	pending bool
	// awaiting is set while a command waits for a background page fetch.
	awaiting bool
	// stopWatch cancels the duel cooldown watcher while the duel view is shown.
	stopWatch context.CancelFunc

	feed   session.FeedSnapshot
	duel   session.DuelState
	status string
	err    error
}

type ModelConfig struct {
	InstallationID   string
	Sessions         Sessions
	ToggleLike       command.Command[command.ToggleLikeRequest, domain.LikeResult]
	LoadDuelRound    command.Command[command.LoadDuelRoundRequest, session.DuelState]
	CastDuelVote     command.Command[command.CastDuelVoteRequest, session.DuelState]
	ViewportFraction float64
	Axis             domain.GestureAxis
}

func NewModel(ctx context.Context, cfg ModelConfig) *Model {
	return &Model{
		ctx:              ctx,
		installationID:   cfg.InstallationID,
		sessions:         cfg.Sessions,
		toggleLike:       cfg.ToggleLike,
		loadDuelRound:    cfg.LoadDuelRound,
		castDuelVote:     cfg.CastDuelVote,
		viewportFraction: cfg.ViewportFraction,
		axis:             cfg.Axis,
		now:              time.Now,
		gesture:          domain.NewGestureMapper(cfg.Axis, 0),
		pending:          true,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startFeed(), scheduleReconcile())
}

func scheduleReconcile() tea.Cmd {
	return tea.Tick(session.DefaultReconcileInterval, func(time.Time) tea.Msg {
		return reconcileTickMsg{}
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		extent := float64(msg.Height)
		if m.axis == domain.AxisHorizontal {
			extent = float64(msg.Width)
		}
		m.gesture.SetThreshold(domain.ThresholdFromViewport(extent, m.viewportFraction))

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case feedMsg:
		m.pending = false
		m.feed = msg.snap
		m.err = ignoreNoContent(msg.err)
		if msg.snap.Loading {
			return m, m.awaitPrefetch()
		}

	case prefetchMsg:
		m.awaiting = false
		if !m.pending {
			m.feed = msg.snap
		}
		if msg.err != nil {
			m.err = ignoreNoContent(msg.err)
		}

	case duelMsg:
		m.pending = false
		m.duel = msg.state
		if errors.Is(msg.err, domain.ErrNotEnoughCandidates) {
			m.duel.NoContent = true
		}
		m.err = ignoreNoContent(msg.err)
		var closed *domain.VotingClosedError
		if errors.As(msg.err, &closed) {
			m.err = nil
		}
		if m.mode == modeDuel && m.stopWatch == nil {
			return m, m.watchDuel()
		}

	case likeMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.feed = m.sessions.Feed(m.ctx, m.installationID).Snapshot()
		if msg.result.Matched {
			m.status = "It's a match!"
		}

	case reconcileTickMsg:
		if m.mode == modeDuel && !m.pending {
			return m, tea.Batch(m.reconcileDuel(), scheduleReconcile())
		}
		return m, scheduleReconcile()
	}

	return m, nil
}

func ignoreNoContent(err error) error {
	if errors.Is(err, domain.ErrNotEnoughCandidates) {
		return nil
	}
	return err
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		m.stopWatching()
		return tea.Quit
	case "tab":
		if m.pending {
			return nil
		}
		m.status = ""
		if m.mode == modeFeed {
			m.mode = modeDuel
			m.pending = true
			return m.openDuel()
		}
		m.stopWatching()
		m.mode = modeFeed
		return nil
	}

	if m.mode == modeDuel {
		switch msg.String() {
		case "1", "left":
			return m.vote(0)
		case "2", "right":
			return m.vote(1)
		}
		return nil
	}

	switch msg.String() {
	case "down", "j", " ":
		return m.navigate(domain.IntentAdvance)
	case "up", "k":
		return m.navigate(domain.IntentRetreat)
	case "l":
		return m.like()
	case "r":
		return m.refresh()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.mode != modeFeed {
		return nil
	}

	// Terminals do not always report which button was released, so only the press is
	// filtered by button.
	at := domain.DragSample{X: float64(msg.X), Y: float64(msg.Y)}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.gesture.Begin(at)
		}
	case tea.MouseActionMotion:
		m.gesture.Move(at)
	case tea.MouseActionRelease:
		return m.navigate(m.gesture.Release(at))
	}
	return nil
}

func (m *Model) navigate(intent domain.Intent) tea.Cmd {
	if intent == domain.IntentNone || m.pending {
		return nil
	}
	m.pending = true
	m.status = ""

	ctx, feed := m.ctx, m.sessions.Feed(m.ctx, m.installationID)
	return func() tea.Msg {
		snap, err := feed.Navigate(ctx, intent)
		return feedMsg{snap: snap, err: err}
	}
}

// awaitPrefetch delivers the feed once the page fetch started by navigation has landed.
func (m *Model) awaitPrefetch() tea.Cmd {
	if m.awaiting {
		return nil
	}
	m.awaiting = true

	ctx, feed := m.ctx, m.sessions.Feed(m.ctx, m.installationID)
	return func() tea.Msg {
		snap, err := feed.AwaitPrefetch(ctx)
		return prefetchMsg{snap: snap, err: err}
	}
}

func (m *Model) startFeed() tea.Cmd {
	ctx, feed := m.ctx, m.sessions.OpenFeed(m.ctx, m.installationID)
	return func() tea.Msg {
		snap, err := feed.Start(ctx)
		return feedMsg{snap: snap, err: err}
	}
}

func (m *Model) refresh() tea.Cmd {
	if m.pending {
		return nil
	}
	m.pending = true

	ctx, feed := m.ctx, m.sessions.OpenFeed(m.ctx, m.installationID)
	return func() tea.Msg {
		snap, err := feed.Refresh(ctx)
		return feedMsg{snap: snap, err: err}
	}
}

func (m *Model) like() tea.Cmd {
	if m.feed.Current == nil {
		return nil
	}

	ctx, candidateID := m.ctx, m.feed.Current.ID
	req := command.ToggleLikeRequest{InstallationID: m.installationID, CandidateID: candidateID}
	return func() tea.Msg {
		result, err := m.toggleLike.Execute(ctx, req)
		return likeMsg{candidateID: candidateID, result: result, err: err}
	}
}

func (m *Model) openDuel() tea.Cmd {
	ctx := m.ctx
	req := command.LoadDuelRoundRequest{InstallationID: m.installationID}
	return func() tea.Msg {
		state, err := m.loadDuelRound.Execute(ctx, req)
		return duelMsg{state: state, err: err}
	}
}

func (m *Model) vote(side int) tea.Cmd {
	if m.pending || m.duel.Round == nil {
		return nil
	}
	first, second, ok := m.duel.Round.Pair()
	if !ok {
		return nil
	}
	winner := first
	if side == 1 {
		winner = second
	}
	m.pending = true

	ctx := m.ctx
	req := command.CastDuelVoteRequest{InstallationID: m.installationID, WinnerID: winner.ID}
	return func() tea.Msg {
		state, err := m.castDuelVote.Execute(ctx, req)
		return duelMsg{state: state, err: err}
	}
}

// watchDuel runs the session's cooldown watcher until the duel view is left, so an expired
// cooldown is reset and persisted on time.
func (m *Model) watchDuel() tea.Cmd {
	m.stopWatching()

	ctx, cancel := context.WithCancel(m.ctx)
	m.stopWatch = cancel
	duel := m.sessions.Duel(m.ctx, m.installationID)
	return func() tea.Msg {
		_ = duel.Watch(ctx, session.DefaultReconcileInterval)
		return nil
	}
}

func (m *Model) stopWatching() {
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
}

// reconcileDuel refreshes the countdown from the session and loads a fresh pair once the
// watcher has reopened voting.
func (m *Model) reconcileDuel() tea.Cmd {
	if m.duel.Gate != domain.DuelGateCooling {
		return nil
	}

	state := m.sessions.Duel(m.ctx, m.installationID).State()
	if state.Gate == domain.DuelGateCooling {
		m.duel = state
		return nil
	}
	m.pending = true
	return m.openDuel()
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("swipefeed"))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  [%s]", m.installationID)))
	b.WriteString("\n\n")

	switch m.mode {
	case modeFeed:
		b.WriteString(m.feedView())
	case modeDuel:
		b.WriteString(m.duelView())
	}

	b.WriteString("\n")
	if m.pending {
		b.WriteString(pendingStyle.Render("loading…") + "\n")
	}
	if m.status != "" {
		b.WriteString(likedStyle.Render(m.status) + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	b.WriteString(faintStyle.Render(m.helpLine()))
	return b.String()
}

func (m *Model) helpLine() string {
	if m.mode == modeDuel {
		return "1/←: left wins • 2/→: right wins • tab: feed • q: quit"
	}
	return "j/↓/drag up: next • k/↑/drag down: back • l: like • r: refresh • tab: duels • q: quit"
}

func (m *Model) feedView() string {
	switch {
	case m.feed.NoContent:
		return "Nobody to show yet. Press r to try again.\n"
	case m.feed.State == domain.CursorEndOfContent:
		if m.feed.LikelyExhausted {
			return "You've seen everyone for now. Press r to start over.\n"
		}
		return "That's everyone. Press r to start over.\n"
	case m.feed.Current == nil:
		return ""
	}

	card := m.candidateCard(*m.feed.Current)
	position := faintStyle.Render(fmt.Sprintf("%d / %d", m.feed.Index+1, m.feed.Buffered))
	if !m.feed.Exhausted {
		position += faintStyle.Render("+")
	}
	return card + "\n" + position + "\n"
}

func (m *Model) candidateCard(c domain.Candidate) string {
	var lines []string

	heading := nameStyle.Render(c.Name)
	if age := c.Age(m.now()); age > 0 {
		heading += fmt.Sprintf(", %d", age)
	}
	if c.IsLiked {
		heading += " " + likedStyle.Render("♥")
	}
	lines = append(lines, heading)

	if c.City != "" {
		lines = append(lines, faintStyle.Render(c.City))
	}
	if c.Bio != "" {
		lines = append(lines, c.Bio)
	}
	if c.Instagram != "" {
		lines = append(lines, faintStyle.Render("@"+c.Instagram))
	}
	lines = append(lines, faintStyle.Render(fmt.Sprintf("%d photos", len(c.Photos))))

	style := cardStyle
	if m.width > 4 {
		style = style.Width(min(m.width-4, 60))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Model) duelView() string {
	d := m.duel
	header := faintStyle.Render(fmt.Sprintf("votes %d / %d", d.VotesCast, d.Quota))

	switch {
	case d.Gate == domain.DuelGateCooling && d.Countdown != nil:
		return header + "\n\n" + fmt.Sprintf("Voting reopens in %02d:%02d:%02d\n",
			d.Countdown.Hours, d.Countdown.Minutes, d.Countdown.Seconds)
	case d.NoContent:
		return header + "\n\nNot enough people for a duel yet.\n"
	case d.Round == nil:
		return header + "\n"
	case d.Round.IsFinal():
		return header + "\n\nWinner:\n" + m.candidateCard(*d.Round.FinalWinner) + "\n"
	}

	first, second, ok := d.Round.Pair()
	if !ok {
		return header + "\n"
	}
	pair := lipgloss.JoinHorizontal(lipgloss.Top, m.candidateCard(first), "  ", m.candidateCard(second))
	return header + "\n\n" + pair + "\n"
}
