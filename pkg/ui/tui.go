// Package ui provides the Bubble Tea TUI for the arbitrage monitor.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	pricingDomain "github.com/fd1az/solarb/business/pricing/domain"
	"github.com/fd1az/solarb/pkg/ui/components"
)

func pricingVenue(name string) pricingDomain.Venue {
	return pricingDomain.Venue(name)
}

// ConnectionInfo holds connection state for the status bar.
type ConnectionInfo struct {
	Connected bool
	LastSeen  time.Time
}

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Loading/connecting
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// pairView is the latest rendered price state for one pair.
type pairView struct {
	rows      []components.VenuePriceRow
	spreadBps float64
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	prices   *components.PricesComponent
	outcomes *components.OutcomesComponent
	stats    *components.StatsComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready           bool
	quitting        bool
	paused          bool
	width           int
	height          int
	currentSlot     uint64
	connectionState map[string]*ConnectionInfo
	lastUpdate      time.Time
	errors          []ErrorEntry // Persistent error panel (last 3)
	logs            []string     // Recent log messages

	// Startup state
	startupComplete bool
	startupSteps    map[string]*StartupStep
	startupTime     time.Time

	// Pair selection: tab cycles through pairs as they appear.
	pairs     []string
	selected  int
	pairViews map[string]pairView

	// Run counters
	cycleCount      int64
	profitableCount int64
	bestProfit      float64
	errorCount      int64
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		prices:       components.NewPricesComponent(),
		outcomes:     components.NewOutcomesComponent(50),
		stats:        components.NewStatsComponent(),
		phase:        PhaseWelcome,
		welcomeStart: now,
		connectionState: map[string]*ConnectionInfo{
			"raydium": {Connected: false},
			"orca":    {Connected: false},
		},
		logs:      make([]string, 0, 10),
		errors:    make([]ErrorEntry, 0, 3),
		pairViews: make(map[string]pairView),
		startupSteps: map[string]*StartupStep{
			"config":  {Name: "Loading configuration", Status: "pending"},
			"solana":  {Name: "Connecting to Solana RPC", Status: "pending"},
			"raydium": {Name: "Watching Raydium pools", Status: "pending"},
			"orca":    {Name: "Watching Orca whirlpools", Status: "pending"},
		},
		startupTime: now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to startup
		if m.phase == PhaseWelcome {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			if OnStartModules != nil {
				go OnStartModules()
			}
			return m, tickCmd()
		}
		switch msg.String() {
		case "c":
			m.outcomes.Clear()
			return m, nil
		case "p":
			m.paused = !m.paused
			return m, nil
		case "tab":
			if len(m.pairs) > 0 {
				m.selected = (m.selected + 1) % len(m.pairs)
				m.refreshPrices()
			}
			return m, nil
		case "up", "k":
			m.outcomes.ScrollUp()
			return m, nil
		case "down", "j":
			m.outcomes.ScrollDown()
			return m, nil
		case "e":
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			if OnStartModules != nil {
				go OnStartModules()
			}
		}
		return m, tickCmd()

	case OutcomeMsg:
		if msg.Outcome != nil && !m.paused {
			o := msg.Outcome

			status := "No edge"
			if o.IsProfitable {
				status = "PROFITABLE"
			}
			m.outcomes.Add(components.OutcomeRow{
				Timestamp:  o.ObservedAt.Format("15:04:05"),
				Pair:       o.Pair.String(),
				Direction:  string(o.BuyVenue) + "→" + string(o.SellVenue),
				LoanAmount: o.LoanAmount,
				Profit:     o.ProfitInQuote,
				ImpactPct:  o.PriceImpactPct,
				Profitable: o.IsProfitable,
				Status:     status,
			})

			m.cycleCount++
			if o.IsProfitable {
				m.profitableCount++
			}
			if o.ProfitInQuote > m.bestProfit {
				m.bestProfit = o.ProfitInQuote
			}
			m.stats.Update(components.Stats{
				Cycles:     m.cycleCount,
				Profitable: m.profitableCount,
				BestProfit: m.bestProfit,
				Errors:     m.errorCount,
			})
			m.lastUpdate = time.Now()
		}

	case PriceUpdateMsg:
		if msg.Snapshot != nil {
			s := msg.Snapshot
			key := s.Pair.String()

			venueOrder := []string{"raydium", "orca"}
			rows := make([]components.VenuePriceRow, 0, len(venueOrder))
			values := make(map[string]float64, len(venueOrder))
			for _, venue := range venueOrder {
				price, ok := s.Prices[pricingVenue(venue)]
				if !ok {
					continue
				}
				history := make([]float64, 0, len(s.History[pricingVenue(venue)]))
				for _, point := range s.History[pricingVenue(venue)] {
					history = append(history, point.Value)
				}
				rows = append(rows, components.VenuePriceRow{
					Venue:   venue,
					Price:   price.Value,
					History: history,
				})
				values[venue] = price.Value
			}

			spreadBps := 0.0
			if values["raydium"] > 0 {
				spreadBps = (values["orca"] - values["raydium"]) / values["raydium"] * 10_000
			}

			if _, seen := m.pairViews[key]; !seen {
				m.pairs = append(m.pairs, key)
			}
			m.pairViews[key] = pairView{rows: rows, spreadBps: spreadBps}

			if m.pairs[m.selected] == key {
				m.refreshPrices()
			}
			m.lastUpdate = time.Now()
		}

	case ConnectionStatusMsg:
		m.connectionState[msg.Name] = &ConnectionInfo{
			Connected: msg.Connected,
			LastSeen:  time.Now(),
		}
		m.lastUpdate = time.Now()

		if step, ok := m.startupSteps[strings.ToLower(msg.Name)]; ok {
			if msg.Connected {
				step.Status = "connected"
			} else {
				step.Status = "connecting"
			}
		}
		if m.startupSteps["config"] != nil {
			m.startupSteps["config"].Status = "done"
		}
		if m.startupSteps["solana"] != nil && msg.Connected {
			m.startupSteps["solana"].Status = "done"
		}

	case SlotMsg:
		m.currentSlot = msg.Slot
		m.lastUpdate = time.Now()

	case ErrorMsg:
		m.errorCount++
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		allConnected := true
		for _, step := range m.startupSteps {
			if step.Status != "connected" && step.Status != "done" {
				allConnected = false
				break
			}
		}
		if allConnected {
			m.startupComplete = true
		}
	}

	return m, nil
}

// refreshPrices points the prices component at the selected pair.
func (m *Model) refreshPrices() {
	if len(m.pairs) == 0 {
		return
	}
	key := m.pairs[m.selected]
	view := m.pairViews[key]
	m.prices.SetPair(key)
	m.prices.Update(view.rows, view.spreadBps)
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		if m.cycleCount == 0 && !m.startupComplete {
			return m.renderStartupScreen()
		}
		m.phase = PhaseDashboard
		fallthrough
	case PhaseDashboard:
		// Continue to main dashboard
	}

	var b strings.Builder

	title := TitleStyle.Render(" ◎ Solana AMM Arbitrage Monitor ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.prices.View()

	var rightContent strings.Builder
	rightContent.WriteString(m.outcomes.View())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.stats.View())
	rightCol := rightContent.String()

	if m.width > 100 {
		left := BoxStyle.Width(m.width/2 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "q: quit • tab: next pair • c: clear • p: pause • ↑↓: scroll"
	if m.paused {
		pauseStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
		b.WriteString(pauseStyle.Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	goldStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWarning)

	mutedStyle := lipgloss.NewStyle().
		Foreground(ColorMuted)

	greenStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder

	sb.WriteString("\n\n\n\n")

	logo := `
   ███████╗ ██████╗ ██╗      █████╗ ██████╗ ██████╗
   ██╔════╝██╔═══██╗██║     ██╔══██╗██╔══██╗██╔══██╗
   ███████╗██║   ██║██║     ███████║██████╔╝██████╔╝
   ╚════██║██║   ██║██║     ██╔══██║██╔══██╗██╔══██╗
   ███████║╚██████╔╝███████╗██║  ██║██║  ██║██████╔╝
   ╚══════╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	subtitle := "        S O L A N A   A R B I T R A G E"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	tagline := "          ◎  Raydium × Orca spread watch  ◎"
	sb.WriteString(goldStyle.Render(tagline))
	sb.WriteString("\n\n\n")

	loading := fmt.Sprintf("              Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	hint := "        Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF"))

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	successStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	connectingStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	failedStyle := lipgloss.NewStyle().Foreground(ColorDanger)

	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  ◎ Solana AMM Arbitrage Monitor"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	stepOrder := []string{"config", "solana", "raydium", "orca"}
	for _, key := range stepOrder {
		step, ok := m.startupSteps[key]
		if !ok {
			continue
		}

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "connected", "done":
			icon = "✓"
			statusText = "Ready"
			style = successStyle
		case "connecting":
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon = spinners[idx]
			statusText = "Connecting..."
			style = connectingStyle
		case "failed":
			icon = "✗"
			statusText = "Failed"
			style = failedStyle
		default:
			icon = "○"
			statusText = "Pending"
			style = mutedStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			mutedStyle.Render(step.Name),
			style.Render(statusText),
		))
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n\n")

	sb.WriteString(mutedStyle.Render("  Waiting for first detection cycle..."))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.currentSlot > 0 {
		parts = append(parts, fmt.Sprintf("Slot: %d", m.currentSlot))
	}

	if len(m.pairs) > 0 {
		pairStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		parts = append(parts, pairStyle.Render(fmt.Sprintf("Pair: %s (%d/%d)",
			m.pairs[m.selected], m.selected+1, len(m.pairs))))
	}

	if m.cycleCount > 0 {
		cycleStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
		parts = append(parts, cycleStyle.Render(fmt.Sprintf("Cycles: %d", m.cycleCount)))
	}

	for name, info := range m.connectionState {
		var statusStyle lipgloss.Style
		var icon string
		status := name
		if info != nil && info.Connected {
			statusStyle = StatusConnected
			icon = "●"
		} else {
			statusStyle = StatusDisconnected
			icon = "○"
			status = name + " (disconnected)"
		}
		parts = append(parts, statusStyle.Render(icon+" "+status))
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		indicator := ""
		if ago < 2*time.Second {
			indicator = "▪"
		}
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago %s", ago, indicator)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
