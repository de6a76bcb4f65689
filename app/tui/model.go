package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexcodex/bonebudget/framework"
	"github.com/lexcodex/bonebudget/persistence"
)

// Run opens the interactive inspector for one estimation.
func Run(ctx context.Context, scene string, est *framework.Estimation, thresholds *framework.ThresholdSet, platform string) error {
	if est == nil {
		return fmt.Errorf("estimation is required")
	}
	model, err := NewModel(scene, est, thresholds, platform)
	if err != nil {
		return err
	}
	program := tea.NewProgram(
		model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	_, err = program.Run()
	return err
}

// Model browses the per-chain breakdown of an estimation and re-rates the
// totals against each known platform.
type Model struct {
	scene      string
	est        *framework.Estimation
	thresholds *framework.ThresholdSet
	platforms  []string
	platform   int

	report *persistence.Report
	chains table.Model
	detail viewport.Model

	width  int
	height int
}

// NewModel builds the inspector starting on platform.
func NewModel(scene string, est *framework.Estimation, thresholds *framework.ThresholdSet, platform string) (Model, error) {
	if thresholds == nil {
		thresholds = framework.DefaultThresholds()
	}
	m := Model{
		scene:      scene,
		est:        est,
		thresholds: thresholds,
		platforms:  thresholds.Platforms(),
	}
	initial, err := thresholds.Get(platform)
	if err != nil {
		return m, err
	}
	for i, name := range m.platforms {
		if name == initial.Platform {
			m.platform = i
		}
	}

	rows := make([]table.Row, 0, len(est.Chains))
	for _, c := range est.Chains {
		rows = append(rows, table.Row(chainRow(c)))
	}
	m.chains = table.New(
		table.WithColumns([]table.Column{
			{Title: "Chain", Width: 16},
			{Title: "Root", Width: 12},
			{Title: "Transforms", Width: 10},
			{Title: "Colliders", Width: 9},
			{Title: "Checks", Width: 8},
			{Title: "Radius", Width: 8},
			{Title: "Note", Width: 20},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(10, len(rows)+1)),
	)
	m.detail = viewport.New(60, 12)
	m.rate(initial)
	return m, nil
}

// Platform returns the platform currently rated against.
func (m Model) Platform() string {
	if len(m.platforms) == 0 {
		return ""
	}
	return m.platforms[m.platform]
}

// Report returns the rated totals for the current platform.
func (m Model) Report() *persistence.Report {
	return m.report
}

func (m *Model) rate(tbl framework.ThresholdTable) {
	m.report = persistence.NewReport(m.scene, tbl, m.est)
	m.refreshDetail()
}

func (m *Model) refreshDetail() {
	var b strings.Builder
	b.WriteString(RenderEstimation(m.report))
	if c, ok := m.selected(); ok {
		b.WriteString("\n\n")
		b.WriteString(renderChainDetail(c))
	}
	m.detail.SetContent(b.String())
}

func (m Model) selected() (framework.ChainReport, bool) {
	i := m.chains.Cursor()
	if i < 0 || i >= len(m.est.Chains) {
		return framework.ChainReport{}, false
	}
	return m.est.Chains[i], true
}

// Init fulfills the Bubble Tea Model interface.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update applies incoming Bubble Tea messages to mutate the Model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = max(20, msg.Width)
		m.detail.Height = max(4, msg.Height-m.chains.Height()-4)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab", "p":
			if len(m.platforms) > 1 {
				m.platform = (m.platform + 1) % len(m.platforms)
				if tbl, err := m.thresholds.Get(m.platforms[m.platform]); err == nil {
					m.rate(tbl)
				}
			}
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.chains, cmd = m.chains.Update(msg)
	m.refreshDetail()
	return m, cmd
}

// View renders the chain table above the detail pane.
func (m Model) View() string {
	status := statusStyle.Render(fmt.Sprintf("%s  platform: %s  tab: next platform  q: quit", m.scene, m.Platform()))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.chains.View(),
		m.detail.View(),
		status,
	)
}

func renderChainDetail(c framework.ChainReport) string {
	if c.Skipped {
		return detailBoxStyle.Render(fmt.Sprintf("%s\nskipped (%s)", headerStyle.Render(c.Name), c.SkipReason))
	}
	lines := []string{
		headerStyle.Render(c.Name) + dimStyle.Render(" rooted at "+c.Root),
		fmt.Sprintf("root active          %t", !c.InactiveRoot),
		fmt.Sprintf("transforms           %d", c.Transforms),
		fmt.Sprintf("branching nodes      %d", c.MultiChildRoots),
		fmt.Sprintf("endpoints            %d", c.Endpoints),
		fmt.Sprintf("collision transforms %d", c.CollisionTransforms),
		fmt.Sprintf("colliders            %d", c.Colliders),
		fmt.Sprintf("collision checks     %d", c.CollisionChecks),
		fmt.Sprintf("max radius           %.4g", c.MaxRadius),
	}
	return detailBoxStyle.Render(strings.Join(lines, "\n"))
}
