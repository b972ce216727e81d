package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brainlift/pkg/dok"
	"github.com/matzehuels/brainlift/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command for interactive BrainLift selection.
func (c *CLI) browseCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse stored BrainLifts",
		Long: `Interactively browse stored BrainLifts.

Requires mongo_uri in the config file or MONGODB_URI in the environment.
Selecting an entry prints its sections summary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ~/.config/brainlift/config.toml)")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.MongoURI == "" {
		return fmt.Errorf("browse requires mongo_uri in the config or MONGODB_URI in the environment")
	}

	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.MongoURI})
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer st.Close(context.Background())

	summaries, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		printInfo("No BrainLifts stored yet")
		printNextStep("Create one", "brainlift extract <share-url>")
		return nil
	}

	model := newBrainLiftListModel(summaries)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	selected := final.(brainLiftListModel).selected
	if selected == "" {
		return nil
	}

	bl, err := st.Get(ctx, selected)
	if err != nil {
		return err
	}
	printBrainLift(bl)
	return nil
}

// printBrainLift prints a stored BrainLift's summary to stdout.
func printBrainLift(bl *dok.BrainLift) {
	fmt.Println(StyleTitle.Render(bl.Name))
	printDetail("id: %s", bl.ID)
	printDetail("url: %s", bl.URL)
	printDetail("created: %s", bl.CreatedAt.Format("2006-01-02 15:04"))
	printNewline()

	printDetail("knowledge: %d items", bl.Sections.Knowledge.ItemCount())
	printDetail("insights: %d items", bl.Sections.Insights.ItemCount())
	printDetail("spovs: %d items", bl.Sections.SPOVs.ItemCount())
	if bl.Analysis != nil {
		connections := len(bl.Analysis.KnowledgeToInsights) + len(bl.Analysis.InsightsToSPOVs)
		printDetail("connections: %d", connections)
	} else {
		printDetail("connections: not analyzed")
	}
}

// =============================================================================
// brainLiftListModel - Interactive BrainLift selection
// =============================================================================

// brainLiftListModel is the bubbletea model for BrainLift selection.
type brainLiftListModel struct {
	summaries []dok.Summary
	cursor    int
	selected  string
	height    int
	offset    int
}

func newBrainLiftListModel(summaries []dok.Summary) brainLiftListModel {
	return brainLiftListModel{summaries: summaries, height: 15}
}

func (m brainLiftListModel) Init() tea.Cmd {
	return nil
}

func (m brainLiftListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.summaries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = m.summaries[m.cursor].ID
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m brainLiftListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select BrainLift"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.summaries) {
		end = len(m.summaries)
	}

	for i := m.offset; i < end; i++ {
		s := m.summaries[i]
		line := fmt.Sprintf("%-10s %s", s.ID, s.Name)

		if i == m.cursor {
			b.WriteString("▸ " + listSelectedStyle.Render(line))
		} else {
			b.WriteString("  " + listNormalStyle.Render(line))
		}
		b.WriteString(listDimStyle.Render("  " + s.CreatedAt.Format("2006-01-02")))
		b.WriteString("\n")
	}

	return b.String()
}
