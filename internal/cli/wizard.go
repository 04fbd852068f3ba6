package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/larrypadri/pysetup/pkg/scaffold"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// wizardChoice is what the wizard hands back to the scaffolder.
type wizardChoice struct {
	Layout  string
	License string
	Tools   []string
}

// wizardPhase sequences the three questions.
type wizardPhase int

const (
	phaseLayout wizardPhase = iota
	phaseLicense
	phaseTools
	phaseDone
)

// wizardOption is one selectable row.
type wizardOption struct {
	value string
	label string
}

// setupWizard is the bubbletea model behind `new --interactive`. It walks
// through layout, license, and tool selection; enter confirms a phase,
// space toggles tools, q or esc aborts the whole run.
type setupWizard struct {
	phase   wizardPhase
	cursor  int
	aborted bool

	layouts  []wizardOption
	licenses []wizardOption
	tools    []wizardOption
	picked   map[string]bool // tool selections

	choice wizardChoice
}

// newSetupWizard builds the model with the defaults preselected.
func newSetupWizard(layout, license string, tools []string) setupWizard {
	w := setupWizard{
		layouts: []wizardOption{
			{string(scaffold.LayoutFlat), "flat — main.py at the project root"},
			{string(scaffold.LayoutSrc), "src — code under src/<package>/"},
		},
		licenses: []wizardOption{
			{"none", "none — keep the project unlicensed for now"},
			{"mit", "mit — permissive MIT license"},
		},
		tools: []wizardOption{
			{scaffold.ToolBlack, "black — code formatter"},
			{scaffold.ToolFlake8, "flake8 — linter"},
			{scaffold.ToolDotenv, "dotenv — python-dotenv and .env.example"},
		},
		picked: make(map[string]bool, len(tools)),
	}
	w.cursor = optionIndex(w.layouts, layout)
	for _, t := range tools {
		w.picked[t] = true
	}
	// The license default seeds the cursor when that phase is entered.
	w.choice.License = license
	return w
}

func optionIndex(opts []wizardOption, value string) int {
	for i, o := range opts {
		if o.value == value {
			return i
		}
	}
	return 0
}

func (w setupWizard) Init() tea.Cmd {
	return nil
}

func (w setupWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}

	options := w.options()
	switch key.String() {
	case "q", "ctrl+c", "esc":
		w.aborted = true
		return w, tea.Quit
	case "up", "k":
		if w.cursor > 0 {
			w.cursor--
		}
	case "down", "j":
		if w.cursor < len(options)-1 {
			w.cursor++
		}
	case " ":
		if w.phase == phaseTools {
			tool := options[w.cursor].value
			w.picked[tool] = !w.picked[tool]
		}
	case "enter":
		next := w.confirm()
		if next.phase == phaseDone {
			return next, tea.Quit
		}
		return next, nil
	}
	return w, nil
}

// confirm records the current phase's answer and advances.
func (w setupWizard) confirm() setupWizard {
	switch w.phase {
	case phaseLayout:
		w.choice.Layout = w.layouts[w.cursor].value
		w.phase = phaseLicense
		w.cursor = optionIndex(w.licenses, w.choice.License)
	case phaseLicense:
		w.choice.License = w.licenses[w.cursor].value
		w.phase = phaseTools
		w.cursor = 0
	case phaseTools:
		w.choice.Tools = nil
		for _, o := range w.tools {
			if w.picked[o.value] {
				w.choice.Tools = append(w.choice.Tools, o.value)
			}
		}
		slices.Sort(w.choice.Tools)
		w.phase = phaseDone
	}
	return w
}

func (w setupWizard) options() []wizardOption {
	switch w.phase {
	case phaseLayout:
		return w.layouts
	case phaseLicense:
		return w.licenses
	default:
		return w.tools
	}
}

func (w setupWizard) title() string {
	switch w.phase {
	case phaseLayout:
		return "Project layout"
	case phaseLicense:
		return "License"
	default:
		return "Tools"
	}
}

func (w setupWizard) View() string {
	if w.phase == phaseDone || w.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(w.title()))
	b.WriteString("\n")
	hint := "↑/↓ navigate  ⏎ confirm  q quit"
	if w.phase == phaseTools {
		hint = "↑/↓ navigate  space toggle  ⏎ confirm  q quit"
	}
	b.WriteString(listDimStyle.Render(hint))
	b.WriteString("\n\n")

	for i, o := range w.options() {
		cursor := "  "
		if i == w.cursor {
			cursor = "▸ "
		}

		marker := ""
		if w.phase == phaseTools {
			marker = "[ ] "
			if w.picked[o.value] {
				marker = "[x] "
			}
		}

		line := cursor + marker + o.label
		if i == w.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/3]", int(w.phase)+1)))
	return b.String()
}

// runWizard runs the interactive selection and reports whether the user
// completed it.
func runWizard(layout, license string, tools []string) (wizardChoice, bool, error) {
	p := tea.NewProgram(newSetupWizard(layout, license, tools))
	final, err := p.Run()
	if err != nil {
		return wizardChoice{}, false, err
	}
	w, ok := final.(setupWizard)
	if !ok || w.aborted || w.phase != phaseDone {
		return wizardChoice{}, false, nil
	}
	return w.choice, true, nil
}
