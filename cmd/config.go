/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/taskboard/internal/model"
	"github.com/nakachan-ing/taskboard/internal/store"
	"github.com/spf13/cobra"
)

const saveAndExit = "Save & Exit"

type configModel struct {
	cursor     int
	fields     []string
	config     model.Config
	configPath string
	textInput  textinput.Model
	editMode   bool
	saved      bool
}

func newConfigModel(configPath string, config model.Config) *configModel {
	return &configModel{
		cursor:     0,
		fields:     generateFieldList(),
		config:     config,
		configPath: configPath,
		textInput:  textinput.New(),
		editMode:   false,
	}
}

func generateFieldList() []string {
	return []string{
		"DBPath", "Editor", "LogLevel",
		"Session.KeepAfterUpdate", "List.PageSize",
		"Sync.Enable", "Sync.Bucket", "Sync.Prefix", "Sync.AWSProfile", "Sync.AWSRegion",
		saveAndExit,
	}
}

func (m *configModel) Init() tea.Cmd {
	return nil
}

func (m *configModel) forceRedraw() tea.Msg {
	return tea.WindowSizeMsg{}
}

func (m *configModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editMode {
			switch msg.String() {
			case "enter":
				m.updateConfig()
				m.editMode = false
				m.textInput.Blur()
				return m, tea.Batch(tea.ClearScreen, m.forceRedraw)
			case "esc":
				m.editMode = false
				m.textInput.Blur()
			default:
				m.textInput, _ = m.textInput.Update(msg)
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.fields)-1 {
				m.cursor++
			}
		case "enter":
			if m.fields[m.cursor] == saveAndExit {
				m.save()
				return m, tea.Quit
			}
			m.editMode = true
			m.textInput.SetValue(m.getFieldValue(m.fields[m.cursor]))
			m.textInput.Focus()
		}
	}

	return m, nil
}

func (m *configModel) View() string {
	var s strings.Builder
	s.WriteString("📄 Configure taskboard\n")
	s.WriteString(m.configPath + "\n\n")

	for i, field := range m.fields {
		cursor := "  "
		if m.cursor == i {
			cursor = "👉"
		}

		if field == saveAndExit {
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, field))
			continue
		}
		s.WriteString(fmt.Sprintf("%s %s: %s\n", cursor, field, m.getFieldValue(field)))
	}

	if m.editMode {
		s.WriteString("\n✏️  Editing: " + m.fields[m.cursor] + "\n")
		s.WriteString(m.textInput.View() + "\n")
		s.WriteString("(Enter to save, ESC to cancel)\n")
	} else {
		s.WriteString("\n↑/↓ to move, Enter to edit, q to quit\n")
	}

	return s.String()
}

func (m *configModel) getFieldValue(field string) string {
	switch field {
	case "DBPath":
		return m.config.DBPath
	case "Editor":
		return m.config.Editor
	case "LogLevel":
		return m.config.LogLevel
	case "Session.KeepAfterUpdate":
		return strconv.FormatBool(m.config.Session.KeepAfterUpdate)
	case "List.PageSize":
		return strconv.Itoa(m.config.List.PageSize)
	case "Sync.Enable":
		return strconv.FormatBool(m.config.Sync.Enable)
	case "Sync.Bucket":
		return m.config.Sync.Bucket
	case "Sync.Prefix":
		return m.config.Sync.Prefix
	case "Sync.AWSProfile":
		return m.config.Sync.AWSProfile
	case "Sync.AWSRegion":
		return m.config.Sync.AWSRegion
	default:
		return "UNKNOWN"
	}
}

// updateConfig writes the edited value back. Values that do not parse for
// numeric or boolean fields are ignored.
func (m *configModel) updateConfig() {
	newValue := strings.TrimSpace(m.textInput.Value())

	switch m.fields[m.cursor] {
	case "DBPath":
		m.config.DBPath = newValue
	case "Editor":
		m.config.Editor = newValue
	case "LogLevel":
		m.config.LogLevel = strings.ToUpper(newValue)
	case "Session.KeepAfterUpdate":
		if b, err := strconv.ParseBool(newValue); err == nil {
			m.config.Session.KeepAfterUpdate = b
		}
	case "List.PageSize":
		if n, err := strconv.Atoi(newValue); err == nil {
			m.config.List.PageSize = n
		}
	case "Sync.Enable":
		if b, err := strconv.ParseBool(newValue); err == nil {
			m.config.Sync.Enable = b
		}
	case "Sync.Bucket":
		m.config.Sync.Bucket = newValue
	case "Sync.Prefix":
		m.config.Sync.Prefix = newValue
	case "Sync.AWSProfile":
		m.config.Sync.AWSProfile = newValue
	case "Sync.AWSRegion":
		m.config.Sync.AWSRegion = newValue
	}

	m.save()
}

func (m *configModel) save() {
	if err := store.SaveConfig(m.configPath, m.config); err != nil {
		log.Printf("⚠️ Failed to save config file: %v", err)
		return
	}
	m.saved = true
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure config.yaml interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}

		config, err := store.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		if _, err := tea.NewProgram(newConfigModel(configPath, *config)).Run(); err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
