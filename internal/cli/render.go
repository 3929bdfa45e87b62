package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/models"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	deadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")).
			Strikethrough(true)

	healthyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	wiltingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dyingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

const healthBarWidth = 10

// HealthBar renders health as a ten-cell bar followed by the value.
func HealthBar(health int) string {
	if health < 0 {
		health = 0
	}
	if health > constants.MaxHealth {
		health = constants.MaxHealth
	}
	filled := health * healthBarWidth / constants.MaxHealth
	bar := strings.Repeat("█", filled) + strings.Repeat("░", healthBarWidth-filled)

	style := healthyStyle
	switch {
	case health < 30:
		style = dyingStyle
	case health < 70:
		style = wiltingStyle
	}
	return fmt.Sprintf("%s %3d", style.Render(bar), health)
}

// HabitLine is the one-line summary used by list views.
func HabitLine(h models.Habit) string {
	name := h.Name
	if h.IsDead {
		name = deadStyle.Render(name)
	}
	stage := models.StageName(h.Theme, h.CurrentStage)
	status := fmt.Sprintf("%-24s %-12s %d/%d %-18s %s  🔥%d",
		name, h.Theme.Title(), h.CurrentStage, constants.MaxStage, stage, HealthBar(h.Health), h.StreakCount)
	if h.IsDead {
		status += "  " + MutedStyle.Render("(withered)")
	}
	return status
}

// ShortID trims an id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
