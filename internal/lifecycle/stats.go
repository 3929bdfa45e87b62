package lifecycle

import (
	"sort"
	"time"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/utils"
)

// Stats are the derived, read-only views of a habit shown to the user.
type Stats struct {
	CompletedToday   bool
	TotalCompletions int
	CurrentStage     models.GrowthStage
	// NextStage is nil once the habit is fully grown.
	NextStage *models.GrowthStage
	StageName string
	// CompletionsToNextStage is 0 when fully grown.
	CompletionsToNextStage int
	// Completions is sorted newest first.
	Completions []models.Completion
}

// ComputeStats derives stats for h from its completion history as of now.
// Completions belonging to other habits are ignored.
func ComputeStats(h models.Habit, completions []models.Completion, now time.Time) Stats {
	own := make([]models.Completion, 0, len(completions))
	for _, c := range completions {
		if c.HabitID == h.ID {
			own = append(own, c)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].CompletedAt.After(own[j].CompletedAt)
	})

	stage := h.CurrentStage
	if stage < 0 {
		stage = 0
	}
	if stage >= len(models.GrowthStages) {
		stage = len(models.GrowthStages) - 1
	}

	s := Stats{
		CompletedToday:   CompletedToday(own, now),
		TotalCompletions: len(own),
		CurrentStage:     models.GrowthStages[stage],
		StageName:        models.StageName(h.Theme, stage),
		Completions:      own,
	}
	if stage+1 < len(models.GrowthStages) {
		next := models.GrowthStages[stage+1]
		s.NextStage = &next
		remaining := (stage+1)*constants.CompletionsPerStage - len(own)
		if remaining < 1 {
			remaining = 1
		}
		s.CompletionsToNextStage = remaining
	}
	return s
}

// CompletedToday reports whether any completion falls on now's calendar day.
func CompletedToday(completions []models.Completion, now time.Time) bool {
	for _, c := range completions {
		if utils.SameDay(c.CompletedAt, now) {
			return true
		}
	}
	return false
}
