package server

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/models"
)

const maxNameLength = 50

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func (s *Server) writeError(c *gin.Context, err error) {
	var verr *errors.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithMessage(c, http.StatusBadRequest, verr.Reason)
	case errors.Is(err, errors.ErrNotFound):
		abortWithMessage(c, http.StatusNotFound, "Not found")
	default:
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
		abortWithMessage(c, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": constants.Version})
}

type registerBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	acct, err := s.accounts.register(body.Email, body.Password, body.Name, s.clock.Now())
	if err == errDuplicateAccount {
		abortWithMessage(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondWithToken(c, http.StatusCreated, acct)
}

func (s *Server) login(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	acct, err := s.accounts.authenticate(body.Email, body.Password)
	if err == errBadCredentials {
		abortWithMessage(c, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondWithToken(c, http.StatusOK, acct)
}

func (s *Server) respondWithToken(c *gin.Context, status int, acct account) {
	token, err := s.tokens.issue(acct, s.clock.Now())
	if err != nil {
		s.writeError(c, err)
		return
	}
	logger.Info("Issued session", "email", acct.Email)
	c.JSON(status, gin.H{"user": acct.view(), "token": token})
}

func (s *Server) me(c *gin.Context) {
	acct, err := s.accounts.get(currentUser(c))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			abortWithMessage(c, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": acct.view()})
}

func (s *Server) listHabits(c *gin.Context) {
	habits, err := s.store.Habits(currentUser(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

func checkName(name string) error {
	if name == "" {
		return errors.NewValidation("Habit name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return errors.NewValidation("Name too long")
	}
	return nil
}

func (s *Server) createHabit(c *gin.Context) {
	var draft models.HabitDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	draft.Name = strings.TrimSpace(draft.Name)
	if err := checkName(draft.Name); err != nil {
		s.writeError(c, err)
		return
	}
	if draft.Theme != "" && !draft.Theme.Valid() {
		s.writeError(c, errors.NewValidation("Unknown theme"))
		return
	}
	if draft.GoalFrequency != "" && !draft.GoalFrequency.Valid() {
		s.writeError(c, errors.NewValidation("Unknown goal frequency"))
		return
	}

	h, err := s.store.CreateHabit(currentUser(c), draft)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}

func clamp(v *int, lo, hi int) {
	if v == nil {
		return
	}
	if *v < lo {
		*v = lo
	}
	if *v > hi {
		*v = hi
	}
}

// sanitizePatch bounds lifecycle fields to their legal ranges.
func sanitizePatch(p *models.HabitPatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := checkName(name); err != nil {
			return err
		}
		p.Name = &name
	}
	if p.Theme != nil && !p.Theme.Valid() {
		return errors.NewValidation("Unknown theme")
	}
	if p.GoalFrequency != nil && !p.GoalFrequency.Valid() {
		return errors.NewValidation("Unknown goal frequency")
	}
	clamp(p.Health, 0, constants.MaxHealth)
	clamp(p.CurrentStage, 0, constants.MaxStage)
	if p.StreakCount != nil && *p.StreakCount < 0 {
		zero := 0
		p.StreakCount = &zero
	}
	return nil
}

func (s *Server) updateHabit(c *gin.Context) {
	var patch models.HabitPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := sanitizePatch(&patch); err != nil {
		s.writeError(c, err)
		return
	}
	h, err := s.store.UpdateHabit(currentUser(c), c.Param("id"), patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) deleteHabit(c *gin.Context) {
	if err := s.store.DeleteHabit(currentUser(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listCompletions(c *gin.Context) {
	user, id := currentUser(c), c.Param("id")
	if _, err := s.store.Habit(user, id); err != nil {
		s.writeError(c, err)
		return
	}
	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	var completions []models.Completion
	if from.IsZero() && to.IsZero() {
		completions, err = s.store.CompletionsForHabit(user, id)
	} else {
		if to.IsZero() {
			to = s.clock.Now()
		}
		completions, err = s.store.CompletionsInRange(user, id, from, to)
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completions": completions})
}

// parseRange reads the optional RFC 3339 bounds of a completion listing.
func parseRange(fromParam, toParam string) (from, to time.Time, err error) {
	if fromParam != "" {
		if from, err = time.Parse(time.RFC3339, fromParam); err != nil {
			return from, to, errors.NewValidation("from must be an RFC 3339 timestamp")
		}
	}
	if toParam != "" {
		if to, err = time.Parse(time.RFC3339, toParam); err != nil {
			return from, to, errors.NewValidation("to must be an RFC 3339 timestamp")
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, errors.NewValidation("to must not be before from")
	}
	return from, to, nil
}

func (s *Server) recordCompletion(c *gin.Context) {
	var draft models.CompletionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if draft.HabitID == "" {
		s.writeError(c, errors.NewValidation("habitId is required"))
		return
	}
	user := currentUser(c)
	if _, err := s.store.Habit(user, draft.HabitID); err != nil {
		s.writeError(c, err)
		return
	}
	if draft.CompletedAt.IsZero() {
		draft.CompletedAt = s.clock.Now()
	}
	completion, err := s.store.CreateCompletion(user, draft)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, completion)
}

func (s *Server) deleteCompletion(c *gin.Context) {
	if err := s.store.DeleteCompletion(currentUser(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
