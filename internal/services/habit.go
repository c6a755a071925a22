package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ngooning-backend/internal/data/repos"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/apierr"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

var habitFrequencies = map[string]struct{}{
	"daily":   {},
	"weekly":  {},
	"monthly": {},
}

type HabitService interface {
	ListHabits(dbc dbctx.Context) ([]*types.Habit, error)
	CreateHabit(dbc dbctx.Context, in CreateHabitInput) (*types.Habit, error)
	LogProgress(dbc dbctx.Context, habitID uuid.UUID, in LogHabitInput) (*types.HabitLog, error)
}

type CreateHabitInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	TargetCount int    `json:"target_count"`
}

type LogHabitInput struct {
	Date  string  `json:"date"`
	Count *int    `json:"count"`
	Notes *string `json:"notes"`
}

type habitService struct {
	log          *logger.Logger
	users        UserService
	habitRepo    repos.HabitRepo
	habitLogRepo repos.HabitLogRepo
}

func NewHabitService(log *logger.Logger, users UserService, habitRepo repos.HabitRepo, habitLogRepo repos.HabitLogRepo) HabitService {
	return &habitService{
		log:          log.With("service", "HabitService"),
		users:        users,
		habitRepo:    habitRepo,
		habitLogRepo: habitLogRepo,
	}
}

func (hs *habitService) ListHabits(dbc dbctx.Context) ([]*types.Habit, error) {
	me, err := currentUserID(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return hs.habitRepo.ListActiveByUser(dbc, me)
}

func (hs *habitService) CreateHabit(dbc dbctx.Context, in CreateHabitInput) (*types.Habit, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.BadRequest("invalid_habit_title", "title is required")
	}
	freq := strings.ToLower(strings.TrimSpace(in.Frequency))
	if freq == "" {
		freq = "daily"
	}
	if _, ok := habitFrequencies[freq]; !ok {
		return nil, apierr.BadRequest("invalid_habit_frequency", "frequency must be daily, weekly or monthly")
	}
	target := in.TargetCount
	if target == 0 {
		target = 1
	}
	if target < 0 {
		return nil, apierr.BadRequest("invalid_habit_target", "target_count must be positive")
	}
	me, err := hs.users.GetMe(dbc)
	if err != nil {
		return nil, err
	}
	h, err := hs.habitRepo.Create(dbc, &types.Habit{
		UserID:      me.ID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Frequency:   freq,
		TargetCount: target,
		IsActive:    true,
	})
	if err != nil {
		return nil, repoError(err, "habit")
	}
	return h, nil
}

func (hs *habitService) LogProgress(dbc dbctx.Context, habitID uuid.UUID, in LogHabitInput) (*types.HabitLog, error) {
	me, err := currentUserID(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	date := strings.TrimSpace(in.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apierr.BadRequest("invalid_habit_date", "date must be YYYY-MM-DD")
	}
	count := 1
	if in.Count != nil {
		count = *in.Count
	}
	if count < 0 {
		return nil, apierr.BadRequest("invalid_habit_count", "count must not be negative")
	}

	h, err := hs.habitRepo.GetByID(dbc, habitID)
	if err != nil {
		return nil, repoError(err, "habit")
	}
	if h.UserID != me {
		return nil, apierr.Forbidden("not_habit_owner", "habit belongs to another user")
	}

	l, err := hs.habitLogRepo.Upsert(dbc, &types.HabitLog{
		HabitID: habitID,
		Date:    date,
		Count:   count,
		Notes:   in.Notes,
	})
	if err != nil {
		return nil, repoError(err, "habit_log")
	}
	return l, nil
}
