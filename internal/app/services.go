package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/realtime"
	"github.com/yungbote/ngooning-backend/internal/services"
)

type Services struct {
	// Companion
	Companion     services.CompanionService
	Transcription services.TranscriptionService

	// Auth + domain
	Auth   services.AuthService
	User   services.UserService
	Social services.SocialService
	Habit  services.HabitService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos, hub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	audit := services.NewAuditWriter(log, reposet.AILog)
	companion := services.NewCompanionService(log, clients.OpenAI, audit, cfg.OpenAI.Model)

	transcription, err := services.NewTranscriptionService(log, cfg.Transcription.Provider, clients.OpenAI, clients.GcpSpeech)
	if err != nil {
		return Services{}, fmt.Errorf("init transcription service: %w", err)
	}

	// A nil interface keeps the notifier on local broadcast.
	var publisher realtime.Publisher
	if clients.RealtimeBus != nil {
		publisher = clients.RealtimeBus
	}
	notifier := services.NewSocialNotifier(realtime.NewNotifier(log, hub, publisher))

	user := services.NewUserService(log, reposet.User)
	social := services.NewSocialService(
		db,
		log,
		user,
		reposet.User,
		reposet.Group,
		reposet.Membership,
		reposet.Event,
		reposet.Message,
		notifier,
	)

	return Services{
		Companion:     companion,
		Transcription: transcription,
		Auth:          services.NewAuthService(log, clients.Supabase, cfg.AppURL),
		User:          user,
		Social:        social,
		Habit:         services.NewHabitService(log, user, reposet.Habit, reposet.HabitLog),
	}, nil
}
