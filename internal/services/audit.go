package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/yungbote/ngooning-backend/internal/data/repos"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

// Approximate GPT-4 Turbo pricing, assuming an even input/output split.
const (
	inputCostPerToken  = 0.00001
	outputCostPerToken = 0.00003
)

func ChatCost(tokens int) float64 {
	t := float64(tokens)
	return (t*inputCostPerToken + t*outputCostPerToken) / 2
}

type AuditEntry struct {
	UserID     string
	Prompt     string
	Response   string
	TokensUsed int
	Context    Snapshot
}

// AuditWriter appends completion records to ai_logs.
type AuditWriter interface {
	Write(ctx context.Context, entry AuditEntry) error
}

type auditWriter struct {
	log  *logger.Logger
	repo repos.AILogRepo
}

func NewAuditWriter(log *logger.Logger, repo repos.AILogRepo) AuditWriter {
	return &auditWriter{log: log.With("service", "AuditWriter"), repo: repo}
}

func (w *auditWriter) Write(ctx context.Context, entry AuditEntry) error {
	cost := ChatCost(entry.TokensUsed)
	meta, err := json.Marshal(map[string]any{
		"tokensUsed": entry.TokensUsed,
		"cost":       cost,
		"context":    entry.Context,
	})
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	row := &types.AILog{
		UserID:     entry.UserID,
		Type:       types.InteractionChat,
		Prompt:     entry.Prompt,
		Response:   entry.Response,
		Metadata:   datatypes.JSON(meta),
		TokensUsed: entry.TokensUsed,
		Cost:       cost,
	}
	if err := w.repo.Create(dbctx.Context{Ctx: ctx}, row); err != nil {
		return fmt.Errorf("write ai log: %w", err)
	}
	return nil
}
