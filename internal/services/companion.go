package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/ngooning-backend/internal/observability"
	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/platform/openai"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

const auditTimeout = 10 * time.Second

// ChatMessage is one conversation turn. Turns only live in the request.
type ChatMessage struct {
	ID        string               `json:"id,omitempty"`
	Role      string               `json:"role"`
	Content   string               `json:"content"`
	Timestamp *time.Time           `json:"timestamp,omitempty"`
	Metadata  *ChatMessageMetadata `json:"metadata,omitempty"`
}

type ChatMessageMetadata struct {
	Mood        string   `json:"mood,omitempty"`
	Context     string   `json:"context,omitempty"`
	ActionItems []string `json:"actionItems,omitempty"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

type TriggerAnalysis struct {
	Triggers      []string `json:"triggers"`
	Strategies    []string `json:"strategies"`
	EmergencyPlan []string `json:"emergencyPlan"`
}

// CompanionService fronts the completion endpoint. Its methods never fail:
// upstream errors are logged and replaced with fixed replies.
type CompanionService interface {
	Chat(ctx context.Context, history []ChatMessage, s Snapshot) string
	DailyMotivation(ctx context.Context, s Snapshot) string
	SuggestActivities(ctx context.Context, s Snapshot, mood string, preferences []string) []string
	AnalyzeRelapseTriggers(ctx context.Context, s Snapshot, situation string) TriggerAnalysis
	// Wait blocks until in-flight audit writes finish.
	Wait()
}

type companionService struct {
	log    *logger.Logger
	ai     openai.Client
	audit  AuditWriter
	model  string
	audits sync.WaitGroup
}

func NewCompanionService(log *logger.Logger, ai openai.Client, audit AuditWriter, model string) CompanionService {
	return &companionService{
		log:   log.With("service", "CompanionService"),
		ai:    ai,
		audit: audit,
		model: strings.TrimSpace(model),
	}
}

func (cs *companionService) Chat(ctx context.Context, history []ChatMessage, s Snapshot) string {
	ctx, span := observability.StartSpan(ctx, "companion.chat", attribute.Int("history_len", len(history)))
	defer span.End()

	system := companionPersonaPrompt
	if preamble := BuildContextPreamble(s); preamble != "" {
		system += "\n\n" + preamble
	}
	msgs := make([]openai.Message, 0, len(history)+1)
	msgs = append(msgs, openai.Message{Role: RoleSystem, Content: system})
	for _, m := range history {
		msgs = append(msgs, openai.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := cs.ai.ChatCompletion(ctx, openai.ChatRequest{
		Model:            cs.model,
		Messages:         msgs,
		Temperature:      openai.Float(0.7),
		MaxTokens:        800,
		PresencePenalty:  openai.Float(0.1),
		FrequencyPenalty: openai.Float(0.1),
	})
	if err != nil {
		cs.fallback(ctx, "chat", err)
		return chatFallbackReply
	}

	reply := resp.FirstContent()
	if reply == "" {
		reply = chatEmptyReply
	}

	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	tokens := resp.TotalTokens()
	observability.Current().AddLLMCost("chat", ChatCost(tokens))
	cs.writeAudit(ctx, AuditEntry{
		UserID:     s.UserID,
		Prompt:     prompt,
		Response:   reply,
		TokensUsed: tokens,
		Context:    s,
	})
	return reply
}

// writeAudit runs detached from the request; its outcome never reaches the caller.
func (cs *companionService) writeAudit(ctx context.Context, entry AuditEntry) {
	if cs.audit == nil {
		return
	}
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	cs.audits.Add(1)
	go func() {
		defer cs.audits.Done()
		defer cancel()
		if err := cs.audit.Write(auditCtx, entry); err != nil {
			cs.log.Warn("Failed to log AI interaction", append(ctxutil.LogFields(ctx), "error", err)...)
		}
	}()
}

func (cs *companionService) Wait() { cs.audits.Wait() }

func (cs *companionService) DailyMotivation(ctx context.Context, s Snapshot) string {
	ctx, span := observability.StartSpan(ctx, "companion.daily_motivation")
	defer span.End()

	resp, err := cs.ai.ChatCompletion(ctx, openai.ChatRequest{
		Model: cs.model,
		Messages: []openai.Message{
			{Role: RoleSystem, Content: companionPersonaPrompt},
			{Role: RoleUser, Content: motivationPrompt(s)},
		},
		Temperature: openai.Float(0.8),
		MaxTokens:   200,
	})
	if err != nil {
		cs.fallback(ctx, "daily_motivation", err)
		return motivationFallbackText
	}
	if reply := resp.FirstContent(); reply != "" {
		return reply
	}
	return motivationEmptyReply
}

var (
	numberedLine   = regexp.MustCompile(`^\d+\.`)
	numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)
)

func (cs *companionService) SuggestActivities(ctx context.Context, s Snapshot, mood string, preferences []string) []string {
	ctx, span := observability.StartSpan(ctx, "companion.suggest_activities")
	defer span.End()

	resp, err := cs.ai.ChatCompletion(ctx, openai.ChatRequest{
		Model: cs.model,
		Messages: []openai.Message{
			{Role: RoleSystem, Content: activityAssistantPrompt},
			{Role: RoleUser, Content: activityPrompt(s, mood, preferences)},
		},
		Temperature: openai.Float(0.9),
		MaxTokens:   300,
	})
	if err != nil {
		cs.fallback(ctx, "suggest_activities", err)
		return fallbackActivities()
	}
	return parseNumberedList(resp.FirstContent())
}

// parseNumberedList keeps "1. foo" style lines with the number stripped.
func parseNumberedList(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !numberedLine.MatchString(line) {
			continue
		}
		out = append(out, numberedPrefix.ReplaceAllString(line, ""))
	}
	return out
}

func (cs *companionService) AnalyzeRelapseTriggers(ctx context.Context, s Snapshot, situation string) TriggerAnalysis {
	ctx, span := observability.StartSpan(ctx, "companion.analyze_relapse_triggers")
	defer span.End()

	resp, err := cs.ai.ChatCompletion(ctx, openai.ChatRequest{
		Model: cs.model,
		Messages: []openai.Message{
			{Role: RoleSystem, Content: companionPersonaPrompt + triggerAnalysisSuffix},
			{Role: RoleUser, Content: triggerAnalysisPrompt(s, situation)},
		},
		Temperature:    openai.Float(0.6),
		MaxTokens:      400,
		ResponseFormat: &openai.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		cs.fallback(ctx, "analyze_relapse_triggers", err)
		return triggerTransportFallback()
	}
	analysis, ok := parseTriggerAnalysis(resp.FirstContent())
	if !ok {
		cs.log.Warn("Trigger analysis reply was not valid JSON", ctxutil.LogFields(ctx)...)
		observability.Current().IncFallback("analyze_relapse_triggers_parse")
		return triggerParseFallback()
	}
	return analysis
}

// parseTriggerAnalysis requires all three keys to be present as arrays.
func parseTriggerAnalysis(raw string) (TriggerAnalysis, bool) {
	var parsed struct {
		Triggers      *[]string `json:"triggers"`
		Strategies    *[]string `json:"strategies"`
		EmergencyPlan *[]string `json:"emergencyPlan"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return TriggerAnalysis{}, false
	}
	if parsed.Triggers == nil || parsed.Strategies == nil || parsed.EmergencyPlan == nil {
		return TriggerAnalysis{}, false
	}
	return TriggerAnalysis{
		Triggers:      *parsed.Triggers,
		Strategies:    *parsed.Strategies,
		EmergencyPlan: *parsed.EmergencyPlan,
	}, true
}

func (cs *companionService) fallback(ctx context.Context, op string, err error) {
	observability.Current().IncFallback(op)
	cs.log.Error("Completion request failed; using fallback reply", append(ctxutil.LogFields(ctx), "operation", op, "error", err)...)
}
