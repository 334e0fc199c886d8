package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lily666-hub/cityrun-backend-go/internal/advice"
	"github.com/lily666-hub/cityrun-backend-go/internal/models"
	"github.com/lily666-hub/cityrun-backend-go/internal/repository"
	"github.com/lily666-hub/cityrun-backend-go/internal/scoring"
)

const adviceSystemPrompt = "You are a running-safety assistant for city runners. " +
	"Answer briefly and concretely. When you give suggestions, list them as short bullet points."

// AdviceService runs safety-advice chat turns against the LLM collaborator
// and keeps the conversation history so clients can replay it offline.
type AdviceService struct {
	client *advice.Client
	chats  *repository.ChatRepository
	scorer *scoring.Scorer
	loc    *time.Location
}

// NewAdviceService creates a new advice service. loc is the timezone hours
// are bucketed in; nil means UTC.
func NewAdviceService(client *advice.Client, chats *repository.ChatRepository, scorer *scoring.Scorer, loc *time.Location) *AdviceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AdviceService{
		client: client,
		chats:  chats,
		scorer: scorer,
		loc:    loc,
	}
}

// Chat sends the user's message (optionally prefixed with the current safety
// score for context), stores both turns, and returns the parsed reply. When
// the LLM collaborator is unreachable the stored history is the fallback:
// the error is returned alongside an offline-mode response.
func (s *AdviceService) Chat(ctx context.Context, ownerID string, req models.AdviceRequest) (*models.AdviceResponse, error) {
	messages := []advice.ChatMessage{{Role: "system", Content: adviceSystemPrompt}}

	if req.IncludeScore {
		score := s.scorer.ScoreAt(req.Latitude, req.Longitude, time.Now().In(s.loc), scoring.Environment{})
		messages = append(messages, advice.ChatMessage{
			Role: "system",
			Content: fmt.Sprintf(
				"Current safety score at the runner's location is %.0f/100 (time of day %.0f, lighting %.0f, crowd %.0f, incidents %.0f).",
				score.Overall, score.Factors.TimeOfDay, score.Factors.Lighting,
				score.Factors.CrowdDensity, score.Factors.IncidentRate),
		})
	}

	history, err := s.chats.History(ownerID, 20)
	if err != nil {
		log.Printf("[AdviceService] failed to load history: %v", err)
	}
	for _, m := range history {
		messages = append(messages, advice.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, advice.ChatMessage{Role: "user", Content: req.Message})

	s.save(ownerID, "user", req.Message, "")

	reply, err := s.client.Complete(ctx, messages)
	if err != nil {
		return &models.AdviceResponse{
			Reply:    "The advice service is unreachable right now. Your chat history is still available.",
			Severity: advice.SeverityInfo,
			Offline:  true,
		}, fmt.Errorf("advice service unavailable: %w", err)
	}

	severity := advice.ParseSeverity(reply)
	s.save(ownerID, "assistant", reply, severity)

	return &models.AdviceResponse{
		Reply:       reply,
		Severity:    severity,
		Suggestions: advice.ParseSuggestions(reply),
	}, nil
}

// History returns the owner's stored conversation, oldest first
func (s *AdviceService) History(ownerID string, limit int) ([]models.ChatMessage, error) {
	return s.chats.History(ownerID, limit)
}

func (s *AdviceService) save(ownerID, role, content, severity string) {
	msg := &models.ChatMessage{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		Role:     role,
		Content:  content,
		Severity: severity,
	}
	if err := s.chats.Save(msg); err != nil {
		log.Printf("[AdviceService] failed to store chat message: %v", err)
	}
}
