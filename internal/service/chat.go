package service

import (
	"context"
	"log"
	"strings"

	"github.com/Subasree2717/agropredictor/internal/models"
	"github.com/Subasree2717/agropredictor/internal/repository"
)

const (
	SourceGemini   = "gemini"
	SourceFallback = "fallback"
)

// keywordRule maps any of a set of keywords to a canned answer
type keywordRule struct {
	keywords []string
	answer   string
}

// Checked in order; the first rule with a matching keyword wins.
var fallbackRules = []keywordRule{
	{[]string{"fertilizer", "npk", "manure"}, "Use NPK or organic compost for optimal results depending on the crop."},
	{[]string{"soil", "clay", "sandy"}, "Loamy soil is ideal for most crops due to its drainage and nutrient balance."},
	{[]string{"water", "watering", "irrigation"}, "Water early in the morning or late evening to reduce evaporation."},
	{[]string{"weather", "rain", "sunny"}, "You can check the live weather and 7-day forecast using our weather feature."},
	{[]string{"crop", "plant", "grow"}, "You can try our Crop Predictor tool based on your soil and weather conditions."},
}

const defaultFallbackAnswer = "I'm still learning! Please ask about soil, fertilizer, watering, or crops."

// FallbackReply answers from the keyword rules. Matching is a
// case-insensitive substring test.
func FallbackReply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.answer
			}
		}
	}
	return defaultFallbackAnswer
}

// ChatService answers farming questions with the LLM and falls back to
// keyword rules when it is unavailable
type ChatService struct {
	llm     TextGenerator
	history repository.HistoryStore
}

// NewChatService creates a new ChatService. history may be nil.
func NewChatService(llm TextGenerator, history repository.HistoryStore) *ChatService {
	return &ChatService{llm: llm, history: history}
}

// Reply never fails because of the LLM; it returns the fallback answer
// instead. The exchange is stored when history is configured.
func (s *ChatService) Reply(ctx context.Context, message string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{UserMessage: message}

	answer, err := s.llm.Generate(ctx, message)
	if err != nil {
		log.Printf("[Chat] Gemini unavailable, using fallback: %v", err)
		msg.BotResponse = FallbackReply(message)
		msg.Source = SourceFallback
	} else {
		msg.BotResponse = answer
		msg.Source = SourceGemini
	}

	if s.history != nil {
		if err := s.history.SaveChat(ctx, msg); err != nil {
			log.Printf("[Chat] Failed to save chat history: %v", err)
		}
	}
	return msg, nil
}

// History lists stored exchanges, newest first
func (s *ChatService) History(ctx context.Context, filter models.HistoryFilter) ([]models.ChatMessage, error) {
	if s.history == nil {
		return []models.ChatMessage{}, nil
	}
	return s.history.ListChats(ctx, filter)
}
