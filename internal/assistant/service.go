package assistant

import (
	"context"
	"fmt"
	"log"

	"github.com/airwatchhq/airwatch/internal/airq"
	"github.com/airwatchhq/airwatch/internal/aqi"
	"github.com/airwatchhq/airwatch/internal/voice"
)

// redirectMessage is returned for voice queries outside the air-quality domain.
const redirectMessage = "I'm specialized in air quality questions. Please ask me about AQI, pollution levels, or health recommendations."

// historyLimit caps how many prior turns are replayed to the provider.
const historyLimit = 10

// HistoryStore persists conversation turns and voice commands.
type HistoryStore interface {
	AppendChatMessage(m airq.ChatMessage) (airq.ChatMessage, error)
	ChatHistory(sessionID string, limit int) []airq.ChatMessage
	AppendVoiceCommand(c airq.VoiceCommand) (airq.VoiceCommand, error)
}

// Service answers chat and voice questions grounded in the current AQI
// context. Provider outages degrade to deterministic mock responses, never to
// a hard failure.
type Service struct {
	provider Provider
	store    HistoryStore
}

// NewService creates a Service. provider may be nil, in which case every
// response comes from the mock path.
func NewService(provider Provider, store HistoryStore) *Service {
	return &Service{
		provider: provider,
		store:    store,
	}
}

// Chat answers one user message for a session, stores both turns, and returns
// the assistant's reply.
func (s *Service) Chat(ctx context.Context, sessionID, message string, aqiCtx airq.AQIContext) (string, error) {
	messages := []Message{{Role: "system", Content: systemPrompt(aqiCtx)}}
	for _, turn := range s.store.ChatHistory(sessionID, historyLimit) {
		messages = append(messages, Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, Message{Role: "user", Content: message})

	response := s.complete(ctx, Request{Messages: messages, MaxTokens: 1000}, func() string {
		return mockChatResponse(message, aqiCtx)
	})

	contextCopy := aqiCtx
	if _, err := s.store.AppendChatMessage(airq.ChatMessage{
		SessionID: sessionID,
		Role:      "user",
		Content:   message,
		Context:   &contextCopy,
	}); err != nil {
		return "", err
	}
	if _, err := s.store.AppendChatMessage(airq.ChatMessage{
		SessionID: sessionID,
		Role:      "assistant",
		Content:   response,
		Context:   &contextCopy,
	}); err != nil {
		return "", err
	}

	return response, nil
}

// VoiceReply is the outcome of a processed voice command.
type VoiceReply struct {
	Response          string         `json:"response"`
	Intent            voice.Intent   `json:"intent"`
	Entities          voice.Entities `json:"entities"`
	IsAirQualityQuery bool           `json:"isAirQualityQuery"`
}

// Voice processes a transcript: extracts the intent, answers air-quality
// queries with a short spoken-style reply, and redirects everything else.
func (s *Service) Voice(ctx context.Context, sessionID, transcript string, aqiCtx airq.AQIContext) (VoiceReply, error) {
	result := voice.Extract(transcript)

	if !result.IsAirQualityQuery {
		return VoiceReply{
			Response: redirectMessage,
			Intent:   result.Intent,
			Entities: result.Entities,
		}, nil
	}

	prompt := voice.Prompt(result, transcript)
	messages := []Message{
		{Role: "system", Content: voiceSystemPrompt(aqiCtx)},
		{Role: "user", Content: prompt},
	}

	response := s.complete(ctx, Request{Messages: messages, MaxTokens: 200}, func() string {
		return mockVoiceResponse(prompt, aqiCtx)
	})

	if _, err := s.store.AppendVoiceCommand(airq.VoiceCommand{
		SessionID:  sessionID,
		Transcript: transcript,
		Intent:     result.Intent,
		Entities:   result.Entities,
		Response:   response,
	}); err != nil {
		return VoiceReply{}, err
	}

	return VoiceReply{
		Response:          response,
		Intent:            result.Intent,
		Entities:          result.Entities,
		IsAirQualityQuery: true,
	}, nil
}

// complete calls the provider when available, degrading to the mock response
// on absence or error.
func (s *Service) complete(ctx context.Context, req Request, mock func() string) string {
	if s.provider == nil || !s.provider.Available() {
		return mock()
	}
	response, err := s.provider.Complete(ctx, req)
	if err != nil {
		log.Printf("WARN: chat provider %s failed, using mock response: %v", s.provider.Name(), err)
		return mock()
	}
	return response
}

func systemPrompt(ctx airq.AQIContext) string {
	return fmt.Sprintf(`You are AirWatch AI, an expert air quality assistant for Bengaluru, India. You provide accurate, helpful information about air pollution, health impacts, and safety recommendations.

Current Air Quality Context:
- Location: %s
- Current AQI: %d (%s)
- PM2.5: %.1f µg/m³, PM10: %.1f µg/m³, CO: %.2f mg/m³, O3: %.1f µg/m³, NO2: %.1f µg/m³, SO2: %.1f µg/m³
- Temperature: %.0f°C, Humidity: %.0f%%, Wind Speed: %.0f km/h
- Last Updated: %s

AQI Categories: 0-50 Good, 51-100 Moderate, 101-150 Unhealthy for Sensitive Groups, 151-200 Unhealthy, 201-300 Very Unhealthy, 301+ Hazardous.

Guidelines:
1. Provide specific, actionable advice based on current conditions
2. Explain health impacts clearly for children, the elderly, and people with respiratory conditions
3. Suggest protective measures when needed (masks, indoor activities, air purifiers)
4. Be conversational but authoritative, and use the current data in your responses

Avoid medical diagnoses, treatment advice, and speculation beyond reasonable air quality patterns.`,
		ctx.Location, ctx.CurrentAQI, ctx.Classification.Category,
		ctx.Pollutants.PM25, ctx.Pollutants.PM10, ctx.Pollutants.CO,
		ctx.Pollutants.O3, ctx.Pollutants.NO2, ctx.Pollutants.SO2,
		ctx.Weather.Temperature, ctx.Weather.Humidity, ctx.Weather.WindSpeed,
		ctx.Timestamp.Format("2006-01-02 15:04 MST"))
}

func voiceSystemPrompt(ctx airq.AQIContext) string {
	return fmt.Sprintf(`You are the AirWatch AI voice assistant. Provide concise, spoken responses about air quality in Bengaluru. Keep responses under 100 words and conversational for voice delivery.

Current Context:
- AQI: %d (%s)
- Location: %s
- Primary concern: %s

Format for voice: short, clear sentences. No complex data unless specifically asked.`,
		ctx.CurrentAQI, ctx.Classification.Category, ctx.Location,
		aqi.PrimaryConcern(ctx.Pollutants))
}
