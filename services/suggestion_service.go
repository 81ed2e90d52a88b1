package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/planejatrip/planejatrip-backend/config"
	"github.com/planejatrip/planejatrip-backend/logger"
	"github.com/planejatrip/planejatrip-backend/types"
)

// SuggestionService asks a generative language model for itinerary ideas
// built from the trip's destination, dates, budget and preferences. The
// provider speaks the Gemini generateContent API.
type SuggestionService struct {
	config *config.SuggestionConfig
	client *http.Client
}

func NewSuggestionService(cfg *config.SuggestionConfig) *SuggestionService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SuggestionService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// SuggestItinerary returns free-form itinerary text for the trip.
func (s *SuggestionService) SuggestItinerary(ctx context.Context, trip *types.Trip) (string, error) {
	if s.config.APIKey == "" {
		return "", fmt.Errorf("suggestion provider not configured")
	}

	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(trip)}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode suggestion request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(s.config.BaseURL, "/"), s.config.Model, s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.GetLogger().Warnw("Suggestion provider returned non-OK status",
			"status", resp.StatusCode, "model", s.config.Model)
		return "", fmt.Errorf("suggestion provider returned status %d", resp.StatusCode)
	}

	var parsed generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode suggestion response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("suggestion provider returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(trip *types.Trip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Monte sugestões de roteiro para uma viagem a %s", trip.Destination)
	fmt.Fprintf(&b, " de %s a %s.", trip.StartDate.Format("02/01/2006"), trip.EndDate.Format("02/01/2006"))
	fmt.Fprintf(&b, " Orçamento total: %s %s para %d pessoa(s).",
		trip.Currency.Symbol(), trip.Budget.StringFixed(2), len(trip.Participants))

	switch trip.Preferences.BudgetStyle {
	case types.BudgetStyleEconomico:
		b.WriteString(" Estilo da viagem: econômico, priorize opções baratas ou gratuitas.")
	case types.BudgetStyleLuxo:
		b.WriteString(" Estilo da viagem: luxo, priorize experiências premium.")
	default:
		b.WriteString(" Estilo da viagem: confortável, equilibre custo e qualidade.")
	}
	if len(trip.Preferences.Likes) > 0 {
		fmt.Fprintf(&b, " O grupo gosta de: %s.", strings.Join(trip.Preferences.Likes, ", "))
	}
	if len(trip.Preferences.Dislikes) > 0 {
		fmt.Fprintf(&b, " O grupo prefere evitar: %s.", strings.Join(trip.Preferences.Dislikes, ", "))
	}
	b.WriteString(" Responda em português, organizado por dia, com custos estimados por atividade.")
	return b.String()
}
