package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fridgelens/backend/config"
	"github.com/fridgelens/backend/internal/model"
)

// LLMService talks to an OpenAI-compatible chat completions API for every
// text task: recipe generation, ingredient recognition from photos and UI
// string translation. One instance is created at startup and injected into
// its consumers.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	logger *zap.Logger
}

// NewLLMService creates a new LLMService instance.
func NewLLMService(cfg *config.Config, logger *zap.Logger) (*LLMService, error) {
	if cfg.ChatAPIKey == "" {
		return nil, fmt.Errorf("chat API key must be set")
	}

	apiURL := cfg.ChatAPIURL
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}

	return &LLMService{
		apiKey: cfg.ChatAPIKey,
		apiURL: apiURL,
		model:  chatModel,
		client: &http.Client{Timeout: 90 * time.Second},
		logger: logger.Named("llm"),
	}, nil
}

// Message represents a message in the chat. Content is either a plain string
// or a list of contentPart for multimodal requests.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

// Request represents a request to the chat completions API.
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature,omitempty"`
}

const recipeSchemaPrompt = `You are a professional chef. Please provide your response in JSON format with the following structure:
{
    "recipes": [
        {
            "name": "Recipe name",
            "description": "Brief appetizing description",
            "ingredients": [
                {"name": "egg", "quantity": 2, "unit": "unit"},
                {"name": "flour", "quantity": 200, "unit": "g"}
            ],
            "instructions": [
                "Step 1: ...",
                "Step 2: ..."
            ],
            "calories": 350
        }
    ]
}

Note: ingredient quantities are per single serving and must be numbers.
Use exactly the ingredient names and units from the provided inventory.
The calories field is per serving and must be a number.`

// GenerateRecipes asks the model for candidate recipes built from the pantry.
// An empty recipes array in a well-formed response is returned as an empty
// slice, not an error.
func (s *LLMService) GenerateRecipes(ctx context.Context, req GenerateRecipesRequest) ([]model.Recipe, error) {
	messages := []Message{
		{Role: "system", Content: recipeSchemaPrompt},
		{Role: "user", Content: buildRecipePrompt(req)},
	}

	content, err := s.chat(ctx, Request{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    temperatureForCreativity(req.Creativity),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipes: %w", err)
	}

	var wrapper struct {
		Recipes []model.Recipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		s.logger.Error("unparsable recipe response", zap.Error(err), zap.String("raw", content))
		return nil, &ParseError{Op: "generate recipes", Err: err}
	}

	return wrapper.Recipes, nil
}

// buildRecipePrompt renders the user prompt for one generation call.
func buildRecipePrompt(req GenerateRecipesRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d recipes that can be cooked with this inventory:\n", req.Count)
	for _, ing := range req.Pantry {
		fmt.Fprintf(&b, "- %g %s %s\n", ing.Quantity, ing.Unit, ing.Name)
	}
	b.WriteString("Use only ingredients from the inventory, plus basic staples (salt, pepper, oil, water, sugar).\n")

	switch {
	case req.MealType.Hot && !req.MealType.Cold:
		b.WriteString("Only suggest hot dishes.\n")
	case req.MealType.Cold && !req.MealType.Hot:
		b.WriteString("Only suggest cold dishes.\n")
	}

	if c := req.Creativity; c > 0 {
		fmt.Fprintf(&b, "On a creativity scale from 1 (classic everyday dishes) to 5 (adventurous and unexpected), aim for %d.\n", c)
	}

	if req.Language != "" {
		fmt.Fprintf(&b, "Write all names, descriptions, ingredients and instructions in %s.\n", req.Language)
	}

	if len(req.ExcludeNames) > 0 {
		fmt.Fprintf(&b, "Do not suggest any of these recipes again: %s.\n", strings.Join(req.ExcludeNames, ", "))
	}

	return b.String()
}

// temperatureForCreativity maps the 1..5 creativity parameter onto sampling
// temperature.
func temperatureForCreativity(creativity int) float64 {
	if creativity < 1 {
		creativity = 1
	}
	if creativity > 5 {
		creativity = 5
	}
	return 0.5 + 0.1*float64(creativity)
}

const ingredientSchemaPrompt = `You are an expert at recognizing food in photos. Identify every distinct ingredient visible in the provided refrigerator photos and estimate its quantity. Please provide your response in JSON format with the following structure:
{
    "ingredients": [
        {"name": "egg", "quantity": 6, "unit": "unit"},
        {"name": "milk", "quantity": 1, "unit": "l"}
    ]
}

Quantities must be numbers. Use "unit" for countable items.`

// IdentifyIngredients recognizes pantry ingredients from raw image bytes.
func (s *LLMService) IdentifyIngredients(ctx context.Context, images [][]byte) ([]model.AvailableIngredient, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images provided")
	}

	parts := []contentPart{{Type: "text", Text: "What ingredients are in these photos?"}}
	for _, img := range images {
		uri := fmt.Sprintf("data:%s;base64,%s",
			http.DetectContentType(img), base64.StdEncoding.EncodeToString(img))
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageRef{URL: uri}})
	}

	messages := []Message{
		{Role: "system", Content: ingredientSchemaPrompt},
		{Role: "user", Content: parts},
	}

	content, err := s.chat(ctx, Request{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to identify ingredients: %w", err)
	}

	var wrapper struct {
		Ingredients []model.AvailableIngredient `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		s.logger.Error("unparsable ingredient response", zap.Error(err), zap.String("raw", content))
		return nil, &ParseError{Op: "identify ingredients", Err: err}
	}

	return wrapper.Ingredients, nil
}

// TranslateStrings translates the values of the given string map into the
// target language, keeping the keys untouched.
func (s *LLMService) TranslateStrings(ctx context.Context, language string, source map[string]string) (map[string]string, error) {
	payload, err := json.Marshal(source)
	if err != nil {
		return nil, &TranslationError{Language: language, Err: err}
	}

	messages := []Message{
		{Role: "system", Content: "You are a translator for a cooking app. Respond only with a JSON object that has exactly the same keys as the input and translated string values."},
		{Role: "user", Content: fmt.Sprintf("Translate the values of this JSON object to %s:\n%s", language, payload)},
	}

	content, err := s.chat(ctx, Request{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, &TranslationError{Language: language, Err: err}
	}

	var translated map[string]string
	if err := json.Unmarshal([]byte(content), &translated); err != nil {
		s.logger.Error("unparsable translation response", zap.Error(err), zap.String("raw", content))
		return nil, &TranslationError{Language: language, Err: err}
	}

	return translated, nil
}

// chat performs one chat completions call and returns the first choice's
// message content.
func (s *LLMService) chat(ctx context.Context, reqBody Request) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("chat API request failed",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}
