package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgelens/backend/config"
)

// ImageGenerationRequest represents a request to the images API.
type ImageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

// ImageGenerationResponse represents the response from the images API.
type ImageGenerationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL     string `json:"url,omitempty"`
		B64JSON string `json:"b64_json,omitempty"`
	} `json:"data"`
}

// ImageService generates dish images. Images come back base64-encoded and are
// returned as self-contained data URIs; when an S3 bucket is configured the
// bytes are uploaded there instead and the public URL is returned.
type ImageService struct {
	apiKey   string
	apiURL   string
	model    string
	s3Config *config.S3Config
	client   *http.Client
	logger   *zap.Logger
}

// NewImageService creates a new ImageService instance. s3Config may be nil,
// in which case generated images stay inline as data URIs.
func NewImageService(cfg *config.Config, s3Config *config.S3Config, logger *zap.Logger) (*ImageService, error) {
	apiKey := cfg.ImageAPIKey
	if apiKey == "" {
		apiKey = cfg.ChatAPIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("image API key must be set")
	}

	apiURL := cfg.ImageAPIURL
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/images/generations"
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = "dall-e-3"
	}

	return &ImageService{
		apiKey:   apiKey,
		apiURL:   apiURL,
		model:    imageModel,
		s3Config: s3Config,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger.Named("image"),
	}, nil
}

// GenerateDishImage generates a plated-dish image for a recipe. Any failure
// is returned as a *GenerationError; callers treat it as recoverable.
func (s *ImageService) GenerateDishImage(ctx context.Context, name, description string) (string, error) {
	prompt := buildDishImagePrompt(name, description)

	reqBody := ImageGenerationRequest{
		Model:          s.model,
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		Quality:        "standard", // standard quality to control costs
		ResponseFormat: "b64_json",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GenerationError{Recipe: name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &GenerationError{Recipe: name, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &GenerationError{Recipe: name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Recipe: name, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("image API request failed",
			zap.String("recipe", name), zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return "", &GenerationError{Recipe: name, Err: fmt.Errorf("API request failed with status %d", resp.StatusCode)}
	}

	var result ImageGenerationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &GenerationError{Recipe: name, Err: err}
	}

	if len(result.Data) == 0 || result.Data[0].B64JSON == "" {
		return "", &GenerationError{Recipe: name, Err: fmt.Errorf("no image data in API response")}
	}

	dataURI := "data:image/png;base64," + result.Data[0].B64JSON

	if s.s3Config != nil {
		if s3URL, err := s.uploadToS3(ctx, result.Data[0].B64JSON); err == nil {
			return s3URL, nil
		} else {
			s.logger.Warn("S3 upload failed, keeping inline data URI",
				zap.String("recipe", name), zap.Error(err))
		}
	}

	return dataURI, nil
}

// uploadToS3 stores the decoded image and returns its public URL.
func (s *ImageService) uploadToS3(ctx context.Context, b64 string) (string, error) {
	imageData, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("failed to decode image data: %w", err)
	}

	fileName := fmt.Sprintf("dish-images/%s.png", uuid.New().String())

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	s.logger.Info("uploaded dish image to S3", zap.String("url", publicURL))
	return publicURL, nil
}

// buildDishImagePrompt creates the prompt for dish image generation.
func buildDishImagePrompt(name, description string) string {
	prompt := fmt.Sprintf(
		"A professional food photography shot of %s, %s, shot with natural lighting, shallow depth of field, restaurant quality presentation, appetizing colors",
		name, description)
	if len(prompt) > 900 {
		prompt = prompt[:900]
	}
	return prompt
}
