package worker

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/wastewise/wastewise/config"
	"github.com/wastewise/wastewise/models"
)

// VisionClient calls the external AI vision service that labels waste photos
// with a recommended bin type.
type VisionClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewVisionClient builds the client from application config.
func NewVisionClient(cfg config.AppConfig) *VisionClient {
	return &VisionClient{
		baseURL: cfg.VisionBaseURL,
		apiKey:  cfg.VisionAPIKey,
		model:   cfg.VisionModel,
		http:    &http.Client{Timeout: time.Duration(cfg.VisionTimeoutSec) * time.Second},
	}
}

type visionRequest struct {
	Model       string `json:"model"`
	ImageBase64 string `json:"image_base64"`
}

type visionResponse struct {
	BinType    string  `json:"bin_type"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// Classify sends the photo file to the vision service and returns the
// recommended bin type.
func (c *VisionClient) Classify(ctx context.Context, imagePath string) (string, error) {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	body, err := json.Marshal(visionRequest{
		Model:       c.model,
		ImageBase64: base64.StdEncoding.EncodeToString(raw),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classifications", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request: %w", err)
	}
	defer resp.Body.Close()

	var parsed visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("vision response decode: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", fmt.Errorf("vision service: %s", parsed.Error)
		}
		return "", fmt.Errorf("vision service status %d", resp.StatusCode)
	}
	if !models.ValidBinType(parsed.BinType) {
		return "", fmt.Errorf("vision service returned unknown bin type %q", parsed.BinType)
	}
	return parsed.BinType, nil
}
