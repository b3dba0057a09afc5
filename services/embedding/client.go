// Package embedding provides an HTTP adapter to the external embedding
// extraction/quality-assessment model. spec.md treats embedding extraction
// as out of scope ("face detection/embedding extraction internals"); this
// package is the thin client that satisfies the recognition.Provider and
// enrollment.QualityAssessor contracts by delegating to that external
// service, the same way auth/betterauth.Client forwards to BetterAuth
// instead of reimplementing session validation locally.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/moto-nrw/project-phoenix/services/enrollment"
	"github.com/moto-nrw/project-phoenix/services/recognition"
)

// Client calls the external embedding/quality-assessment service over
// HTTP. It implements both recognition.Provider (Embed) and
// enrollment.QualityAssessor (Assess).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. The base URL is read from the
// EMBEDDING_SERVICE_URL environment variable, defaulting to
// http://localhost:8500 for local development against a sidecar model
// server.
func NewClient() *Client {
	baseURL := os.Getenv("EMBEDDING_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8500"
	}
	return NewClientWithURL(baseURL)
}

// NewClientWithURL creates a Client against a specific base URL, useful
// for tests.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type embedFace struct {
	BBox           [4]float64 `json:"bbox"`
	Vector         []float64  `json:"vector"`
	DetectionScore float64    `json:"detection_score"`
}

type embedResponse struct {
	Faces []embedFace `json:"faces"`
}

// Embed implements recognition.Provider.
func (c *Client) Embed(ctx context.Context, image []byte) (recognition.ProviderResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(image))
	if err != nil {
		return recognition.ProviderResult{}, fmt.Errorf("embedding: create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return recognition.ProviderResult{}, fmt.Errorf("embedding: embed request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return recognition.ProviderResult{}, fmt.Errorf("embedding: embed returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return recognition.ProviderResult{}, fmt.Errorf("embedding: decode embed response: %w", err)
	}

	result := recognition.ProviderResult{Faces: make([]recognition.Face, len(decoded.Faces))}
	for i, f := range decoded.Faces {
		result.Faces[i] = recognition.Face{BBox: f.BBox, Vector: f.Vector, DetectionScore: f.DetectionScore}
	}
	return result, nil
}

type assessResponse struct {
	FaceSizeRatio float64 `json:"face_size_ratio"`
	Sharpness     float64 `json:"sharpness"`
	Frontality    float64 `json:"frontality"`
}

// Assess implements enrollment.QualityAssessor.
func (c *Client) Assess(ctx context.Context, frame []byte) (enrollment.FrameAssessment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assess", bytes.NewReader(frame))
	if err != nil {
		return enrollment.FrameAssessment{}, fmt.Errorf("embedding: create assess request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return enrollment.FrameAssessment{}, fmt.Errorf("embedding: assess request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return enrollment.FrameAssessment{}, fmt.Errorf("embedding: assess returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded assessResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return enrollment.FrameAssessment{}, fmt.Errorf("embedding: decode assess response: %w", err)
	}
	return enrollment.FrameAssessment{
		FaceSizeRatio: decoded.FaceSizeRatio,
		Sharpness:     decoded.Sharpness,
		Frontality:    decoded.Frontality,
	}, nil
}
