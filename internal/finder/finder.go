package finder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"reservas-backend/config"
	"reservas-backend/internal/model"
)

// Recommendation is the parsed reply from the generative service. An empty
// RecommendedEnvironmentID means "no match"; Explanation is always
// human-readable.
type Recommendation struct {
	RecommendedEnvironmentID string `json:"recommended_environment_id"`
	Explanation              string `json:"explanation"`
}

// Client forwards a natural-language need plus the environment list to a
// configured generative endpoint and parses its JSON reply. Pure
// pass-through; no retries, no prompt logic beyond formatting the catalog.
type Client struct {
	cfg    config.FinderConfig
	client *http.Client
}

// NewClient creates a finder client from configuration.
func NewClient(cfg config.FinderConfig) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type finderRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

// Recommend asks the service which environment fits the stated need.
func (c *Client) Recommend(ctx context.Context, need string, environments []model.Environment) (Recommendation, error) {
	body, err := json.Marshal(finderRequest{
		Model:  c.cfg.Model,
		Prompt: buildPrompt(need, environments),
	})
	if err != nil {
		return Recommendation{}, fmt.Errorf("failed to encode finder request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return Recommendation{}, fmt.Errorf("failed to build finder request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Recommendation{}, fmt.Errorf("finder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Recommendation{}, fmt.Errorf("finder service returned status %d", resp.StatusCode)
	}

	var rec Recommendation
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return Recommendation{}, fmt.Errorf("failed to parse finder reply: %w", err)
	}
	return rec, nil
}

func buildPrompt(need string, environments []model.Environment) string {
	var b strings.Builder
	b.WriteString("Pick the best environment for this need, or none.\n")
	b.WriteString("Need: " + need + "\n")
	b.WriteString("Environments:\n")
	for _, env := range environments {
		resources := make([]string, 0, len(env.Resources))
		for _, r := range env.Resources {
			resources = append(resources, r.Name)
		}
		fmt.Fprintf(&b, "- id=%d name=%q type=%q location=%q resources=%s\n",
			env.ID, env.Name, env.Type.Name, env.Location, strings.Join(resources, ","))
	}
	return b.String()
}
