package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

// AskClient implements provider.LLM against a sidecar that exposes
// POST /ask {"question"} -> {"answer"}.
type AskClient struct {
	URL    string
	client *http.Client
}

var _ provider.LLM = (*AskClient)(nil)

// NewAskClient returns a client for the ask endpoint rooted at url.
func NewAskClient(url string, timeout time.Duration) *AskClient {
	return &AskClient{
		URL:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (c *AskClient) Generate(ctx context.Context, prompt string) (string, error) {
	data, err := json.Marshal(askRequest{Question: prompt})
	if err != nil {
		return "", fmt.Errorf("ask: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+"/ask", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("ask: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ask: endpoint returned status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ask: reading response: %w", err)
	}

	var result askResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("ask: decoding response: %w", err)
	}
	return result.Answer, nil
}
