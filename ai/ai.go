package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Service is the generation-service client. It talks to a DashScope-compatible
// chat completions endpoint and turns prompts into Python parser programs.
type Service struct {
	apiKey             string
	modelName          string
	apiURL             string
	httpClient         *http.Client
	lastRequestTime    time.Time
	requestMutex       sync.Mutex
	minRequestInterval time.Duration
}

type dashScopeRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []Message `json:"messages"`
	} `json:"input"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type dashScopeResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
}

func New(apiKey, modelName, apiURL string) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	return &Service{
		apiKey:    apiKey,
		modelName: modelName,
		apiURL:    apiURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		minRequestInterval: 500 * time.Millisecond,
	}, nil
}

func (a *Service) Close() error {
	return nil
}

// GenerateParser asks the model for a Python program converting the sampled
// JSONL shape to CSV. priorError, when non-empty, is the failure text of the
// previous attempt and is fed back so the model can repair the program.
func (a *Service) GenerateParser(ctx context.Context, sample, instruction, priorError string) (string, error) {
	prompt := BuildParserPrompt(sample, instruction, priorError)

	response, err := a.call(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("failed to generate parser: %w", err)
	}

	code := ExtractPythonCode(response)
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("no code found in model response")
	}
	return code, nil
}

// rateLimit enforces a minimum interval between outbound requests.
func (a *Service) rateLimit() {
	a.requestMutex.Lock()
	defer a.requestMutex.Unlock()

	now := time.Now()
	if since := now.Sub(a.lastRequestTime); since < a.minRequestInterval {
		time.Sleep(a.minRequestInterval - since)
	}
	a.lastRequestTime = time.Now()
}

func (a *Service) call(ctx context.Context, messages []Message) (string, error) {
	a.rateLimit()

	reqBody := dashScopeRequest{Model: a.modelName}
	reqBody.Input.Messages = messages

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Exponential backoff on rate-limit and transport errors: 2s, 4s, 8s.
	maxRetries := 3
	baseDelay := 2 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			a.rateLimit()
		}

		req, err := http.NewRequestWithContext(ctx, "POST", a.apiURL, bytes.NewBuffer(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.apiKey))
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if attempt < maxRetries {
				continue
			}
			return "", fmt.Errorf("failed to send request: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			if attempt < maxRetries {
				continue
			}
			return "", fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt < maxRetries {
				continue
			}
			return "", fmt.Errorf("API returned status %d: %s (max retries exceeded)", resp.StatusCode, apiErrorSummary(body))
		}

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, apiErrorSummary(body))
		}

		var dashResp dashScopeResponse
		if err := json.Unmarshal(body, &dashResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal response: %w", err)
		}

		if dashResp.Code != "" && dashResp.Code != "Success" {
			return "", fmt.Errorf("API error: %s - %s", dashResp.Code, dashResp.Message)
		}

		if len(dashResp.Output.Choices) == 0 {
			return "", fmt.Errorf("no response from AI model")
		}

		return dashResp.Output.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("max retries exceeded")
}

// apiErrorSummary pulls code/message out of an error body, falling back to the
// raw body, so callers never surface a full JSON blob to users.
func apiErrorSummary(body []byte) string {
	var errorResp struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Code != "" {
		return fmt.Sprintf("%s - %s (request_id: %s)", errorResp.Code, errorResp.Message, errorResp.RequestID)
	}
	return string(body)
}
