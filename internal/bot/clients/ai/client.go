package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/central-university-dev/go-wanbit/internal/common/httputil"
	"github.com/central-university-dev/go-wanbit/internal/config"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
)

// Client - клиент OpenAI-совместимого API chat completions.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	model   string
	logger  *slog.Logger
}

func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	baseURL := cfg.AIBaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Client{
		client:  httputil.NewResilientClient(cfg, logger, "ai"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  cfg.AIAPIKey,
		model:   cfg.AIModel,
		logger:  logger,
	}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete отправляет системную инструкцию и вопрос пользователя, возвращает текст первого варианта ответа.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	body := completionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	var (
		result completionResponse
		failed apiError
	)

	request := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		SetError(&failed)

	if c.apiKey != "" {
		request.SetAuthToken(c.apiKey)
	}

	resp, err := request.Post(c.baseURL + "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("ошибка при обращении к AI API: %w", err)
	}

	if !resp.IsSuccess() {
		c.logger.Error("AI API вернул ошибку",
			"status", resp.StatusCode(),
			"message", failed.Error.Message,
		)

		return "", &customerrors.HTTPError{StatusCode: resp.StatusCode(), Message: failed.Error.Message}
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("AI API вернул пустой ответ")
	}

	return result.Choices[0].Message.Content, nil
}
