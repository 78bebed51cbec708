package openai

import (
	"context"
	"errors"
	"strings"

	openaiapi "github.com/sashabaranov/go-openai"

	"github.com/PeterBarbas/leaply-sub001/internal/usecase/discover"
)

type Client struct {
	api *openaiapi.Client
}

func NewClient(token, baseURL string) *Client {
	cfg := openaiapi.DefaultConfig(token)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		api: openaiapi.NewClientWithConfig(cfg),
	}
}

func (c *Client) Complete(ctx context.Context, req discover.CompletionRequest) (string, error) {
	apiReq := buildRequest(req)

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

func buildRequest(req discover.CompletionRequest) openaiapi.ChatCompletionRequest {
	apiReq := openaiapi.ChatCompletionRequest{
		Model:               req.Model,
		MaxCompletionTokens: req.MaxCompletionTokens,
		Stream:              false,
		Messages:            toAPIMessages(req.Messages),
	}
	if req.JSON {
		apiReq.ResponseFormat = &openaiapi.ChatCompletionResponseFormat{
			Type: openaiapi.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return apiReq
}

func toAPIMessages(msgs []discover.Message) []openaiapi.ChatCompletionMessage {
	res := make([]openaiapi.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, openaiapi.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Text,
		})
	}
	return res
}
