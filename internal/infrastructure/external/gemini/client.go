package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client 封裝 Gemini 單次問答，供 bias 敘述產生使用。
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient 建立 Gemini 客戶端。model 為空時使用 gemini-2.0-flash。
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	cli, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		client: cli,
		model:  cli.GenerativeModel(model),
	}, nil
}

// Generate 送出單一 prompt 並回傳純文字回應。
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return parseResponse(resp), nil
}

// Close 釋放底層連線。
func (c *Client) Close() error {
	return c.client.Close()
}

func parseResponse(resp *genai.GenerateContentResponse) string {
	var out strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for i, part := range resp.Candidates[0].Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			if i > 0 {
				out.WriteString("\n")
			}
			out.WriteString(string(text))
		}
	}
	return out.String()
}
