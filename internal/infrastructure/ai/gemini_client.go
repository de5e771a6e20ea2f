package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GeminiClient talks to the Gemini text-generation API over plain HTTP.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGeminiClient creates a new GeminiClient.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		model:   "gemini-2.5-flash",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// geminiRequest is the request payload for generateContent.
type geminiRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// tool enables optional request features such as search grounding.
type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

// geminiResponse is the response payload of generateContent.
type geminiResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content           content            `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
}

type groundingMetadata struct {
	GroundingChunks []groundingChunk `json:"groundingChunks"`
}

type groundingChunk struct {
	Web *struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"web,omitempty"`
}

// Source is a citation attached to grounded generations.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GenerateContent sends a prompt and returns the generated text plus any
// citation sources. withSearchGrounding attaches the search grounding tool.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, withSearchGrounding bool) (string, []Source, error) {
	req := geminiRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}
	if withSearchGrounding {
		req.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("API call error (status: %d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read response: %w", err)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", nil, fmt.Errorf("no valid response generated")
	}

	first := geminiResp.Candidates[0]
	var sources []Source
	if first.GroundingMetadata != nil {
		for _, chunk := range first.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil {
				sources = append(sources, Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
			}
		}
	}

	return first.Content.Parts[0].Text, sources, nil
}
