package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aletheia-labs/aletheia/src/webclient"
)

// Description is what a Describer extracts from an image: on-image text via
// OCR and a natural-language description. Both feed the text pipeline.
type Description struct {
	OCRText     string
	Description string
}

// Combined renders the description as claim text for classification.
func (d Description) Combined() string {
	return fmt.Sprintf("Text: %s\n\nImage Description: %s", d.OCRText, d.Description)
}

// Describer turns image bytes into text. The verification pipeline treats it
// as an opaque collaborator.
type Describer interface {
	Describe(ctx context.Context, imageData []byte) (Description, error)
}

const (
	ocrPrompt = `Extract all text visible in this image.
If there is no text, respond with 'No text found'.
Only return the extracted text, nothing else.`

	descriptionPrompt = `Provide a detailed description of this image.
Focus on: main subjects, context, setting, any notable elements, and overall theme.
Keep it concise but informative (2-3 sentences).`
)

// OpenAIDescriber implements Describer with two vision completions, one for
// OCR and one for the description.
type OpenAIDescriber struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewOpenAIDescriber returns a vision-backed describer.
func NewOpenAIDescriber(apiKey, model string) (*OpenAIDescriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("images: OpenAI API key not configured")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIDescriber{
		apiKey:     apiKey,
		model:      model,
		endpoint:   "https://api.openai.com/v1/chat/completions",
		httpClient: webclient.NewDefault(120 * time.Second),
	}, nil
}

// Describe runs OCR and description passes over the image.
func (d *OpenAIDescriber) Describe(ctx context.Context, imageData []byte) (Description, error) {
	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData)

	ocrText, err := d.visionCompletion(ctx, ocrPrompt, imageURL)
	if err != nil {
		return Description{}, fmt.Errorf("images: ocr: %w", err)
	}

	description, err := d.visionCompletion(ctx, descriptionPrompt, imageURL)
	if err != nil {
		return Description{}, fmt.Errorf("images: describe: %w", err)
	}

	return Description{
		OCRText:     strings.TrimSpace(ocrText),
		Description: strings.TrimSpace(description),
	}, nil
}

func (d *OpenAIDescriber) visionCompletion(ctx context.Context, prompt, imageURL string) (string, error) {
	payload := map[string]interface{}{
		"model": d.model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": prompt},
					{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
				},
			},
		},
	}

	bodyBytes, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", d.endpoint, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return result.Choices[0].Message.Content, nil
}
