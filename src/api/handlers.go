package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aletheia-labs/aletheia/src/data"
	"github.com/aletheia-labs/aletheia/src/images"
	"github.com/aletheia-labs/aletheia/src/verify"
)

const (
	maxImageBytes  = 10 * 1024 * 1024
	requestTimeout = 180 * time.Second
)

// MisinformationResponse is the wire shape shared with the bot clients.
type MisinformationResponse struct {
	IsMisinformation bool     `json:"is_misinformation"`
	Confidence       float64  `json:"confidence"`
	IsNews           bool     `json:"is_news"`
	Summary          string   `json:"summary,omitempty"`
	Evidence         []string `json:"evidence,omitempty"`
	SourcesChecked   []string `json:"sources_checked,omitempty"`
	Recommendation   string   `json:"recommendation,omitempty"`
	ExtractedText    string   `json:"extracted_text,omitempty"`
	ImageDescription string   `json:"image_description,omitempty"`
	MessageType      string   `json:"message_type"`
}

// Handlers owns the route implementations. Describer and history are
// optional; their routes answer 503 when unconfigured.
type Handlers struct {
	service   *verify.Service
	describer images.Describer
	history   *data.HistoryStore
}

// NewHandlers wires the HTTP layer to the pipeline.
func NewHandlers(service *verify.Service, describer images.Describer, history *data.HistoryStore) *Handlers {
	return &Handlers{service: service, describer: describer, history: history}
}

// Root is a liveness blurb.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Aletheia Misinformation Detection API", "status": "running"})
}

// AnalyzeText classifies a text message.
func (h *Handlers) AnalyzeText(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required,min=1,max=10000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	verdict, err := h.service.Classify(ctx, verify.Claim{Text: req.Text})
	if err != nil {
		log.Printf("api: text classification aborted [%s]: %v", c.GetString("request_id"), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "classification aborted"})
		return
	}

	c.JSON(http.StatusOK, toResponse(verdict, "text", "", ""))
}

// AnalyzeImage extracts on-image text and a description, then classifies the
// combined text through the same pipeline as direct text input.
func (h *Handlers) AnalyzeImage(c *gin.Context) {
	if h.describer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "image analysis not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "file upload required"})
		return
	}
	if file.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"err": "image too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "unreadable upload"})
		return
	}
	defer f.Close()

	imageData, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil || len(imageData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "empty file"})
		return
	}
	if !isImageData(imageData) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "file is not a supported image (JPEG, PNG, GIF, WebP)"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	desc, err := h.describer.Describe(ctx, imageData)
	if err != nil {
		log.Printf("api: image description failed [%s]: %v", c.GetString("request_id"), err)
		c.JSON(http.StatusBadGateway, gin.H{"err": "image analysis failed"})
		return
	}

	verdict, err := h.service.Classify(ctx, verify.Claim{Text: desc.Combined()})
	if err != nil {
		log.Printf("api: image classification aborted [%s]: %v", c.GetString("request_id"), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "classification aborted"})
		return
	}

	c.JSON(http.StatusOK, toResponse(verdict, "image", desc.OCRText, desc.Description))
}

// History lists recent stored verdicts.
func (h *Handlers) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "history not configured"})
		return
	}

	records, err := h.history.Recent(c.Request.Context(), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "history unavailable"})
		return
	}

	out := make([]gin.H, 0, len(records))
	for _, r := range records {
		out = append(out, gin.H{
			"claim":             r.ClaimText,
			"is_misinformation": r.IsMisinformation,
			"confidence":        r.Confidence,
			"is_news":           r.IsNews,
			"summary":           r.Summary,
			"evidence":          decodeList(r.Evidence),
			"sources_checked":   decodeList(r.SourcesChecked),
			"recommendation":    r.Recommendation,
			"provider":          r.Provider,
			"model":             r.AIModel,
			"created_at":        r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"verdicts": out})
}

func toResponse(v verify.Verdict, messageType, ocrText, description string) MisinformationResponse {
	return MisinformationResponse{
		IsMisinformation: v.IsMisinformation,
		Confidence:       v.Confidence,
		IsNews:           v.IsNews,
		Summary:          v.Summary,
		Evidence:         v.Evidence,
		SourcesChecked:   v.SourcesChecked,
		Recommendation:   v.Recommendation,
		ExtractedText:    ocrText,
		ImageDescription: description,
		MessageType:      messageType,
	}
}

// isImageData checks the magic bytes for the formats the bots forward.
func isImageData(data []byte) bool {
	switch {
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0xff, 0xd8}): // JPEG
		return true
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}): // PNG
		return true
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("GIF8")): // GIF
		return true
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")): // WebP
		return true
	}
	return false
}

func decodeList(raw string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}
