// Package classifier adapts a vision language model into a pollution image
// classifier. The adapter is deliberately forgiving: every failure mode
// collapses to the unknown label so report submission never depends on model
// availability.
package classifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/aquaguardian/aquaguardian/pkg/formatting"
)

// Pollution labels the model is constrained to.
const (
	LabelPlastic       = "plastic"
	LabelOilSpill      = "oil_spill"
	LabelSewage        = "sewage"
	LabelAlgalBloom    = "algal_bloom"
	LabelChemicalWaste = "chemical_waste"
	LabelClean         = "clean"
	LabelInvalidImage  = "invalid_image"
	LabelUnknown       = "unknown"
)

// Result is a classification outcome. Confidence is in [0, 1].
type Result struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Unknown is the result used whenever classification cannot be performed.
func Unknown() Result {
	return Result{Label: LabelUnknown, Confidence: 0.0}
}

// System classifies report evidence images.
type System interface {
	// Classify labels the image, optionally steered by the reporter's
	// description. It never returns an error: any failure yields the
	// unknown result with zero confidence.
	Classify(ctx context.Context, image []byte, description string) Result
}

const prompt = `You are a water pollution analyst. Classify the attached photo
into exactly one of: plastic, oil_spill, sewage, algal_bloom, chemical_waste,
clean, invalid_image. Use invalid_image when the photo does not show a body of
water. Respond with a JSON object only: {"label": "...", "confidence": 0.0}`

type system struct {
	cfg    Config
	client *openai.Client
	logger *slog.Logger
}

// New creates a classifier System. With no API key configured the system
// stays inert and every Classify call returns unknown.
func New(cfg Config, logger *slog.Logger) System {
	s := &system{
		cfg:    cfg,
		logger: logger.With("system", "classifier"),
	}

	if cfg.APIKey != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		s.client = openai.NewClientWithConfig(cc)
	}

	return s
}

func (s *system) Classify(ctx context.Context, image []byte, description string) Result {
	if s.client == nil {
		s.logger.Warn("classification skipped", "reason", "no api key configured")
		return Unknown()
	}
	if len(image) == 0 {
		s.logger.Warn("classification skipped", "reason", "empty image")
		return Unknown()
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.TimeoutDuration())
	defer cancel()

	userPrompt := prompt
	if description != "" {
		userPrompt = fmt.Sprintf("%s\n\nReporter description: %s", prompt, description)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: userPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURI(image),
						},
					},
				},
			},
		},
		MaxTokens:   256,
		Temperature: 0.1,
	})
	if err != nil {
		s.logger.Warn("classification request failed", "error", err)
		return Unknown()
	}

	if len(resp.Choices) == 0 {
		s.logger.Warn("classification returned no choices")
		return Unknown()
	}

	result, err := formatting.Parse[Result](resp.Choices[0].Message.Content)
	if err != nil {
		s.logger.Warn("classification response unparseable", "error", err)
		return Unknown()
	}

	return normalize(result, s.logger)
}

// normalize constrains model output to the known label set and clamps
// confidence into [0, 1].
func normalize(r Result, logger *slog.Logger) Result {
	switch strings.ToLower(strings.TrimSpace(r.Label)) {
	case LabelPlastic:
		r.Label = LabelPlastic
	case LabelOilSpill:
		r.Label = LabelOilSpill
	case LabelSewage:
		r.Label = LabelSewage
	case LabelAlgalBloom:
		r.Label = LabelAlgalBloom
	case LabelChemicalWaste:
		r.Label = LabelChemicalWaste
	case LabelClean:
		r.Label = LabelClean
	case LabelInvalidImage:
		r.Label = LabelInvalidImage
	default:
		logger.Warn("classification returned unexpected label", "label", r.Label)
		return Unknown()
	}

	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}

	return r
}

func dataURI(image []byte) string {
	mime := http.DetectContentType(image)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))
}
