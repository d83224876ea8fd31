// Package aivalidate gates low-confidence extractions through the
// completion model. Structural completeness is checked first; only when
// the combined confidence falls below the threshold is the model asked to
// improve the extraction, and its answer is adopted only when it claims a
// strictly higher confidence.
package aivalidate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/examtools/paperparse/internal/extract"
	"github.com/examtools/paperparse/internal/jsonrepair"
	"github.com/examtools/paperparse/internal/llmcall"
	"github.com/examtools/paperparse/internal/prompts"
	"github.com/examtools/paperparse/internal/prompts/optimize"
	"github.com/examtools/paperparse/internal/providers"
	"github.com/examtools/paperparse/internal/types"
)

// OptimizeThreshold is the final confidence below which the model is
// consulted.
const OptimizeThreshold = 0.7

// Completeness penalty weights.
const (
	perIssuePenalty       = 0.15
	missingTextPenalty    = 0.3
	missingOptionsPenalty = 0.3
	missingAnswerPenalty  = 0.2
)

// Result is the outcome of validating (and possibly optimizing) one
// extraction. Optimized is never nil: it is the improved extraction when
// the model call helped, otherwise the unchanged input.
type Result struct {
	Issues               []string        `json:"issues,omitempty"`
	ValidationConfidence float64         `json:"validation_confidence"`
	FinalConfidence      float64         `json:"final_confidence"`
	Optimized            *extract.Result `json:"optimized"`
	Improved             bool            `json:"improved"`

	// Suggestion carries an advisory note when optimization was attempted
	// but could not be used. Never an error.
	Suggestion string `json:"suggestion,omitempty"`
}

// Validator gates extractions through the completion model.
type Validator struct {
	client   providers.CompletionClient
	recorder *llmcall.Recorder
	logger   *slog.Logger

	// Threshold below which optimization runs. Zero means
	// OptimizeThreshold.
	Threshold float64
}

// New creates a validator. recorder may be nil.
func New(client providers.CompletionClient, recorder *llmcall.Recorder, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{client: client, recorder: recorder, logger: logger}
}

// Check computes the validation and final confidence for an extraction
// without calling the model.
func Check(extraction *extract.Result) (issues []string, validationConf, finalConf float64) {
	penalty := 0.0
	if strings.TrimSpace(extraction.QuestionText) == "" {
		issues = append(issues, "missing question text")
		penalty += missingTextPenalty
	}
	if extraction.QuestionType.IsChoiceLike() && len(extraction.Options) < 2 {
		issues = append(issues, fmt.Sprintf("%s question has %d options", extraction.QuestionType, len(extraction.Options)))
		penalty += missingOptionsPenalty
	}
	if strings.TrimSpace(extraction.Answer) == "" {
		issues = append(issues, "missing answer")
		penalty += missingAnswerPenalty
	}

	validationConf = 1.0 - perIssuePenalty*float64(len(issues)) - penalty
	if validationConf < 0 {
		validationConf = 0
	}
	finalConf = (extraction.Confidence + validationConf) / 2
	return issues, validationConf, finalConf
}

// ValidateAndOptimize checks an extraction and, when its final confidence
// is below the threshold, asks the model for an improved one. Model
// failures degrade to an advisory suggestion; the original extraction is
// always usable.
func (v *Validator) ValidateAndOptimize(ctx context.Context, fragmentText string, extraction *extract.Result) *Result {
	issues, validationConf, finalConf := Check(extraction)
	res := &Result{
		Issues:               issues,
		ValidationConfidence: validationConf,
		FinalConfidence:      finalConf,
		Optimized:            extraction,
	}

	threshold := v.Threshold
	if threshold == 0 {
		threshold = OptimizeThreshold
	}
	if finalConf >= threshold || v.client == nil {
		return res
	}

	improved, err := v.optimize(ctx, fragmentText, extraction, finalConf)
	if err != nil {
		v.logger.Warn("optimization unusable, keeping original extraction",
			"type", extraction.QuestionType,
			"confidence", finalConf,
			"error", err)
		res.Suggestion = fmt.Sprintf("optimization failed: %v", err)
		return res
	}
	if improved == nil {
		// The model answered but did not claim a higher confidence.
		res.Suggestion = "optimization did not improve confidence"
		return res
	}

	res.Optimized = improved
	res.FinalConfidence = improved.Confidence
	res.Improved = true
	return res
}

// optimize runs one model call and returns the improved extraction, or nil
// when the reply's confidence does not beat the current one.
func (v *Validator) optimize(ctx context.Context, fragmentText string, extraction *extract.Result, currentConf float64) (*extract.Result, error) {
	req := &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: optimize.SystemPrompt},
			{Role: "user", Content: optimize.BuildUserPrompt(fragmentText, optimize.Current{
				QuestionType: string(extraction.QuestionType),
				SubType:      extraction.SubType,
				QuestionText: extraction.QuestionText,
				Options:      extraction.Options,
				Answer:       extraction.Answer,
				Confidence:   extraction.Confidence,
			})},
		},
	}

	chatRes, err := v.client.Complete(ctx, req)
	if v.recorder != nil {
		v.recorder.Record(chatRes, llmcall.RecordOptions{
			PromptKey: "optimize",
			PromptCID: prompts.HashText(optimize.SystemPrompt),
		})
	}
	if err != nil {
		return nil, err
	}

	resp, err := optimize.ParseResponse(jsonrepair.Normalize(chatRes.Content))
	if err != nil {
		return nil, fmt.Errorf("parse optimization reply: %w", err)
	}
	if resp.Confidence <= currentConf {
		return nil, nil
	}

	improved := &extract.Result{
		QuestionType: types.ParseQuestionType(resp.QuestionType),
		SubType:      extraction.SubType,
		QuestionText: resp.QuestionText,
		Options:      resp.Options,
		Answer:       resp.Answer,
		Metadata:     extraction.Metadata,
		Confidence:   resp.Confidence,
		Rule:         extraction.Rule,
	}
	if improved.QuestionType == types.TypeUnknown && resp.QuestionType == "" {
		improved.QuestionType = extraction.QuestionType
	}
	return improved, nil
}
