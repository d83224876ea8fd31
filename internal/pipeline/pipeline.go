// Package pipeline orchestrates document parsing: segmentation, per
// fragment detection, extraction and AI gating, merge and renumbering,
// fallback reconstruction, template selection, and structural validation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/examtools/paperparse/internal/aivalidate"
	"github.com/examtools/paperparse/internal/detect"
	"github.com/examtools/paperparse/internal/examtpl"
	"github.com/examtools/paperparse/internal/extract"
	"github.com/examtools/paperparse/internal/jsonrepair"
	"github.com/examtools/paperparse/internal/llmcall"
	"github.com/examtools/paperparse/internal/metrics"
	"github.com/examtools/paperparse/internal/prompts"
	"github.com/examtools/paperparse/internal/prompts/fragment"
	"github.com/examtools/paperparse/internal/providers"
	"github.com/examtools/paperparse/internal/segment"
	"github.com/examtools/paperparse/internal/types"
	"github.com/examtools/paperparse/internal/validate"
)

var (
	// ErrNoFragments means the input produced nothing to process.
	ErrNoFragments = errors.New("no fragments produced from input text")
	// ErrAllFragmentsFailed means every fragment's model call failed.
	ErrAllFragmentsFailed = errors.New("all fragment model calls failed")
)

// Options configures a Pipeline.
type Options struct {
	Client providers.CompletionClient
	Logger *slog.Logger

	// FragmentBudget caps fragment size in characters. Zero means the
	// segmenter default.
	FragmentBudget int

	// TemplateThreshold is the minimum template-match score. Zero means
	// the matcher default.
	TemplateThreshold float64

	// OptimizeThreshold is the confidence below which extractions are sent
	// to the model for improvement. Zero means the gate default.
	OptimizeThreshold float64
}

// Pipeline parses one document at a time. The static rule tables it reads
// are shared; all per-document state lives in the run, so one Pipeline may
// serve concurrent documents.
type Pipeline struct {
	opts     Options
	logger   *slog.Logger
	detector *detect.Detector
}

// New creates a pipeline. opts.Client is required.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		opts:     opts,
		logger:   logger,
		detector: detect.New(),
	}
}

// run is the per-document accumulation state. Owned exclusively by one
// Parse call.
type run struct {
	docID     string
	recorder  *llmcall.Recorder
	validator *aivalidate.Validator

	counter   int
	questions []types.Question
	sections  []types.Section
	seenParts map[string]bool

	// Raw text per base part, for fallback reconstruction.
	partText map[string]string

	fragments  int
	modelFails int
}

// Parse runs the full pipeline over one document's raw text. A partial
// result with validation errors is still a result; Parse fails only when
// no fragment can be produced or every fragment's model call fails.
func (p *Pipeline) Parse(ctx context.Context, docID, text string) (*types.ParseResult, error) {
	cleaned := segment.RemoveDuplicateOptionBlocks(text)

	frags := segment.SegmentWithBudget(cleaned, p.opts.FragmentBudget)
	if len(frags) == 0 {
		return nil, fmt.Errorf("%w: document %s", ErrNoFragments, docID)
	}

	r := &run{
		docID:     docID,
		recorder:  llmcall.NewRecorder(),
		seenParts: map[string]bool{},
		partText:  map[string]string{},
	}
	r.validator = aivalidate.New(p.opts.Client, r.recorder, p.logger)
	r.validator.Threshold = p.opts.OptimizeThreshold

	for _, frag := range frags {
		r.fragments++
		base := basePartName(frag.PartName)
		r.partText[base] += frag.Text + "\n"
		p.processFragment(ctx, r, frag)
	}

	if r.modelFails == r.fragments {
		return nil, fmt.Errorf("%w: document %s, %d fragments", ErrAllFragmentsFailed, docID, r.fragments)
	}

	p.applyPartFilters(r)
	renumber(r.questions)

	tmpl := examtpl.Choose(cleaned, nil, p.opts.TemplateThreshold)
	outcome := validate.Validate(r.questions, tmpl)
	if tmpl == examtpl.SeniorGrouped {
		groups := validate.ParseListeningGroups(cleaned)
		outcome = validate.Merge(outcome, validate.ValidateListeningGroups(r.questions, groups))
	}

	usage := metrics.Summarize(r.recorder.Calls())
	usage.ByPrompt = metrics.ByPromptKey(r.recorder.Calls())
	result := &types.ParseResult{
		Questions:       r.questions,
		Sections:        r.sections,
		Template:        string(tmpl),
		StructureStatus: outcome.Status,
		StructureIssues: outcome.Issues,
		Usage:           usage,
	}

	p.logger.Info("document parsed",
		"document", docID,
		"fragments", r.fragments,
		"failed_fragments", r.modelFails,
		"questions", len(result.Questions),
		"template", result.Template,
		"structure_status", result.StructureStatus,
		"issues", len(result.StructureIssues))
	return result, nil
}

// processFragment runs DETECT, EXTRACT, AI_GATE, and the model extraction
// for one fragment, merging its questions into the run. A fragment failure
// never aborts the document.
func (p *Pipeline) processFragment(ctx context.Context, r *run, frag segment.Fragment) {
	detection := p.detector.Detect(frag.Text)
	extraction := extract.Extract(frag.Text, detection)
	gated := r.validator.ValidateAndOptimize(ctx, frag.Text, &extraction)

	resp, ok := p.modelExtract(ctx, r, frag, detection)
	if !ok {
		r.modelFails++
		return
	}

	p.recordSection(r, frag)

	if len(resp.Questions) == 0 && gated.Optimized.QuestionText != "" {
		// The model found nothing but structural extraction did; keep the
		// structural result rather than losing the fragment.
		p.mergeOne(r, frag, fragment.Question{
			QuestionText: gated.Optimized.QuestionText,
			QuestionType: string(gated.Optimized.QuestionType),
			Options:      gated.Optimized.Options,
			Answer:       gated.Optimized.Answer,
		}, detection)
		return
	}

	for _, q := range resp.Questions {
		p.mergeOne(r, frag, q, detection)
	}
}

// modelExtract sends one fragment to the completion model and parses the
// repaired reply.
func (p *Pipeline) modelExtract(ctx context.Context, r *run, frag segment.Fragment, detection detect.Result) (*fragment.Response, bool) {
	constraints := fragment.Constraints{
		QuestionType: string(detection.QuestionType),
		SubType:      detection.SubType,
	}
	if detection.QuestionType == types.TypeUnknown {
		constraints.QuestionType = ""
		constraints.SubType = ""
	}
	constraints.StartNumber, constraints.EndNumber = printedRange(frag.Text)

	req := &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: fragment.SystemPrompt},
			{Role: "user", Content: fragment.BuildUserPrompt(frag.PartName, frag.Text, constraints)},
		},
	}
	res, err := p.opts.Client.Complete(ctx, req)
	r.recorder.Record(res, llmcall.RecordOptions{
		DocumentID: r.docID,
		PartName:   frag.PartName,
		PromptKey:  "fragment",
		PromptCID:  prompts.HashText(fragment.SystemPrompt),
	})
	if err != nil {
		p.logger.Warn("fragment model call failed, skipping fragment",
			"document", r.docID, "part", frag.PartName, "error", err)
		return nil, false
	}

	resp, err := fragment.ParseResponse(jsonrepair.Repair(res.Content))
	if err != nil {
		p.logger.Warn("fragment reply unparseable after repair, skipping fragment",
			"document", r.docID, "part", frag.PartName, "error", err)
		return nil, false
	}
	return resp, true
}

// mergeOne stamps section metadata onto a wire question and appends it
// with the next sequence number. Model-suggested numbers are dropped.
func (p *Pipeline) mergeOne(r *run, frag segment.Fragment, q fragment.Question, detection detect.Result) {
	qt := types.ParseQuestionType(q.QuestionType)
	if qt == types.TypeUnknown && detection.QuestionType != types.TypeUnknown {
		qt = detection.QuestionType
	}

	r.counter++
	merged := types.Question{
		SequenceNumber:    r.counter,
		QuestionText:      strings.TrimSpace(q.QuestionText),
		QuestionType:      qt,
		Difficulty:        q.Difficulty,
		KnowledgePoint:    q.KnowledgePoint,
		Options:           q.Options,
		CorrectOptions:    q.CorrectOptions,
		Answer:            q.Answer,
		PartName:          frag.PartName,
		SectionHeading:    frag.Heading,
		SectionDirections: frag.Directions,
		PassageID:         q.PassageID,
		GroupID:           q.GroupID,
	}
	if merged.GroupID != "" {
		merged.GroupType = "listening"
	}
	r.questions = append(r.questions, merged)
}

// recordSection appends one section entry per base part, in document
// order.
func (p *Pipeline) recordSection(r *run, frag segment.Fragment) {
	base := basePartName(frag.PartName)
	if r.seenParts[base] {
		return
	}
	r.seenParts[base] = true
	r.sections = append(r.sections, types.Section{
		PartName:          base,
		SectionHeading:    frag.Heading,
		SectionDirections: frag.Directions,
	})
}

// partFilter is one per-part invariant the model sometimes violates.
type partFilter struct {
	part      string
	maxCount  int
	forceType types.QuestionType
	// dropOptions clears option lists (writing tasks have none).
	dropOptions bool
}

var partFilters = []partFilter{
	{part: "Writing_Summary", maxCount: 1, forceType: types.TypeWriting, dropOptions: true},
	{part: "Writing_Translation", maxCount: 3, forceType: types.TypeTranslation},
	{part: "Writing_Guided", maxCount: 1, forceType: types.TypeWriting, dropOptions: true},
}

// applyPartFilters enforces per-part caps and forced types, then
// synthesizes a guided-writing question from raw section text when the
// model produced none.
func (p *Pipeline) applyPartFilters(r *run) {
	for _, f := range partFilters {
		kept := 0
		out := r.questions[:0]
		for _, q := range r.questions {
			if basePartName(q.PartName) != f.part {
				out = append(out, q)
				continue
			}
			if kept >= f.maxCount {
				continue
			}
			kept++
			q.QuestionType = f.forceType
			if f.dropOptions {
				q.Options = nil
				q.CorrectOptions = nil
			}
			out = append(out, q)
		}
		r.questions = out
	}

	if !hasPart(r.questions, "Writing_Guided") {
		if raw, ok := r.partText["Writing_Guided"]; ok {
			if q, ok := synthesizeFromSection("Writing_Guided", raw); ok {
				r.questions = append(r.questions, q)
			}
		}
	}
}

// synthesizeFromSection builds a single question directly from a section's
// raw text: the heading line is skipped, the remainder joined.
func synthesizeFromSection(part, raw string) (types.Question, bool) {
	lines := strings.Split(raw, "\n")
	var body []string
	skippedHeading := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !skippedHeading {
			skippedHeading = true
			continue
		}
		body = append(body, trimmed)
	}
	text := strings.Join(body, " ")
	if text == "" {
		return types.Question{}, false
	}
	return types.Question{
		QuestionText: text,
		QuestionType: types.TypeWriting,
		PartName:     part,
	}, true
}

// renumber reassigns sequence numbers 1..N in list order.
func renumber(questions []types.Question) {
	for i := range questions {
		questions[i].SequenceNumber = i + 1
	}
}

func hasPart(questions []types.Question, part string) bool {
	for _, q := range questions {
		if basePartName(q.PartName) == part {
			return true
		}
	}
	return false
}

// basePartName strips the numeric split suffix (Reading_2 counts as
// Reading).
func basePartName(name string) string {
	if i := strings.LastIndex(name, "_"); i > 0 {
		if _, err := strconv.Atoi(name[i+1:]); err == nil {
			return name[:i]
		}
	}
	return name
}

var printedNumber = regexp.MustCompile(`(?m)^\s*(\d{1,3})\s*[.、．)]`)

// printedRange finds the first and last question numbers printed in a
// fragment, for constraining the model. Zero bounds mean unknown.
func printedRange(text string) (start, end int) {
	matches := printedNumber.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, 0
	}
	first, err1 := strconv.Atoi(matches[0][1])
	last, err2 := strconv.Atoi(matches[len(matches)-1][1])
	if err1 != nil || err2 != nil || last < first {
		return 0, 0
	}
	return first, last
}
