// Package pipeline provides the high-level orchestration for the résumé personalization process.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/workready/internal/ingestion"
	"github.com/jonathan/workready/internal/llm"
	"github.com/jonathan/workready/internal/observability"
	"github.com/jonathan/workready/internal/parsing"
	"github.com/jonathan/workready/internal/prompts"
	"github.com/jonathan/workready/internal/rendering"
	"github.com/jonathan/workready/internal/types"
	"github.com/jonathan/workready/internal/validation"
)

// Step names reported through ProgressEvent
const (
	StepValidate = "validate"
	StepExtract  = "extract"
	StepFetchJob = "fetch_job"
	StepGenerate = "generate"
	StepParse    = "parse"
	StepRender   = "render"
	StepCheck    = "check"
)

// Progress categories
const (
	CategoryIngestion  = "ingestion"
	CategoryGeneration = "generation"
	CategoryOutput     = "output"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step      string `json:"step"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// JobFetcher retrieves a job description from a posting URL
type JobFetcher interface {
	Fetch(ctx context.Context, url string) (string, *ingestion.Metadata, error)
}

// DocumentRenderer lays out a parsed document as PDF
type DocumentRenderer interface {
	Render(doc *types.ParsedDocument) (*rendering.Result, error)
}

// DocumentChecker inspects the rendered PDF
type DocumentChecker interface {
	Check(ctx context.Context, doc *types.ParsedDocument, pdf []byte) (*types.Violations, error)
}

// Pipeline turns an uploaded résumé and a job description into a personalized PDF.
// A Pipeline holds no per-request state and may serve concurrent requests.
type Pipeline struct {
	Extractor ingestion.Extractor
	Fetcher   JobFetcher
	Model     llm.Client
	Renderer  DocumentRenderer
	// Checker is optional; violations are reported, never fatal
	Checker DocumentChecker
	Tier    llm.ModelTier

	// MaxUploadBytes bounds the résumé size; zero means DefaultMaxUploadBytes
	MaxUploadBytes int64
	OnProgress     ProgressCallback
	Verbose        bool
	Printer        *observability.Printer
	// Now is the clock used for fallback filenames
	Now func() time.Time
}

// New creates a pipeline with the default extractor, job fetcher and renderer
func New(model llm.Client) *Pipeline {
	return &Pipeline{
		Extractor: ingestion.NewPDFExtractor(),
		Fetcher:   ingestion.NewJobFetcher(),
		Model:     model,
		Renderer:  rendering.NewRenderer(rendering.DefaultOptions()),
		Checker:   validation.NewChecker(validation.DefaultOptions()),
		Tier:      llm.TierStandard,
	}
}

// Request is one personalization request
type Request struct {
	ID             string
	File           []byte
	FileName       string
	ContentType    string
	JobDescription string
	JobURL         string
	// OutputName overrides the filename derived from the candidate name
	OutputName string
}

// Result holds the generated PDF and the intermediate artifacts
type Result struct {
	PDF      []byte
	Filename string
	Pages    int
	Info     rendering.Info
	Document *types.ParsedDocument
	Reply    string

	ResumeMetadata *ingestion.Metadata
	JobMetadata    *ingestion.Metadata
	// Violations is nil when no checker ran
	Violations *types.Violations
}

// ingested holds the outputs of the parallel ingestion branches
type ingested struct {
	resumeText string
	resumeMeta *ingestion.Metadata
	jobText    string
	jobMeta    *ingestion.Metadata
}

// emitProgress calls the progress callback if configured
func (p *Pipeline) emitProgress(req *Request, step, category, message string, content any) {
	if p.OnProgress != nil {
		p.OnProgress(ProgressEvent{
			Step:      step,
			Category:  category,
			Message:   message,
			RequestID: req.ID,
			Content:   content,
		})
	}
}

func (p *Pipeline) logf(req *Request, format string, args ...any) {
	if !p.Verbose {
		return
	}
	prefix := "[VERBOSE] "
	if req.ID != "" {
		prefix = fmt.Sprintf("[VERBOSE] [%s] ", req.ID)
	}
	log.Printf(prefix+format, args...)
}

// Run executes the pipeline for one request. Input problems are reported as
// *InputError before extraction or the model are touched; extraction, model
// and render failures keep their own error types.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	upload := &types.UploadRequest{
		FileName:       req.FileName,
		ContentType:    req.ContentType,
		Size:           int64(len(req.File)),
		JobDescription: strings.TrimSpace(req.JobDescription),
		JobURL:         strings.TrimSpace(req.JobURL),
		OutputName:     req.OutputName,
	}
	if err := ValidateRequest(upload, req.File, p.MaxUploadBytes); err != nil {
		return nil, err
	}
	if upload.JobURL != "" && p.Fetcher == nil {
		return nil, &InputError{Field: "job_url", Message: "fetching job postings is not enabled"}
	}
	if p.Model == nil {
		return nil, fmt.Errorf("pipeline has no model client")
	}
	p.emitProgress(&req, StepValidate, CategoryIngestion, "Upload accepted", nil)

	p.logf(&req, "Step 1/4: Extracting résumé text and job description...")
	in, err := p.ingest(ctx, &req, upload)
	if err != nil {
		return nil, err
	}

	p.logf(&req, "Step 2/4: Generating personalized résumé...")
	reply, err := p.generate(ctx, &req, in)
	if err != nil {
		return nil, err
	}

	p.logf(&req, "Step 3/4: Parsing model reply...")
	doc := parsing.Parse(reply)
	if p.Printer != nil {
		p.Printer.PrintDocument(doc)
	}
	p.emitProgress(&req, StepParse, CategoryGeneration,
		fmt.Sprintf("Parsed %d experience entries and %d skills", len(doc.Experience), len(doc.Skills)), doc)

	p.logf(&req, "Step 4/4: Rendering PDF...")
	renderer := p.Renderer
	if renderer == nil {
		renderer = rendering.NewRenderer(rendering.DefaultOptions())
	}
	rendered, err := renderer.Render(doc)
	if err != nil {
		return nil, err
	}
	if p.Printer != nil {
		p.Printer.PrintInfo(rendered.Info, rendered.Pages)
	}

	name := upload.OutputName
	if strings.TrimSpace(name) == "" {
		name = doc.Name
	}
	filename := FilenameAt(name, p.now())
	p.emitProgress(&req, StepRender, CategoryOutput,
		fmt.Sprintf("Rendered %s (%d pages)", filename, rendered.Pages), nil)

	violations := p.check(ctx, &req, doc, rendered.PDF)

	return &Result{
		PDF:            rendered.PDF,
		Filename:       filename,
		Pages:          rendered.Pages,
		Info:           rendered.Info,
		Document:       doc,
		Reply:          reply,
		ResumeMetadata: in.resumeMeta,
		JobMetadata:    in.jobMeta,
		Violations:     violations,
	}, nil
}

// check runs the optional checker. A checker failure is logged and the
// document is still returned.
func (p *Pipeline) check(ctx context.Context, req *Request, doc *types.ParsedDocument, pdf []byte) *types.Violations {
	if p.Checker == nil {
		return nil
	}
	violations, err := p.Checker.Check(ctx, doc, pdf)
	if err != nil {
		log.Printf("[pipeline] [%s] check skipped: %v", req.ID, err)
		return nil
	}
	if violations == nil {
		violations = &types.Violations{}
	}
	if p.Printer != nil {
		p.Printer.PrintViolations(violations)
	}
	for _, v := range violations.Violations {
		log.Printf("[pipeline] [%s] %s %s: %s", req.ID, v.Severity, v.Type, v.Details)
	}
	message := fmt.Sprintf("%d issue(s) found", len(violations.Violations))
	if violations.HasErrors() {
		message += ", including errors"
		log.Printf("[pipeline] [%s] rendered document failed checks; returning it anyway", req.ID)
	}
	p.emitProgress(req, StepCheck, CategoryOutput, message, violations)
	return violations
}

// ingest extracts the résumé and fetches the job posting in parallel
func (p *Pipeline) ingest(ctx context.Context, req *Request, upload *types.UploadRequest) (*ingested, error) {
	var (
		in ingested
		mu sync.Mutex // Protect result assignments
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, meta, err := p.Extractor.Extract(gCtx, req.File)
		if err != nil {
			return err
		}
		if meta == nil {
			meta = ingestion.NewMetadata(text, upload.FileName)
		}
		meta.Source = upload.FileName
		mu.Lock()
		in.resumeText, in.resumeMeta = text, meta
		mu.Unlock()
		p.logf(req, "Extracted %d chars from %s", meta.Chars, upload.FileName)
		return nil
	})

	if upload.JobURL != "" {
		g.Go(func() error {
			text, meta, err := p.Fetcher.Fetch(gCtx, upload.JobURL)
			if err != nil {
				return err
			}
			if meta == nil {
				meta = ingestion.NewMetadata(text, upload.JobURL)
			}
			mu.Lock()
			in.jobText, in.jobMeta = text, meta
			mu.Unlock()
			p.logf(req, "Fetched %d chars from %s", meta.Chars, upload.JobURL)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.jobText = joinDescriptions(upload.JobDescription, in.jobText)
	if in.jobMeta == nil {
		in.jobMeta = ingestion.NewMetadata(in.jobText, "form")
	}

	if p.Printer != nil {
		p.Printer.PrintSource("RÉSUMÉ", in.resumeMeta)
		p.Printer.PrintSource("JOB DESCRIPTION", in.jobMeta)
	}
	p.emitProgress(req, StepExtract, CategoryIngestion,
		fmt.Sprintf("Extracted %d pages from %s", in.resumeMeta.Pages, upload.FileName), nil)
	if upload.JobURL != "" {
		p.emitProgress(req, StepFetchJob, CategoryIngestion,
			fmt.Sprintf("Fetched job posting from %s", upload.JobURL), nil)
	}
	return &in, nil
}

// joinDescriptions combines the pasted description with the fetched one
func joinDescriptions(pasted, fetched string) string {
	pasted, fetched = strings.TrimSpace(pasted), strings.TrimSpace(fetched)
	switch {
	case pasted == "":
		return fetched
	case fetched == "":
		return pasted
	default:
		return pasted + "\n\n" + fetched
	}
}

// generate calls the model exactly once
func (p *Pipeline) generate(ctx context.Context, req *Request, in *ingested) (string, error) {
	system, user, err := prompts.Resume(in.resumeText, in.jobText)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	tier := p.Tier
	if tier == "" {
		tier = llm.TierStandard
	}
	model := p.Model.GetModel(tier)

	start := time.Now()
	reply, err := p.Model.GenerateContent(ctx, system, user, tier)
	if err != nil {
		return "", asModelError(model, err)
	}
	reply = llm.CleanReply(reply)
	if reply == "" {
		return "", &llm.ModelError{Model: model, Message: "empty reply"}
	}
	p.logf(req, "Model %s replied with %d chars in %s", model, len(reply), time.Since(start).Round(time.Millisecond))
	p.logf(req, "Reply: %s", llm.Preview(reply, replyPreviewRunes))

	if p.Printer != nil {
		p.Printer.PrintReply(reply)
	}
	p.emitProgress(req, StepGenerate, CategoryGeneration, "Model reply received", nil)
	return reply, nil
}

const replyPreviewRunes = 120

// asModelError keeps model failures distinguishable from other errors
func asModelError(model string, err error) error {
	var me *llm.ModelError
	if errors.As(err, &me) {
		return err
	}
	return &llm.ModelError{Model: model, Message: "generation failed", Cause: err}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
