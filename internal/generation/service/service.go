package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"letwise/internal/document"
	"letwise/internal/facts"
	"letwise/internal/generation/metrics"
	orderModels "letwise/internal/orders/models"
	"letwise/internal/referencedata"
	"letwise/internal/rules"
	dErrors "letwise/pkg/domain-errors"
	"letwise/pkg/platform/sentinel"
	"letwise/pkg/requestcontext"
)

// AuthorityLookup resolves postcodes to local authorities.
type AuthorityLookup interface {
	LookupAuthority(postcode string) (referencedata.JurisdictionArea, bool)
}

// RuleSets finds the rule set for a jurisdiction and topic.
type RuleSets interface {
	Lookup(j referencedata.Jurisdiction, t facts.Topic) (rules.RuleSet, error)
}

// Renderer turns a classification into content blocks.
type Renderer interface {
	Render(in document.RenderInput) ([]document.Block, error)
}

// Assembler lays out and encodes blocks.
type Assembler interface {
	Assemble(ctx context.Context, blocks []document.Block, meta document.Meta) (*document.RenderedDocument, error)
}

// Counter issues filename sequence numbers per document kind.
type Counter interface {
	Next(ctx context.Context, kind string) (int64, error)
}

// OrderLookup resolves a checkout session to the tri-state order result.
type OrderLookup interface {
	Lookup(ctx context.Context, sessionID string) (orderModels.Lookup, error)
}

// Format selects the encoder.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatPreview Format = "png"
)

const generationFailedMessage = "We could not generate your document. Please try again."

// Service runs the pipeline: facts, rules, blocks, pages, bytes.
type Service struct {
	authorities AuthorityLookup
	ruleSets    RuleSets
	renderer    Renderer
	assemblers  map[Format]Assembler
	counter     Counter
	orders      OrderLookup
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAssembler registers the assembler for a format.
func WithAssembler(format Format, a Assembler) Option {
	return func(s *Service) {
		s.assemblers[format] = a
	}
}

// WithCounter numbers filenames; without it the generation time is used.
func WithCounter(c Counter) Option {
	return func(s *Service) {
		s.counter = c
	}
}

// WithOrders enables paid mode for sessions with a paid order.
func WithOrders(o OrderLookup) Option {
	return func(s *Service) {
		s.orders = o
	}
}

func New(authorities AuthorityLookup, ruleSets RuleSets, renderer Renderer, opts ...Option) (*Service, error) {
	if authorities == nil {
		return nil, errors.New("authority lookup is required")
	}
	if ruleSets == nil {
		return nil, errors.New("rule sets are required")
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	s := &Service{
		authorities: authorities,
		ruleSets:    ruleSets,
		renderer:    renderer,
		assemblers:  make(map[Format]Assembler),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:      otel.Tracer("letwise/generation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Authority is the outcome of a postcode lookup. A miss is Found=false.
type Authority struct {
	Postcode string
	AreaCode string
	Found    bool
	Area     referencedata.JurisdictionArea
}

// LookupAuthority resolves a postcode. It never fails.
func (s *Service) LookupAuthority(_ context.Context, postcode string) Authority {
	area, found := s.authorities.LookupAuthority(postcode)
	return Authority{
		Postcode: postcode,
		AreaCode: referencedata.AreaCode(postcode),
		Found:    found,
		Area:     area,
	}
}

// Evaluation is a classified form. When Complete is false only Issues and
// Draft are meaningful.
type Evaluation struct {
	Complete  bool
	Issues    []facts.Issue
	Draft     facts.TenancyFacts
	Facts     facts.TenancyFacts
	RuleSet   rules.RuleSet
	Result    rules.ClassificationResult
	Area      referencedata.JurisdictionArea
	AreaFound bool
}

// Evaluate collects and classifies a form. Incomplete input is returned as
// issues, not as an error; errors mean the topic or jurisdiction has no rule
// set.
func (s *Service) Evaluate(ctx context.Context, topic facts.Topic, values map[string]string) (*Evaluation, error) {
	if !facts.SupportedTopic(topic) {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("unknown topic %q", topic))
	}

	ctx, span := s.tracer.Start(ctx, "generation.evaluate", trace.WithAttributes(attribute.String("topic", string(topic))))
	defer span.End()

	form := facts.Collect(topic, values)
	eval := &Evaluation{Issues: form.Issues, Draft: form.Draft()}
	if !facts.IsComplete(form) {
		span.SetAttributes(attribute.Int("issues", len(form.Issues)))
		return eval, nil
	}
	f, err := form.Facts()
	if err != nil {
		return nil, err
	}

	if f.Postcode != "" {
		eval.Area, eval.AreaFound = s.authorities.LookupAuthority(f.Postcode)
	}
	f = f.WithJurisdiction(resolveJurisdiction(f, eval.Area, eval.AreaFound))

	rs, err := s.ruleSets.Lookup(f.Jurisdiction, topic)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound,
				fmt.Sprintf("no %s rules are available for %s", topic, f.Jurisdiction))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rule set")
	}

	eval.Complete = true
	eval.Facts = f
	eval.RuleSet = rs
	eval.Result = rules.Evaluate(f, rs)

	span.SetAttributes(
		attribute.String("rule_set", rs.ID),
		attribute.String("tier", string(eval.Result.Tier)),
	)
	s.metrics.IncrementClassification(rs.ID, string(eval.Result.Tier))
	s.logger.InfoContext(ctx, "facts classified",
		"request_id", requestcontext.RequestID(ctx),
		"rule_set", rs.ID,
		"version", rs.Version,
		"tier", eval.Result.Tier,
		"reason", eval.Result.Reason,
		"deciding_rule", eval.Result.DecidingRule,
	)
	return eval, nil
}

// resolveJurisdiction prefers an explicit choice, then the authority's
// jurisdiction, then England.
func resolveJurisdiction(f facts.TenancyFacts, area referencedata.JurisdictionArea, found bool) referencedata.Jurisdiction {
	if f.Jurisdiction != "" {
		return f.Jurisdiction
	}
	if found && area.Authority.Jurisdiction != "" {
		return area.Authority.Jurisdiction
	}
	return referencedata.JurisdictionEngland
}

// GenerateRequest asks for one document.
type GenerateRequest struct {
	Topic     facts.Topic
	Values    map[string]string
	SessionID string
	Format    Format
}

// Generated is either a document or, for incomplete input, the evaluation
// with its issues and no document.
type Generated struct {
	Evaluation *Evaluation
	Mode       document.Mode
	Document   *document.RenderedDocument
}

// Generate runs the whole pipeline. It runs to completion once started: the
// caller's cancellation is not propagated, and there are no retries. Any
// stage failure aborts with a single generation_failed error and no bytes.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Generated, error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	assembler, ok := s.assemblers[req.Format]
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unsupported format %q", req.Format))
	}

	eval, err := s.Evaluate(ctx, req.Topic, req.Values)
	if err != nil {
		return nil, err
	}
	if !eval.Complete {
		return &Generated{Evaluation: eval}, nil
	}

	ctx, span := s.tracer.Start(ctx, "generation.generate", trace.WithAttributes(
		attribute.String("rule_set", eval.RuleSet.ID),
		attribute.String("format", string(req.Format)),
	))
	defer span.End()

	requestID := requestcontext.RequestID(ctx)
	mode := s.resolveMode(ctx, req.SessionID)
	now := requestcontext.Now(ctx).UTC()

	blocks, err := s.renderer.Render(document.RenderInput{
		Facts:       eval.Facts,
		Result:      eval.Result,
		RuleSet:     eval.RuleSet,
		Area:        eval.Area,
		AreaFound:   eval.AreaFound,
		Mode:        mode,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, s.fail(ctx, span, "render", err)
	}

	meta := document.Meta{
		Title:        eval.RuleSet.Title,
		DocumentKind: eval.RuleSet.DocumentKind,
		Mode:         mode,
		GeneratedAt:  now,
		Serial:       s.serial(ctx, eval.RuleSet.DocumentKind),
	}
	doc, err := assembler.Assemble(ctx, blocks, meta)
	if err != nil {
		return nil, s.fail(ctx, span, "assemble", err)
	}

	s.metrics.ObserveDocument(meta.DocumentKind, string(mode), string(req.Format), doc.Pages, time.Since(start))
	s.logger.InfoContext(ctx, "document generated",
		"request_id", requestID,
		"filename", doc.Filename,
		"pages", doc.Pages,
		"bytes", len(doc.Bytes),
		"mode", mode,
	)
	return &Generated{Evaluation: eval, Mode: mode, Document: doc}, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, stage string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, stage+" failed")
	s.metrics.IncrementFailure(stage)
	s.logger.ErrorContext(ctx, "document generation failed",
		"request_id", requestcontext.RequestID(ctx),
		"stage", stage,
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeGenerationFailed, generationFailedMessage)
}

// resolveMode is paid only for a session whose order is paid. A failed order
// lookup degrades to preview so the user still gets a document.
func (s *Service) resolveMode(ctx context.Context, sessionID string) document.Mode {
	if s.orders == nil || sessionID == "" {
		return document.ModePreview
	}
	lookup, err := s.orders.Lookup(ctx, sessionID)
	if err != nil {
		s.logger.WarnContext(ctx, "order lookup failed, generating preview",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return document.ModePreview
	}
	if lookup.Paid() {
		return document.ModePaid
	}
	return document.ModePreview
}

// serial is the counter value, or empty to fall back to the timestamp.
func (s *Service) serial(ctx context.Context, kind string) string {
	if s.counter == nil {
		return ""
	}
	n, err := s.counter.Next(ctx, kind)
	if err != nil {
		s.logger.WarnContext(ctx, "document counter unavailable, using timestamp",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return ""
	}
	return strconv.FormatInt(n, 10)
}
