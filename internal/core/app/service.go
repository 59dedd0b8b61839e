// Package app drives the compiler pipeline: file discovery, per-unit
// lex/parse, whole-unit inspection, generation, and output writing. The
// pipeline itself is pure; all I/O lives here.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"loom/internal/core/config"
	"loom/internal/data/history"
	"loom/internal/engine/decoder"
	"loom/internal/engine/generator"
	"loom/internal/engine/inspector"
	"loom/internal/engine/lexer"
	"loom/internal/engine/parser"
	"loom/internal/shared/observability"
)

// Service owns the pipeline collaborators for one project.
type Service struct {
	cfg     *config.Config
	decoder decoder.Decoder
	gen     *generator.Generator
	history *history.Store
}

// UnitResult is the outcome for one source file.
type UnitResult struct {
	Path        string
	ContentHash string
	Err         error
	Duration    time.Duration
}

// RunSummary aggregates one generation run.
type RunSummary struct {
	RunID     string
	Units     []UnitResult
	Generated []generator.GeneratedFile
	Err       error
}

// Failed reports whether any stage rejected the run.
func (s RunSummary) Failed() bool { return s.Err != nil }

func NewService(cfg *config.Config) (*Service, error) {
	dec, err := decoder.NewSwiftDecoder()
	if err != nil {
		return nil, fmt.Errorf("initialize structural decoder: %w", err)
	}

	bundle, err := generator.LoadBundle(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}

	service := &Service{
		cfg:     cfg,
		decoder: dec,
		gen:     generator.New(bundle),
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		service.history = store
	}

	return service, nil
}

// NewServiceWithDecoder is used by tests to substitute the structural
// decoder.
func NewServiceWithDecoder(cfg *config.Config, dec decoder.Decoder) (*Service, error) {
	bundle, err := generator.LoadBundle(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, decoder: dec, gen: generator.New(bundle)}, nil
}

func (s *Service) Close() error {
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// History exposes the run store, nil when disabled.
func (s *Service) History() *history.Store { return s.history }

// Run executes one full generation pass over the configured scan paths.
func (s *Service) Run(ctx context.Context) RunSummary {
	ctx, span := observability.Tracer.Start(ctx, "loom.pipeline")
	defer span.End()

	summary := RunSummary{RunID: uuid.NewString()}

	files, err := ScanDirectories(s.cfg.ScanPaths, s.cfg.Exclude.Dirs, s.cfg.Exclude.Files)
	if err != nil {
		summary.Err = err
		return summary
	}
	span.SetAttributes(attribute.Int("loom.units", len(files)))

	// Lex + parse each unit; the first error aborts the run.
	var asts []*parser.File
	for _, path := range files {
		start := time.Now()
		ast, hash, err := s.processUnit(ctx, path)
		result := UnitResult{
			Path:        path,
			ContentHash: hash,
			Err:         err,
			Duration:    time.Since(start),
		}
		summary.Units = append(summary.Units, result)

		if err != nil {
			observability.UnitsProcessedTotal.WithLabelValues("error").Inc()
			summary.Err = err
			s.recordRun(summary)
			return summary
		}
		observability.UnitsProcessedTotal.WithLabelValues("ok").Inc()
		asts = append(asts, ast)
	}

	// The dependency graph spans the whole unit set.
	inspectStart := time.Now()
	_, inspectSpan := observability.Tracer.Start(ctx, "loom.inspect")
	report := inspector.Inspect(asts)
	inspectSpan.End()
	observability.PipelineDuration.WithLabelValues("inspect").Observe(time.Since(inspectStart).Seconds())

	if !report.OK() {
		summary.Err = report.Err
		s.recordRun(summary)
		return summary
	}
	observability.GraphNodes.Set(float64(len(report.Graph.Registrations())))

	generateStart := time.Now()
	_, generateSpan := observability.Tracer.Start(ctx, "loom.generate")
	outputs, err := s.gen.Generate(asts)
	generateSpan.End()
	observability.PipelineDuration.WithLabelValues("generate").Observe(time.Since(generateStart).Seconds())

	if err != nil {
		summary.Err = err
		s.recordRun(summary)
		return summary
	}

	if err := WriteOutputs(s.cfg.OutputDir, outputs); err != nil {
		summary.Err = err
		s.recordRun(summary)
		return summary
	}
	observability.GeneratedFilesTotal.Add(float64(len(outputs)))

	summary.Generated = outputs
	s.recordRun(summary)
	return summary
}

// processUnit runs decode, lex and parse for one file.
func (s *Service) processUnit(ctx context.Context, path string) (*parser.File, string, error) {
	_, span := observability.Tracer.Start(ctx, "loom.lex", trace.WithAttributes(attribute.String("loom.unit", path)))
	defer span.End()

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	digest := sha256.Sum256(source)
	hash := hex.EncodeToString(digest[:8])

	decodeStart := time.Now()
	declarations, err := s.decoder.Decode(path, source)
	observability.DecodeDuration.Observe(time.Since(decodeStart).Seconds())
	if err != nil {
		return nil, hash, err
	}

	lexStart := time.Now()
	tokens, err := lexer.New(path, source).Tokenize(declarations)
	observability.PipelineDuration.WithLabelValues("lex").Observe(time.Since(lexStart).Seconds())
	if err != nil {
		return nil, hash, err
	}
	observability.TokensEmittedTotal.Add(float64(len(tokens)))

	parseStart := time.Now()
	ast, err := parser.New(path, tokens).Parse()
	observability.PipelineDuration.WithLabelValues("parse").Observe(time.Since(parseStart).Seconds())
	if err != nil {
		return nil, hash, err
	}

	return ast, hash, nil
}

// recordRun persists per-unit outcomes when history is enabled.
func (s *Service) recordRun(summary RunSummary) {
	if s.history == nil {
		return
	}

	for _, unit := range summary.Units {
		run := history.Run{
			RunID:       summary.RunID,
			UnitPath:    unit.Path,
			ContentHash: unit.ContentHash,
			Status:      history.StatusOK,
			Duration:    unit.Duration,
		}
		if unit.Err != nil {
			run.Status = history.StatusError
			run.Error = unit.Err.Error()
		} else if summary.Err != nil && len(summary.Generated) == 0 {
			// Units that lexed clean but belong to a rejected graph keep
			// the run-level error for context.
			run.Error = summary.Err.Error()
		}
		run.GeneratedCount = len(summary.Generated)

		if err := s.history.SaveRun(run); err != nil {
			slog.Warn("failed to record run", "unit", unit.Path, "error", err)
		}
	}
}
