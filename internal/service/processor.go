package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/topherjaynes/Screenshot-Holmes/internal/config"
	"github.com/topherjaynes/Screenshot-Holmes/internal/model"
	"github.com/topherjaynes/Screenshot-Holmes/internal/pngmeta"
)

// nameRegistry is the single piece of state shared across workers: the set of
// filenames already present in the directory plus those assigned earlier in
// this batch.
type nameRegistry struct {
	mu   sync.Mutex
	used map[string]struct{}
}

func newNameRegistry(existing map[string]struct{}) *nameRegistry {
	used := make(map[string]struct{}, len(existing))
	for n := range existing {
		used[n] = struct{}{}
	}
	return &nameRegistry{used: used}
}

// Reserve returns the first free name for label+ext, appending _1, _2, …
// until no collision remains. A file may always keep its own pre-rename name
// (self), so a no-op rename never picks up a suffix.
func (r *nameRegistry) Reserve(label, ext, self string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cand := label + ext
	for n := 1; ; n++ {
		if cand == self {
			break
		}
		if _, taken := r.used[cand]; !taken {
			break
		}
		cand = fmt.Sprintf("%s_%d%s", label, n, ext)
	}
	r.used[cand] = struct{}{}
	return cand
}

// ImageProcessor orchestrates the batch: select candidates, analyze each,
// embed the description as PNG metadata, rename with collision handling, and
// report a per-file outcome. It is the only component that mutates the
// filesystem.
type ImageProcessor struct {
	analyzer Analyzer
	cfg      *config.Config
	backoff  time.Duration
}

func NewImageProcessor(analyzer Analyzer, cfg *config.Config) *ImageProcessor {
	return &ImageProcessor{
		analyzer: analyzer,
		cfg:      cfg,
		backoff:  2 * time.Second,
	}
}

// Run processes every candidate in dir. The returned error is fatal for the
// batch (e.g. the directory does not exist); per-file failures are recorded
// in the report instead.
func (p *ImageProcessor) Run(ctx context.Context, dir string) (*model.Report, error) {
	report := &model.Report{
		Path:      dir,
		StartedAt: time.Now().UTC(),
	}

	candidates, err := CollectCandidates(dir, p.cfg.FileMarker, p.cfg.ExtensionFilter)
	if err != nil {
		return nil, err
	}
	existing, err := ExistingNames(dir)
	if err != nil {
		return nil, err
	}
	names := newNameRegistry(existing)

	bar := progressbar.NewOptions(len(candidates),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Organizing screenshots..."))

	// Each candidate owns a slot, so workers never contend on the slice.
	outcomes := make([]model.Outcome, len(candidates))

	g := new(errgroup.Group)
	g.SetLimit(p.cfg.Concurrent)
	for i, c := range candidates {
		g.Go(func() error {
			outcomes[i] = p.processOne(ctx, dir, c, names)
			bar.Add(1)
			return nil
		})
	}
	// Workers never return errors; per-file failures land in their outcome.
	_ = g.Wait()

	report.Outcomes = outcomes
	report.FinishedAt = time.Now().UTC()
	report.Finalize()
	return report, nil
}

func (p *ImageProcessor) processOne(ctx context.Context, dir string, c Candidate, names *nameRegistry) model.Outcome {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		log.Printf("skipping %s: %v", c.Name, err)
		return model.Outcome{File: c.Name, Status: model.StatusSkipped, Reason: model.ReasonUnreadable, Detail: err.Error()}
	}

	analysis, err := p.analyzeWithRetry(ctx, data, c.Name)
	if err != nil {
		if errors.Is(err, ErrServiceRejected) || errors.Is(err, ErrEmptyResponse) {
			// Still rename, just without a descriptive label.
			log.Printf("using fallback label for %s: %v", c.Name, err)
			analysis = model.Analysis{Label: p.cfg.FallbackLabel}
		} else {
			log.Printf("skipping %s: %v", c.Name, err)
			return model.Outcome{File: c.Name, Status: model.StatusSkipped, Reason: model.ReasonServiceUnavailable, Detail: err.Error()}
		}
	}

	target := names.Reserve(analysis.Label, filepath.Ext(c.Name), c.Name)

	metaWritten := false
	if analysis.Description != "" {
		if err := pngmeta.Embed(c.Path, pngmeta.DescriptionKeyword, analysis.Description); err != nil {
			// The file is left unrenamed and unmodified.
			log.Printf("skipping %s: %v", c.Name, err)
			return model.Outcome{File: c.Name, Status: model.StatusSkipped, Reason: model.ReasonMetadataWriteFailed, Detail: err.Error()}
		}
		metaWritten = true
	}

	if target != c.Name {
		if err := os.Rename(c.Path, filepath.Join(dir, target)); err != nil {
			log.Printf("rename failed for %s: %v", c.Name, err)
			status := model.StatusSkipped
			if metaWritten {
				// Metadata stays in place; no rollback.
				status = model.StatusPartial
			}
			return model.Outcome{File: c.Name, NewName: target, Status: status, Reason: model.ReasonRenameFailed, Detail: err.Error()}
		}
	}

	return model.Outcome{File: c.Name, NewName: target, Status: model.StatusRenamed}
}

// analyzeWithRetry applies the bounded retry policy: only ServiceUnavailable
// is retried, with linear backoff between attempts.
func (p *ImageProcessor) analyzeWithRetry(ctx context.Context, data []byte, name string) (model.Analysis, error) {
	var lastErr error
	for attempt := 0; attempt <= p.cfg.Retries; attempt++ {
		if attempt > 0 {
			log.Printf("retrying %s (attempt %d/%d)", name, attempt, p.cfg.Retries)
			time.Sleep(p.backoff * time.Duration(attempt))
		}
		analysis, err := p.analyzer.Analyze(ctx, data, name)
		if err == nil {
			return analysis, nil
		}
		lastErr = err
		if !errors.Is(err, ErrServiceUnavailable) {
			return model.Analysis{}, err
		}
	}
	return model.Analysis{}, lastErr
}
