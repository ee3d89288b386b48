package minify

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/docker/go-units"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures one Run.
type Options struct {
	// Task names the owning task. It prefixes span names and build info keys.
	Task string
	// Project is rendered as {{.Project}} in banners.
	Project string
	// Root is the absolute directory that job paths are relative to.
	Root string
	// Banner is prepended to every output. Nil selects DefaultBanner.
	Banner *Banner
	// NoCache runs every job even when its output is up to date.
	NoCache bool
	// Now supplies banner timestamps. Nil selects time.Now.
	Now func() time.Time
}

// Summary reports what a Run did.
type Summary struct {
	Minified      int
	Skipped       int
	OriginalBytes int64
	MinifiedBytes int64
}

// Runner executes a Plan strictly sequentially: each job runs to completion
// before the next starts and the first failure stops the run.
type Runner struct {
	minifier ports.Minifier
	hasher   ports.Hasher
	store    ports.BuildInfoStore
	tracer   ports.Tracer
}

// NewRunner creates a Runner.
func NewRunner(minifier ports.Minifier, hasher ports.Hasher, store ports.BuildInfoStore, tracer ports.Tracer) *Runner {
	return &Runner{
		minifier: minifier,
		hasher:   hasher,
		store:    store,
		tracer:   tracer,
	}
}

// Run executes every job in plan order. ctx is checked between jobs only.
func (r *Runner) Run(ctx context.Context, plan *Plan, opts Options) (Summary, error) {
	var summary Summary

	banner := opts.Banner
	if banner == nil {
		var err error
		if banner, err = ParseBanner(""); err != nil {
			return summary, err
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	for _, job := range plan.Jobs() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		target, _ := plan.Target(job.ID)
		result, skipped, err := r.runJob(ctx, job, target, banner, now, opts)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrMinifyJobFailed.Error()), "job", job.ID)
			err = zerr.With(err, "source", job.Source)
			return summary, zerr.With(err, "destination", job.Destination)
		}

		if skipped {
			summary.Skipped++
			continue
		}
		summary.Minified++
		summary.OriginalBytes += result.OriginalSize
		summary.MinifiedBytes += result.MinifiedSize
	}

	return summary, nil
}

func (r *Runner) runJob(
	ctx context.Context,
	job domain.MinifyJob,
	target domain.TargetRecord,
	banner *Banner,
	now func() time.Time,
	opts Options,
) (domain.MinifyResult, bool, error) {
	ctx, span := r.tracer.Start(ctx, opts.Task+":"+job.ID, ports.WithKind(string(domain.KindMinify)))
	defer span.End()

	key := domain.JobKey(opts.Task, job.ID)
	source := filepath.Join(opts.Root, filepath.FromSlash(job.Source))

	inputHash, err := r.inputHash(key, opts.Project, job, banner, source)
	if err != nil {
		span.RecordError(err)
		return domain.MinifyResult{}, false, err
	}

	if !opts.NoCache && r.upToDate(opts.Root, key, job, inputHash) {
		span.SetAttribute(ports.AttributeCached, true)
		return domain.MinifyResult{}, true, nil
	}

	text, err := banner.Render(NewBannerData(opts.Project, target, now()))
	if err != nil {
		span.RecordError(err)
		return domain.MinifyResult{}, false, err
	}

	absJob := domain.MinifyJob{
		ID:          job.ID,
		Source:      source,
		Destination: filepath.Join(opts.Root, filepath.FromSlash(job.Destination)),
	}
	result, err := r.minifier.Minify(ctx, absJob, text)
	if err != nil {
		span.RecordError(err)
		return domain.MinifyResult{}, false, err
	}

	_, _ = fmt.Fprintf(span, "%s created: %s → %s\n",
		job.Destination, units.HumanSize(float64(result.OriginalSize)), units.HumanSize(float64(result.MinifiedSize)))

	if err := r.record(opts.Root, key, job, inputHash, now()); err != nil {
		span.RecordError(err)
		return domain.MinifyResult{}, false, err
	}
	return result, false, nil
}

// inputHash covers the source content, the destination, the project name and
// the banner template. The rendered banner is not hashed because its timestamp
// changes on every run.
func (r *Runner) inputHash(key, project string, job domain.MinifyJob, banner *Banner, source string) (string, error) {
	settings := &domain.Task{
		Name:    domain.NewInternedString(key),
		Kind:    domain.KindMinify,
		Project: project,
		Sources: []string{job.Source},
		Dest:    job.Destination,
		Banner:  banner.Text(),
	}
	return r.hasher.ComputeInputHash(settings, nil, []string{source})
}

func (r *Runner) upToDate(root, key string, job domain.MinifyJob, inputHash string) bool {
	info, err := r.store.Get(root, key)
	if err != nil || info == nil || info.InputHash != inputHash {
		return false
	}
	outputHash, err := r.hasher.ComputeOutputHash([]string{job.Destination}, root)
	return err == nil && outputHash == info.OutputHash
}

func (r *Runner) record(root, key string, job domain.MinifyJob, inputHash string, at time.Time) error {
	outputHash, err := r.hasher.ComputeOutputHash([]string{job.Destination}, root)
	if err != nil {
		return err
	}
	return r.store.Put(root, domain.BuildInfo{
		Key:        key,
		InputHash:  inputHash,
		OutputHash: outputHash,
		Timestamp:  at,
	})
}
