// Package minify turns expanded source mappings into an ordered plan of
// per-file minification jobs and runs that plan one job at a time.
package minify

import (
	"path"
	"slices"

	"go.trai.ch/mint/internal/core/domain"
)

// Plan is the job registry of one build invocation. It maps identifiers to
// target records and keeps jobs in registration order.
type Plan struct {
	targets map[string]domain.TargetRecord
	jobs    []domain.MinifyJob
	index   map[string]int
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{
		targets: make(map[string]domain.TargetRecord),
		index:   make(map[string]int),
	}
}

// Register records target under job.ID and queues job. An identifier that is
// already registered keeps its queue position and has its record and job replaced.
func (p *Plan) Register(job domain.MinifyJob, target domain.TargetRecord) {
	p.targets[job.ID] = target
	if i, ok := p.index[job.ID]; ok {
		p.jobs[i] = job
		return
	}
	p.index[job.ID] = len(p.jobs)
	p.jobs = append(p.jobs, job)
}

// Jobs returns the queued jobs in execution order.
func (p *Plan) Jobs() []domain.MinifyJob {
	return slices.Clone(p.jobs)
}

// Target returns the record registered under id.
func (p *Plan) Target(id string) (domain.TargetRecord, bool) {
	t, ok := p.targets[id]
	return t, ok
}

// Len returns the number of queued jobs.
func (p *Plan) Len() int {
	return len(p.jobs)
}

// Generate registers one job per mapping, in mapping order.
//
// Every mapping is validated first: if any source is not a ".js" file the
// plan is left untouched and ErrMalformedPath is returned.
func Generate(plan *Plan, mappings []domain.FileMapping) error {
	parsed := make([]domain.SourcePath, len(mappings))
	for i, m := range mappings {
		sp, err := domain.ParseSourcePath(m.Source)
		if err != nil {
			return err
		}
		parsed[i] = sp
	}

	for i, m := range mappings {
		sp := parsed[i]
		id := sp.Identifier()

		plan.Register(
			domain.MinifyJob{
				ID:          id,
				Source:      sp.String(),
				Destination: destination(m.DestRoot, sp),
			},
			domain.TargetRecord{
				Path:     sp.String(),
				Filename: sp.Filename(),
			},
		)
	}
	return nil
}

func destination(destRoot string, sp domain.SourcePath) string {
	if destRoot == "" {
		return sp.Minified()
	}
	return path.Join(destRoot, sp.Minified())
}
