package visits

import (
	"log/slog"
	"time"

	"appointment-visit-audit/internal/dataset"
	"appointment-visit-audit/internal/model"
	"appointment-visit-audit/internal/normalize"
)

// Options configures one pipeline run.
type Options struct {
	Attributes []model.Attribute
	Selector   model.Selector
	Location   *time.Location
	Now        time.Time
	// Client selects the individual summary by full name. Empty skips it.
	Client string
}

// Result holds every derived table of a run.
type Result struct {
	Quality    *normalize.Quality
	References *normalize.ReferenceTable
	Joined     Joined
	Status     Status
	Filtered   Filtered
	Sequenced  Sequenced
	Summary    Summary
	Clients    []string
	Recency    *Recency
}

type Pipeline struct {
	opts       Options
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Pipeline {
	if len(opts.Attributes) == 0 {
		opts.Attributes = model.DefaultIdentity()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		opts:       opts,
		normalizer: normalize.New(opts.Location, logger),
		logger:     logger,
	}
}

// Run cleans both uploads and derives the analytics. A nil table means
// that upload is missing; every stage then reports StateMissing. Only a
// malformed upload (a required column absent) returns an error.
func (p *Pipeline) Run(appointments, references *dataset.Table) (*Result, error) {
	appts, err := p.normalizer.Appointments(appointments)
	if err != nil {
		return nil, err
	}
	refs, err := p.normalizer.References(references)
	if err != nil {
		return nil, err
	}

	result := &Result{References: refs}
	if appts != nil {
		result.Quality = &appts.Quality
	}

	result.Joined = Join(appts, refs)
	result.Status = Tally(result.Joined)
	result.Filtered = Filter(result.Joined, p.opts.Selector)
	result.Sequenced, err = Sequence(result.Filtered, p.opts.Attributes)
	if err != nil {
		return nil, err
	}
	result.Summary = Aggregate(result.Sequenced)
	result.Clients = ClientNames(result.Sequenced)

	if p.opts.Client != "" && result.Sequenced.State != StateMissing {
		rec := ComputeRecency(Individual(result.Sequenced, p.opts.Client), p.opts.Now.In(p.opts.Location))
		rec.FullName = p.opts.Client
		result.Recency = &rec
	}

	p.logger.Info("pipeline complete",
		"joined", len(result.Joined.Records),
		"unmatched_types", result.Joined.Unmatched,
		"selector", p.opts.Selector.String(),
		"kept", result.Status.Kept,
		"dropped", result.Status.Dropped,
		"needs_review", result.Status.NeedsReview,
		"sequenced", len(result.Sequenced.Rows),
		"individuals", result.Summary.KPIs.Individuals,
		"state", result.Sequenced.State.String(),
	)
	return result, nil
}
