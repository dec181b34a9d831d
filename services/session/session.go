package session

import (
	"context"
	"fmt"

	"jdeprez/immoharvester/config"
	"jdeprez/immoharvester/internal/harvester"
	"jdeprez/immoharvester/logger"
	apperrors "jdeprez/immoharvester/pkg/errors"
	"jdeprez/immoharvester/services/checkpoint"
	"jdeprez/immoharvester/services/sink"
	"jdeprez/immoharvester/services/worker"
)

// Session owns the run configuration and composes extractors, dispatcher
// and sink into harvest passes. The original pipeline runs a sale pass and
// a rent pass into the same output, one after the other.
type Session struct {
	cfg        config.Config
	sink       sink.RecordSink
	checkpoint checkpoint.Store
	fetch      harvester.FetchFunc
}

// New creates a session. The checkpoint store may be nil (resume disabled);
// a nil fetch function uses the default HTTP fetch.
func New(cfg config.Config, out sink.RecordSink, store checkpoint.Store) *Session {
	return &Session{
		cfg:        cfg,
		sink:       out,
		checkpoint: store,
	}
}

// WithFetch overrides the fetch function, for tests
func (s *Session) WithFetch(fetch harvester.FetchFunc) *Session {
	s.fetch = fetch
	return s
}

// Run executes every configured harvest mode sequentially and returns the
// combined stats. The first failing pass ends the run.
func (s *Session) Run(ctx context.Context) (worker.Stats, error) {
	total := worker.Stats{}

	for _, mode := range s.cfg.HarvestModes {
		query, err := s.queryFor(mode)
		if err != nil {
			return total, err
		}

		log := logger.ForSession(mode)
		log.Info().
			Str("base_url", query.BaseURL).
			Int("concurrency", s.cfg.Concurrency).
			Msg("Starting harvest pass")

		d := worker.NewDispatcher(worker.Options{
			Links:             harvester.NewSearchPage(query, s.fetch),
			Payloads:          harvester.NewDetailExtractor(s.fetch),
			SaleType:          query.SaleType,
			Sink:              s.sink,
			Concurrency:       s.cfg.Concurrency,
			StartPage:         s.cfg.StartPage,
			MaxPages:          s.cfg.MaxPages,
			PageFailurePolicy: s.cfg.PageFailurePolicy,
			Checkpoint:        s.checkpoint,
			CheckpointKey:     "harvest:" + mode,
		})

		stats, err := d.Run(ctx)
		total.Add(stats)
		if err != nil {
			return total, err
		}

		log.Info().
			Int("pages", stats.Pages).
			Int("written", stats.Written).
			Int("failed", stats.Failed).
			Msg("Harvest pass complete")
	}

	return total, nil
}

// queryFor maps a configured mode name to its search query
func (s *Session) queryFor(mode string) (harvester.SearchQuery, error) {
	switch mode {
	case "sale":
		return harvester.SearchQuery{BaseURL: s.cfg.SaleSearchURL, SaleType: harvester.SaleTypeSale}, nil
	case "rent":
		return harvester.SearchQuery{BaseURL: s.cfg.RentSearchURL, SaleType: harvester.SaleTypeRent}, nil
	default:
		return harvester.SearchQuery{}, apperrors.NewConfiguration(fmt.Sprintf("unknown harvest mode %q", mode), nil)
	}
}
