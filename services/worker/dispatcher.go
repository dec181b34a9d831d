package worker

import (
	"context"
	stderrors "errors"
	"strconv"
	"sync"
	"time"

	"jdeprez/immoharvester/config"
	"jdeprez/immoharvester/internal/harvester"
	"jdeprez/immoharvester/logger"
	apperrors "jdeprez/immoharvester/pkg/errors"
	"jdeprez/immoharvester/services/checkpoint"
	"jdeprez/immoharvester/services/sink"
)

// checkpointTTL bounds how long a resume marker outlives an interrupted run
const checkpointTTL = 24 * time.Hour

// Stats summarizes one dispatcher run
type Stats struct {
	Pages   int
	Written int
	Failed  int
}

// Add accumulates another run's stats
func (s *Stats) Add(other Stats) {
	s.Pages += other.Pages
	s.Written += other.Written
	s.Failed += other.Failed
}

// Options configures a Dispatcher
type Options struct {
	Links    harvester.LinkExtractor
	Payloads harvester.PayloadExtractor
	SaleType harvester.SaleType
	Sink     sink.RecordSink

	Concurrency       int
	StartPage         int
	MaxPages          int
	PageFailurePolicy string

	// Optional resume support
	Checkpoint    checkpoint.Store
	CheckpointKey string
}

// Dispatcher drives pagination and fans per-listing work out over a bounded
// worker set. Page fetches are strictly sequential: page n+1 is never
// fetched before every task of page n has finished, which bounds memory and
// keeps all of page n's records ahead of page n+1's in the output.
type Dispatcher struct {
	opts Options
	log  *logger.Logger
}

// NewDispatcher creates a dispatcher for one search query
func NewDispatcher(opts Options) *Dispatcher {
	return &Dispatcher{
		opts: opts,
		log:  logger.ForDispatcher(),
	}
}

// Run walks search pages starting at StartPage until a page yields no links
// (or MaxPages is reached), processing each page's listings in parallel up
// to Concurrency. Listing failures are counted and skipped; sink failures
// abort the run after the current batch drains.
func (d *Dispatcher) Run(ctx context.Context) (Stats, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, d.opts.Concurrency)
	stats := Stats{}

	startPage := d.opts.StartPage
	if resumed, ok := d.resumePage(); ok && resumed >= startPage {
		startPage = resumed + 1
		d.log.Info().
			Str("sale_type", string(d.opts.SaleType)).
			Int("page", startPage).
			Msg("Resuming from checkpoint")
	}

	for page := startPage; ; page++ {
		if d.opts.MaxPages > 0 && page-startPage >= d.opts.MaxPages {
			break
		}
		if err := runCtx.Err(); err != nil {
			return stats, err
		}

		links, err := d.opts.Links.Links(runCtx, page)
		if err != nil {
			if d.opts.PageFailurePolicy == config.PageFailureFail {
				return stats, err
			}
			d.log.Warn().
				Err(err).
				Int("page", page).
				Msg("Page fetch failed, treating as end of pagination")
			break
		}
		stats.Pages++

		if len(links) == 0 {
			d.log.Info().
				Str("sale_type", string(d.opts.SaleType)).
				Int("page", page).
				Msg("Empty page, pagination complete")
			break
		}

		d.log.Debug().
			Int("page", page).
			Int("links", len(links)).
			Msg("Dispatching page batch")

		results := make(chan error, len(links))
		var wg sync.WaitGroup
		for _, link := range links {
			// Stop submitting once the run is cancelled; in-flight
			// tasks drain rather than being killed
			if runCtx.Err() != nil {
				break
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(link string) {
				defer wg.Done()
				defer func() { <-sem }()

				err := d.process(runCtx, link)
				if err != nil && isFatal(err) {
					cancel()
				}
				results <- err
			}(link)
		}
		wg.Wait()
		close(results)

		var fatalErr error
		for err := range results {
			if err == nil {
				stats.Written++
				continue
			}
			stats.Failed++
			if isFatal(err) {
				if fatalErr == nil {
					fatalErr = err
				}
				continue
			}
			d.log.Warn().Err(err).Msg("Listing skipped")
		}
		if fatalErr != nil {
			return stats, fatalErr
		}

		d.markPage(page)
	}

	d.clearCheckpoint()
	return stats, nil
}

// process runs one listing through fetch, normalize and append. Its error
// is the task's terminal state; it never touches sibling tasks.
func (d *Dispatcher) process(ctx context.Context, url string) error {
	payload, err := d.opts.Payloads.Payload(ctx, url)
	if err != nil {
		return err
	}

	record, err := harvester.Normalize(payload, d.opts.SaleType)
	if err != nil {
		return err
	}

	return d.opts.Sink.Append(record)
}

func isFatal(err error) bool {
	var herr *apperrors.HarvestError
	return stderrors.As(err, &herr) && herr.IsFatal()
}

// resumePage reads the last fully drained page from the checkpoint store
func (d *Dispatcher) resumePage() (int, bool) {
	if d.opts.Checkpoint == nil || d.opts.CheckpointKey == "" {
		return 0, false
	}
	value, err := d.opts.Checkpoint.Get(d.opts.CheckpointKey)
	if err != nil {
		return 0, false
	}
	page, err := strconv.Atoi(string(value))
	if err != nil || page <= 0 {
		return 0, false
	}
	return page, true
}

// markPage records that every task of the given page reached a terminal
// state. Checkpoint failures never fail the run.
func (d *Dispatcher) markPage(page int) {
	if d.opts.Checkpoint == nil || d.opts.CheckpointKey == "" {
		return
	}
	value := []byte(strconv.Itoa(page))
	if err := d.opts.Checkpoint.Set(d.opts.CheckpointKey, value, checkpointTTL); err != nil {
		d.log.Warn().Err(err).Int("page", page).Msg("Failed to store checkpoint")
	}
}

func (d *Dispatcher) clearCheckpoint() {
	if d.opts.Checkpoint == nil || d.opts.CheckpointKey == "" {
		return
	}
	if err := d.opts.Checkpoint.Delete(d.opts.CheckpointKey); err != nil {
		d.log.Debug().Err(err).Msg("Failed to clear checkpoint")
	}
}
