package availability

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/hrygo/slotsense/internal/profile"
	"github.com/hrygo/slotsense/server/feed"
	apperr "github.com/hrygo/slotsense/server/internal/errors"
	"github.com/hrygo/slotsense/server/internal/observability"
	"github.com/hrygo/slotsense/server/slotengine"
	"github.com/hrygo/slotsense/server/timezone"
)

// maxConcurrentFetches caps the number of upstream calendar downloads in
// flight at once.
const maxConcurrentFetches = 8

// Request carries the per-request pipeline parameters. Zero Limit and
// DaysLimit fall back to the profile defaults; an empty Timezone defers to
// the feed hint and then the service default.
type Request struct {
	FeedURL   string
	Timezone  string
	Limit     int
	DaysLimit int
}

// Service runs the availability pipeline: one feed fetch, one engine
// invocation and one bucketing pass per request. It holds no per-request
// state, so concurrent requests never observe each other's timezone or
// intervals.
type Service struct {
	profile  *profile.Profile
	fetcher  *feed.Fetcher
	logger   *slog.Logger
	metrics  *observability.Metrics
	fetchSem *semaphore.Weighted

	// now is replaceable in tests.
	now func() time.Time
}

// NewService creates the availability service.
func NewService(p *profile.Profile, fetcher *feed.Fetcher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		profile:  p,
		fetcher:  fetcher,
		logger:   logger,
		metrics:  metrics,
		fetchSem: semaphore.NewWeighted(maxConcurrentFetches),
		now:      time.Now,
	}
}

// AvailableSlots resolves the request's calendar feed into hourly booking
// blocks. The resolved timezone lives only in this call; nothing about the
// request leaks into service state.
func (s *Service) AvailableSlots(ctx context.Context, req Request) ([]HourlyBlock, error) {
	rc := observability.NewRequestContext(s.logger, req.FeedURL)

	if req.FeedURL == "" {
		return nil, s.fail(rc, apperr.MissingFeedAddress())
	}
	// An invalid requested timezone is a hard error before any fetch happens.
	if req.Timezone != "" && !timezone.IsValid(req.Timezone) {
		return nil, s.fail(rc, apperr.InvalidTimezone(req.Timezone, nil))
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.profile.DefaultSlotLimit
	}
	daysLimit := req.DaysLimit
	if daysLimit <= 0 {
		daysLimit = s.profile.DefaultDaysLimit
	}

	document, err := s.fetchFeed(ctx, req.FeedURL)
	if err != nil {
		return nil, s.fail(rc, apperr.UnreachableFeed(err))
	}
	cal, err := feed.Parse(document)
	if err != nil {
		return nil, s.fail(rc, apperr.UnreachableFeed(err))
	}

	loc, err := timezone.Resolve(req.Timezone, feed.TimezoneHint(cal), timezone.MustParse(s.profile.Timezone))
	if err != nil {
		return nil, s.fail(rc, apperr.InvalidTimezone(req.Timezone, err))
	}

	windows, err := ExpandTemplate(s.profile)
	if err != nil {
		return nil, s.fail(rc, apperr.InvalidEngineConfiguration(err))
	}
	engine, err := slotengine.New(slotengine.Config{
		SlotDuration:     s.profile.SlotDurationValue(),
		MinLeadTime:      s.profile.SlotIntervalValue(),
		MaxDays:          daysLimit,
		AvailablePeriods: windows,
		Location:         loc,
	})
	if err != nil {
		return nil, s.fail(rc, apperr.InvalidEngineConfiguration(err))
	}

	now := s.now().In(loc)
	from := now
	to := from.AddDate(0, 0, daysLimit)

	busy := busyIntervals(feed.BusyPeriods(cal, loc, from, to))
	free := engine.FreeIntervals(busy, from, to, now)

	bucketer := Bucketer{
		RangeStart:   s.profile.ShiftRangeStart,
		RangeEnd:     s.profile.ShiftRangeEnd,
		StepHours:    s.profile.ShiftRangeStep,
		BufferBefore: time.Duration(s.profile.SlotBufferBefore) * time.Minute,
		BufferAfter:  time.Duration(s.profile.SlotBufferAfter) * time.Minute,
		Location:     loc,
	}
	blocks := bucketer.Bucket(free, limit, limit)

	s.metrics.RecordRequest(rc.Duration())
	rc.Info("availability computed",
		slog.String(observability.LogFieldTimezone, loc.String()),
		slog.Int(observability.LogFieldBlockCount, len(blocks)),
		slog.Int(observability.LogFieldDaysLimit, daysLimit),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
	)
	return blocks, nil
}

// fetchFeed downloads the calendar document, bounded by the fetch semaphore.
func (s *Service) fetchFeed(ctx context.Context, url string) (string, error) {
	if err := s.fetchSem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.fetchSem.Release(1)

	s.metrics.RecordFeedFetch()
	return s.fetcher.Fetch(ctx, url)
}

// fail records the failure and logs it with its pipeline code.
func (s *Service) fail(rc *observability.RequestContext, err error) error {
	s.metrics.RecordFailure()
	rc.Error("availability request failed", err,
		slog.String(observability.LogFieldErrorCode, string(apperr.CodeOf(err, apperr.ErrCodeInternal))),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
	)
	return err
}

func busyIntervals(periods []feed.BusyPeriod) []slotengine.Interval {
	intervals := make([]slotengine.Interval, 0, len(periods))
	for _, p := range periods {
		intervals = append(intervals, slotengine.Interval{Start: p.Start, End: p.End})
	}
	return intervals
}
