package dashboard

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/flightdiversions/dashboard/models"
)

// State is the binder's position in its recompute cycle
type State int32

const (
	StateIdle State = iota
	StateComputing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComputing:
		return "computing"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Options tunes the payloads produced by a Binder
type Options struct {
	TopAirports     int     // airports kept in the ranking, default 15
	MarkerScale     float64 // marker size = count / MarkerScale, default 10
	DefaultAirlines int     // airlines pre-selected in the initial state, default 3
}

func (o Options) withDefaults() Options {
	if o.TopAirports <= 0 {
		o.TopAirports = DefaultTopAirports
	}
	if o.MarkerScale <= 0 {
		o.MarkerScale = 10
	}
	if o.DefaultAirlines <= 0 {
		o.DefaultAirlines = 3
	}
	return o
}

// Subscriber is called after every successful Update with the new state
// and payload. It runs synchronously inside Update and must not call back
// into the Binder.
type Subscriber func(models.FilterState, *models.DashboardPayload)

// Binder owns the session's FilterState and recomputes every view when it
// changes. The dataset is read-only; mu only guards the session fields.
type Binder struct {
	dataset *Dataset
	opts    Options
	now     func() time.Time

	state atomic.Int32

	mu          sync.Mutex
	filter      models.FilterState
	payload     *models.DashboardPayload
	subscribers []Subscriber
}

// NewBinder creates a binder in the default state (first airlines in
// sorted order over the full date range) and computes its first payload.
func NewBinder(dataset *Dataset, opts Options) (*Binder, error) {
	b := &Binder{
		dataset: dataset,
		opts:    opts.withDefaults(),
		now:     func() time.Time { return time.Now().UTC() },
	}

	initial := dataset.DefaultFilter(b.opts.DefaultAirlines)
	payload, err := b.Compute(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to compute initial dashboard: %w", err)
	}
	b.filter = payload.Filter
	b.payload = payload
	return b, nil
}

// Subscribe registers fn to be notified after each Update
func (b *Binder) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// State reports whether a recompute is in progress
func (b *Binder) State() State {
	return State(b.state.Load())
}

// Current returns the session's filter state and the payload computed for it
func (b *Binder) Current() (models.FilterState, *models.DashboardPayload) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter, b.payload
}

// Options returns the filter control options for the loaded dataset
func (b *Binder) Options() models.FilterOptions {
	return b.dataset.Options(b.opts.DefaultAirlines)
}

// Status returns the dataset summary for health checks
func (b *Binder) Status(source string) models.DatasetStatus {
	return b.dataset.Status(source)
}

// Update replaces the session filter, recomputes all views and notifies
// subscribers. An invalid state leaves the session untouched.
func (b *Binder) Update(fs models.FilterState) (*models.DashboardPayload, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.Store(int32(StateComputing))
	payload, err := b.Compute(fs)
	b.state.Store(int32(StateIdle))
	if err != nil {
		return nil, err
	}

	b.filter = payload.Filter
	b.payload = payload
	for _, fn := range b.subscribers {
		fn(b.filter, payload)
	}
	return payload, nil
}

// Compute derives a payload for fs without touching the session state
func (b *Binder) Compute(fs models.FilterState) (*models.DashboardPayload, error) {
	fs, err := normalize(fs)
	if err != nil {
		return nil, err
	}

	subset := ApplyFilter(b.dataset.Records(), fs)
	ranking := TopAirports(subset, b.dataset.Lookup(), b.opts.TopAirports)

	return &models.DashboardPayload{
		SnapshotID: uuid.New(),
		Filter:     fs,
		Summary:    Summarize(subset),
		Map:        BuildMap(ranking, len(subset), b.opts.MarkerScale),
		Airlines:   BuildAirlineChart(AirlineCounts(subset), len(subset)),
		ComputedAt: b.now(),
	}, nil
}

// Records returns the filtered subset for fs, used by exports
func (b *Binder) Records(fs models.FilterState) ([]models.FlightDiversionRecord, error) {
	fs, err := normalize(fs)
	if err != nil {
		return nil, err
	}
	return ApplyFilter(b.dataset.Records(), fs), nil
}

func normalize(fs models.FilterState) (models.FilterState, error) {
	if err := fs.Validate(); err != nil {
		return models.FilterState{}, err
	}
	return models.FilterState{
		Airlines: models.NormalizeAirlines(fs.Airlines),
		Start:    models.DateOnly(fs.Start),
		End:      models.DateOnly(fs.End),
	}, nil
}
