package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-widget/internal/weather"
)

const (
	DefaultInterval     = 10 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
)

var (
	ErrStarted       = errors.New("widget: controller already started")
	ErrClosed        = errors.New("widget: controller closed")
	ErrNoCoordinates = errors.New("widget: no coordinates known yet")
)

// Scheduler runs task every interval until the returned cancel func is called.
type Scheduler interface {
	Schedule(interval time.Duration, task func()) (cancel func(), err error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the refresh interval. Defaults to DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithFetchTimeout bounds each locate and fetch call. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.fetchTimeout = d }
}

// WithDefaultCoordinates sets the fallback used when the position cannot be acquired.
func WithDefaultCoordinates(coords weather.Coordinates) Option {
	return func(c *Controller) { c.defaultCoords = coords }
}

// WithNoticeSink receives the notices emitted on location fallback.
func WithNoticeSink(sink NoticeSink) Option {
	return func(c *Controller) { c.sink = sink }
}

// Controller acquires a position, fetches the weather for it and keeps it fresh on a
// fixed schedule. All state changes go through transition and are published to
// subscribers as immutable copies.
type Controller struct {
	logger    *zap.Logger
	locator   weather.Locator
	fetcher   weather.Fetcher
	scheduler Scheduler
	sink      NoticeSink

	interval      time.Duration
	fetchTimeout  time.Duration
	defaultCoords weather.Coordinates
	now           func() time.Time

	mu         sync.Mutex
	state      State
	subs       map[int]func(State)
	nextSubID  int
	started    bool
	closed     bool
	cancelTick func()
	ctx        context.Context
	cancel     context.CancelFunc

	wg         sync.WaitGroup
	loaded     chan struct{}
	loadedOnce sync.Once
	closeOnce  sync.Once
}

// New creates a controller in the initializing phase. Nothing happens until Start.
func New(locator weather.Locator, fetcher weather.Fetcher, scheduler Scheduler, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		logger:        logger.Named("widget"),
		locator:       locator,
		fetcher:       fetcher,
		scheduler:     scheduler,
		interval:      DefaultInterval,
		fetchTimeout:  DefaultFetchTimeout,
		defaultCoords: weather.DefaultCoordinates,
		now:           time.Now,
		state:         State{Phase: PhaseInitializing, Loading: true},
		subs:          make(map[int]func(State)),
		loaded:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start registers the recurring refresh and begins acquiring the position in the
// background. The controller is torn down when ctx ends or Close is called.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return ErrStarted
	}

	cancelTick, err := c.scheduler.Schedule(c.interval, c.tick)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("schedule refresh: %w", err)
	}

	c.started = true
	c.cancelTick = cancelTick
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	base := c.ctx
	c.mu.Unlock()

	context.AfterFunc(base, c.Close)

	c.logger.Info("controller started", zap.Duration("interval", c.interval))

	go func() {
		defer c.wg.Done()
		c.initialize(base)
	}()
	return nil
}

func (c *Controller) initialize(ctx context.Context) {
	locateCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	coords, err := c.locator.Locate(locateCtx)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return
		}

		kind := NoticeLocationDenied
		if errors.Is(err, weather.ErrLocationUnavailable) {
			kind = NoticeLocationUnavailable
		}
		c.logger.Warn("position unavailable, using default location",
			zap.String("notice", string(kind)),
			zap.Float64("lat", c.defaultCoords.Latitude),
			zap.Float64("lon", c.defaultCoords.Longitude),
			zap.Error(err),
		)
		coords = c.defaultCoords
		c.emit(kind)
	}

	if !c.transition(func(s *State) { s.Coordinates = &coords }) {
		return
	}

	if err := c.refresh(ctx, coords); err != nil && !errors.Is(err, ErrClosed) {
		c.logger.Warn("initial weather fetch failed", zap.Error(err))
	}
}

func (c *Controller) tick() {
	c.mu.Lock()
	if c.closed || c.state.Coordinates == nil {
		c.mu.Unlock()
		c.logger.Debug("skipping scheduled refresh")
		return
	}
	coords := *c.state.Coordinates
	ctx := c.ctx
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	if err := c.refresh(ctx, coords); err != nil && !errors.Is(err, ErrClosed) {
		c.logger.Warn("scheduled weather fetch failed", zap.Error(err))
	}
}

// Refresh fetches the weather for the last known coordinates right away.
// Overlapping refreshes are allowed; the last one to finish wins.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Coordinates == nil {
		c.mu.Unlock()
		return ErrNoCoordinates
	}
	coords := *c.state.Coordinates
	base := c.ctx
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(base, cancel)
	defer stop()

	return c.refresh(ctx, coords)
}

func (c *Controller) refresh(ctx context.Context, coords weather.Coordinates) error {
	if !c.transition(func(s *State) { s.Phase = PhaseLoading }) {
		return ErrClosed
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	snap, err := c.fetcher.FetchWeather(fetchCtx, coords)

	applied := c.transition(func(s *State) {
		s.Loading = false
		if err != nil {
			s.Phase = PhaseFailed
			s.ErrorMessage = err.Error()
			s.Snapshot = nil
			return
		}
		s.Phase = PhaseReady
		s.ErrorMessage = ""
		s.Snapshot = &snap
	})
	if !applied {
		return ErrClosed
	}
	c.loadedOnce.Do(func() { close(c.loaded) })

	if err == nil {
		c.logger.Debug("weather refreshed",
			zap.String("city", snap.City),
			zap.Int("temperature_c", snap.TemperatureCelsius),
			zap.String("icon", string(snap.Icon)),
		)
	}
	return err
}

// transition applies mutate under the lock and notifies subscribers outside it.
// It reports false once the controller is closed.
func (c *Controller) transition(mutate func(s *State)) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	mutate(&c.state)
	snapshot := c.state.clone()
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return true
}

func (c *Controller) emit(kind NoticeKind) {
	n := Notice{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: noticeMessages[kind],
		Time:    c.now().UTC(),
	}
	c.logger.Info("notice", zap.String("kind", string(n.Kind)), zap.String("message", n.Message))
	if c.sink != nil {
		c.sink.Save(n)
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to be called after every state transition.
// fn must not call Close.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return func() {}
	}

	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Loaded is closed once the first fetch has resolved, successfully or not.
func (c *Controller) Loaded() <-chan struct{} {
	return c.loaded
}

// Close cancels the recurring refresh and any in-flight work, then waits for it to
// finish. No state change or subscriber call happens after Close returns.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		cancelTick := c.cancelTick
		cancel := c.cancel
		c.subs = nil
		c.mu.Unlock()

		if cancelTick != nil {
			cancelTick()
		}
		if cancel != nil {
			cancel()
		}
		c.wg.Wait()

		c.logger.Info("controller closed")
	})
}
