package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/classdash/classdash/internal/domain/model"
	apperrors "github.com/classdash/classdash/internal/errors"
	"github.com/classdash/classdash/internal/ports"
)

// State is the controller's load-lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// ErrAlreadyLoading is returned by Load when a fetch is already in flight.
var ErrAlreadyLoading = errors.New("load already in progress")

// ErrStaleLoad is returned by Load when its result was discarded because the
// viewer identity changed while the fetch was in flight.
var ErrStaleLoad = errors.New("load superseded by identity change")

const defaultRequestTimeout = 15 * time.Second

// ControllerOptions groups dependencies for Controller.
type ControllerOptions struct {
	Source ports.PayloadSource
	// RequestTimeout bounds each payload fetch. Zero uses the default.
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Controller owns the dashboard load lifecycle: Idle → Loading → Ready|Failed,
// with re-entry into Loading on identity change or explicit refresh. The view
// model is replaced atomically; readers never observe a partially built value.
//
// A generation counter guards against in-flight races: a fetch started before
// the latest identity change or sign-out is discarded on arrival instead of
// overwriting the newer state.
type Controller struct {
	source  ports.PayloadSource
	timeout time.Duration
	logger  *slog.Logger

	mu         sync.Mutex
	state      State
	vm         *ViewModel
	lastErr    error
	viewer     *ViewerIdentity
	generation uint64
	// handledCodes tracks consumed one-time auth codes so a page refresh
	// cannot re-trigger the exchange.
	handledCodes map[string]bool
}

// NewController constructs a Controller in the Idle state.
func NewController(opts ControllerOptions) *Controller {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		source:       opts.Source,
		timeout:      timeout,
		logger:       logger,
		state:        StateIdle,
		handledCodes: make(map[string]bool),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ViewModel returns the current view model when the controller is Ready.
func (c *Controller) ViewModel() (*ViewModel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady || c.vm == nil {
		return nil, false
	}
	return c.vm, true
}

// Err returns the error from the most recent failed load, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetViewer installs an authenticated identity and invalidates any in-flight
// load. The next Load fetches the pre-resolved per-viewer payload.
func (c *Controller) SetViewer(viewer ViewerIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := viewer
	c.viewer = &v
	c.generation++
	c.state = StateIdle
	c.vm = nil
	c.lastErr = nil
}

// SignOut discards the viewer and view model and resets to Idle. Any in-flight
// load result is discarded on arrival.
func (c *Controller) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewer = nil
	c.generation++
	c.state = StateIdle
	c.vm = nil
	c.lastErr = nil
}

// Load fetches the payload and builds the view model: exactly one network call
// per invocation, no retry. Returns ErrAlreadyLoading when a fetch is in
// flight, and ErrStaleLoad when the result was discarded because the identity
// changed mid-flight.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateLoading {
		c.mu.Unlock()
		return ErrAlreadyLoading
	}
	c.state = StateLoading
	c.lastErr = nil
	gen := c.generation
	viewer := c.viewer
	c.mu.Unlock()

	vm, err := c.fetchAndBuild(ctx, viewer)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// Identity changed while the fetch was in flight; the newer state wins.
		c.logger.Debug("discarding stale load result", "generation", gen, "current", c.generation)
		return ErrStaleLoad
	}
	if err != nil {
		c.state = StateFailed
		c.lastErr = err
		return err
	}
	c.state = StateReady
	c.vm = vm
	return nil
}

// HandleAuthCode completes the code-exchange login variant: it posts the
// one-time code, installs the resulting viewer, and publishes the view model.
// A code that was already consumed is ignored so a page refresh does not
// re-trigger the exchange.
func (c *Controller) HandleAuthCode(ctx context.Context, code string) error {
	if code == "" {
		return apperrors.AuthExchange("authorization code is required")
	}

	c.mu.Lock()
	if c.handledCodes[code] {
		c.mu.Unlock()
		return nil
	}
	c.handledCodes[code] = true
	c.state = StateLoading
	c.lastErr = nil
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := c.source.ExchangeCode(fetchCtx, code)
	if err == nil {
		var buildErr error
		var vm *ViewModel
		if vm, buildErr = BuildFromDashboard(payload); buildErr == nil {
			c.mu.Lock()
			defer c.mu.Unlock()
			if gen != c.generation {
				return ErrStaleLoad
			}
			v := vm.Viewer
			c.viewer = &v
			c.state = StateReady
			c.vm = vm
			return nil
		}
		err = buildErr
	}

	exchangeErr := apperrors.Wrap(err, apperrors.ErrCodeAuthExchange, "code exchange failed")
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return ErrStaleLoad
	}
	c.state = StateFailed
	c.lastErr = exchangeErr
	return exchangeErr
}

// Search filters the current rows by term. Returns false when no view model is
// published (controller not Ready).
func (c *Controller) Search(term string) ([]ClassRow, bool) {
	c.mu.Lock()
	vm := c.vm
	ready := c.state == StateReady
	c.mu.Unlock()
	if !ready || vm == nil {
		return nil, false
	}
	return vm.Search(term), true
}

// RosterFor returns the student roster for classID from the current view
// model, or false when no view model is published. See ViewModel.RosterFor for
// the teacher-viewer precondition.
func (c *Controller) RosterFor(classID string) ([]model.User, bool) {
	c.mu.Lock()
	vm := c.vm
	ready := c.state == StateReady
	c.mu.Unlock()
	if !ready || vm == nil {
		return nil, false
	}
	return vm.RosterFor(classID), true
}

func (c *Controller) fetchAndBuild(ctx context.Context, viewer *ViewerIdentity) (*ViewModel, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if viewer != nil && viewer.Token != "" {
		payload, err := c.source.FetchDashboard(fetchCtx, viewer.Token)
		if err != nil {
			return nil, err
		}
		return BuildFromDashboard(payload)
	}

	payload, err := c.source.FetchSnapshot(fetchCtx)
	if err != nil {
		return nil, err
	}
	return Build(payload, viewer)
}
