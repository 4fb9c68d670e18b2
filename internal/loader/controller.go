package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-news-feed/internal/domain"
	"github.com/samvad-hq/samvad-news-feed/internal/logger"
)

// State is the controller lifecycle.
type State int

const (
	StateCreated State = iota
	StateStarted
	StateDelivered
	StateReset
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarted:
		return "started"
	case StateDelivered:
		return "delivered"
	case StateReset:
		return "reset"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Repository is the blocking fetch+parse step run in the background.
type Repository interface {
	FetchArticles(ctx context.Context, url string) domain.Result
}

// Dispatcher hands work to the UI-owning goroutine.
type Dispatcher interface {
	Post(fn func()) bool
}

// Callbacks receive lifecycle events on the dispatcher goroutine.
type Callbacks interface {
	OnDelivered(res domain.Result)
	OnReset()
}

// Controller runs at most one background load at a time and delivers each
// result to Callbacks exactly once, unless it was reset or destroyed first.
type Controller struct {
	repo      Repository
	url       string
	ui        Dispatcher
	callbacks Callbacks
	log       logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State
	gen     uint64
	running bool // a worker goroutine owns the fetch
}

// New builds a controller for a fixed url.
func New(repo Repository, url string, ui Dispatcher, callbacks Callbacks, log logger.Logger) (*Controller, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository must not be nil")
	}
	if ui == nil {
		return nil, fmt.Errorf("dispatcher must not be nil")
	}
	if callbacks == nil {
		return nil, fmt.Errorf("callbacks must not be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		repo:      repo,
		url:       url,
		ui:        ui,
		callbacks: callbacks,
		log:       logger.Ensure(log),
		ctx:       ctx,
		cancel:    cancel,
		state:     StateCreated,
	}, nil
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start launches a background load. It returns false without doing anything
// while a load is already in flight or after Destroy.
func (c *Controller) Start() bool {
	c.mu.Lock()
	if c.state == StateStarted || c.state == StateDestroyed {
		state := c.state
		c.mu.Unlock()
		c.log.DebugObj("load start ignored", "loader_state", state.String())
		return false
	}
	c.state = StateStarted
	c.gen++
	gen := c.gen
	queued := c.running
	c.running = true
	c.mu.Unlock()

	c.log.InfoObj("load started", "loader_meta", map[string]any{
		"generation": gen,
		"queued":     queued,
	})
	if !queued {
		go c.run()
	}
	return true
}

// run fetches for the current generation. A restart that lands while a
// superseded fetch is still in flight is picked up once that fetch returns,
// so at most one request is open per controller.
func (c *Controller) run() {
	for {
		c.mu.Lock()
		if c.state != StateStarted {
			c.running = false
			c.mu.Unlock()
			return
		}
		gen := c.gen
		c.mu.Unlock()

		c.load(gen)

		c.mu.Lock()
		if c.state != StateStarted || c.gen == gen {
			c.running = false
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}
}

func (c *Controller) load(gen uint64) {
	start := time.Now()
	res := c.repo.FetchArticles(c.ctx, c.url)
	c.log.DebugObj("background load finished", "loader_meta", map[string]any{
		"generation":  gen,
		"status_code": res.StatusCode,
		"articles":    len(res.Articles),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})

	if !c.ui.Post(func() { c.deliver(gen, res) }) {
		c.log.WarnObj("ui loop rejected delivery", "loader_meta", map[string]any{"generation": gen})
	}
}

// deliver runs on the dispatcher goroutine.
func (c *Controller) deliver(gen uint64, res domain.Result) {
	c.mu.Lock()
	if c.state != StateStarted || c.gen != gen {
		state := c.state
		c.mu.Unlock()
		c.log.InfoObj("stale load discarded", "loader_meta", map[string]any{
			"generation": gen,
			"state":      state.String(),
		})
		return
	}
	c.state = StateDelivered
	c.mu.Unlock()

	c.callbacks.OnDelivered(res)
}

// Reset invalidates any in-flight load and tells Callbacks to drop their data.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return
	}
	c.state = StateReset
	c.gen++
	c.mu.Unlock()

	c.ui.Post(func() {
		if c.State() == StateDestroyed {
			return
		}
		c.callbacks.OnReset()
	})
}

// Destroy releases the controller. No callback starts after it returns, and
// the context of an in-flight request is cancelled.
func (c *Controller) Destroy() {
	c.mu.Lock()
	c.state = StateDestroyed
	c.gen++
	c.mu.Unlock()
	c.cancel()
}
