package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-news-feed/internal/config"
	"github.com/samvad-hq/samvad-news-feed/internal/connectivity"
	"github.com/samvad-hq/samvad-news-feed/internal/domain"
	"github.com/samvad-hq/samvad-news-feed/internal/loader"
	"github.com/samvad-hq/samvad-news-feed/internal/logger"
	"github.com/samvad-hq/samvad-news-feed/internal/presenter"
	"github.com/samvad-hq/samvad-news-feed/internal/terminal"
	"github.com/samvad-hq/samvad-news-feed/internal/uiloop"
	"github.com/samvad-hq/samvad-news-feed/internal/viewer"
	"github.com/samvad-hq/samvad-news-feed/pkg/feed"
	"github.com/samvad-hq/samvad-news-feed/pkg/httpclient"
	"github.com/samvad-hq/samvad-news-feed/pkg/publishers"
)

const publishTimeout = 30 * time.Second

// Options tune a Reader beyond what the config file carries.
type Options struct {
	// URL replaces the query built from config when set.
	URL string
	// SkipProbe treats the network as reachable without dialing.
	SkipProbe bool
	Out       io.Writer
	Colors    bool
}

// Reader wires the feed pipeline: one load through the controller, rendered
// by the presenter on the UI loop, with snapshots fanned out to publishers.
type Reader struct {
	cfg     *config.Config
	log     logger.Logger
	url     string
	feedID  string
	loop    *uiloop.Loop
	view    *terminal.View
	list    *presenter.List
	loader  *loader.Controller
	checker connectivity.Checker
	fanout  *publishers.Fanout

	finished  chan domain.LoadState
	startOnce sync.Once
	closeOnce sync.Once

	mu         sync.Mutex
	closed     bool
	publishing sync.WaitGroup
}

// NewReader builds a reader runtime from config.
func NewReader(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log = logger.Ensure(log)
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	query := feed.Query{
		BaseURL: cfg.APIBaseURL,
		Keyword: cfg.QueryKeyword,
		Section: cfg.QuerySection,
		APIKey:  cfg.APIKey,
	}
	rawURL := opts.URL
	if rawURL == "" {
		built, err := query.URL()
		if err != nil {
			return nil, fmt.Errorf("build query url: %w", err)
		}
		rawURL = built
	}

	var checker connectivity.Checker = connectivity.Static(true)
	if !opts.SkipProbe {
		dc, err := connectivity.NewDialChecker(rawURL, cfg.ProbeTimeout, log)
		if err != nil {
			// unparseable URLs fail later through the repository's invalid-URL path
			log.WarnObj("connectivity probe disabled", "connectivity", map[string]any{
				"url":   rawURL,
				"error": err.Error(),
			})
		} else {
			checker = dc
		}
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	client := httpclient.NewRestyClientWithTimeouts(httpclient.Timeouts{
		Connect: cfg.ConnectTimeout,
		Read:    cfg.ReadTimeout,
	})
	repo := feed.NewRepository(feed.NewHTTPFetcher(client, log), log)

	r := &Reader{
		cfg:      cfg,
		log:      log,
		url:      rawURL,
		feedID:   query.Section + "/" + query.Keyword,
		loop:     uiloop.New(),
		view:     terminal.New(opts.Out, opts.Colors),
		checker:  checker,
		fanout:   fanout,
		finished: make(chan domain.LoadState, 1),
	}

	list, err := presenter.New(r.view, viewer.New(client, opts.Out, log), log)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init presenter: %w", err)
	}
	r.list = list

	ctrl, err := loader.New(repo, rawURL, r.loop, readerCallbacks{r}, log)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init loader: %w", err)
	}
	r.loader = ctrl
	list.Bind(ctrl)

	log.InfoObj("reader initialized", "reader_meta", map[string]any{
		"url":              rawURL,
		"feed_id":          r.feedID,
		"publishers_count": fanout.Size(),
	})
	return r, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}
	cfgs, err := publishers.LoadConfigs(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), cfgs, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(cfgs))
	for _, c := range cfgs {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.InfoObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// URL is the request URL the reader loads.
func (r *Reader) URL() string { return r.url }

// Run performs one load and blocks until its outcome is rendered or ctx ends.
// It returns the presenter's final state.
func (r *Reader) Run(ctx context.Context) (domain.LoadState, error) {
	if r == nil || r.loader == nil {
		return domain.LoadState{}, fmt.Errorf("reader is not initialized")
	}
	r.startOnce.Do(func() { go r.loop.Run(ctx) })

	connected := r.checker.Connected(ctx)
	var state domain.LoadState
	err := r.loop.Do(ctx, func() {
		r.list.Begin(connected)
		state = r.list.State()
	})
	if err != nil {
		return domain.LoadState{}, fmt.Errorf("begin load: %w", err)
	}
	if state.Kind != domain.StateLoading {
		return state, nil
	}

	select {
	case state = <-r.finished:
		return state, nil
	case <-ctx.Done():
		r.loader.Reset()
		return state, ctx.Err()
	}
}

// Open previews the article at index of the last successful load. Only the
// index lookup runs on the UI loop; the preview fetch runs on the caller.
func (r *Reader) Open(ctx context.Context, index int) error {
	var (
		detail     string
		resolveErr error
	)
	if err := r.loop.Do(ctx, func() { detail, resolveErr = r.list.DetailURL(index) }); err != nil {
		return err
	}
	if resolveErr != nil {
		return resolveErr
	}
	return r.list.OpenDetail(detail)
}

// Close cancels any in-flight load, waits for pending publishes and releases
// publisher clients.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.loader.Destroy()
		r.loop.Stop()
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		r.publishing.Wait()
		err = r.fanout.Close()
	})
	return err
}

func (r *Reader) publish(res domain.Result) {
	if r.fanout.Size() == 0 {
		return
	}
	evt := publishers.NewEvent(r.feedID, res)
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.publishing.Add(1)
	r.mu.Unlock()
	go func() {
		defer r.publishing.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		ok, err := r.fanout.Publish(ctx, evt)
		if err != nil {
			r.log.ErrorObj("snapshot publish failed", "publish_meta", map[string]any{
				"feed_id":   evt.FeedID,
				"delivered": ok,
				"error":     err.Error(),
			})
			return
		}
		r.log.InfoObj("snapshot published", "publish_meta", map[string]any{
			"feed_id":   evt.FeedID,
			"delivered": ok,
			"articles":  len(evt.Articles),
		})
	}()
}

func (r *Reader) finish() {
	select {
	case r.finished <- r.list.State():
	default:
	}
}

// readerCallbacks runs on the UI loop: render first, then publish.
type readerCallbacks struct {
	r *Reader
}

func (c readerCallbacks) OnDelivered(res domain.Result) {
	c.r.list.OnDelivered(res)
	c.r.publish(res)
	c.r.finish()
}

func (c readerCallbacks) OnReset() {
	c.r.list.OnReset()
	c.r.finish()
}
