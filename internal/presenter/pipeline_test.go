package presenter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-feed/internal/domain"
	"github.com/samvad-hq/samvad-news-feed/internal/loader"
	"github.com/samvad-hq/samvad-news-feed/internal/uiloop"
	"github.com/samvad-hq/samvad-news-feed/pkg/feed"
)

const (
	threeResultsBody = `{"response":{"results":[
  {"webTitle":"A","webUrl":"https://example.com/a","fields":{"thumbnail":"https://img/a"}},
  {"webTitle":"B","webUrl":"https://example.com/b","fields":{"thumbnail":"https://img/b"}},
  {"webTitle":"C","webUrl":"https://example.com/c","fields":{"thumbnail":"https://img/c"}}
]}}`
	emptyResultsBody = `{"response":{"results":[]}}`
)

// deliveryCounter counts OnDelivered calls before forwarding to the presenter.
type deliveryCounter struct {
	next  loader.Callbacks
	count atomic.Int32
	done  chan domain.Result
}

func (d *deliveryCounter) OnDelivered(res domain.Result) {
	d.count.Add(1)
	d.next.OnDelivered(res)
	d.done <- res
}

func (d *deliveryCounter) OnReset() { d.next.OnReset() }

type pipeline struct {
	loop       *uiloop.Loop
	view       *fakeView
	list       *List
	controller *loader.Controller
	counter    *deliveryCounter
}

func newPipeline(t *testing.T, url string) *pipeline {
	t.Helper()
	loop := uiloop.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Run(ctx)

	view := &fakeView{}
	list, err := New(view, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	counter := &deliveryCounter{next: list, done: make(chan domain.Result, 4)}
	repo := feed.NewRepository(nil, nil)
	controller, err := loader.New(repo, url, loop, counter, nil)
	if err != nil {
		t.Fatalf("loader.New: %v", err)
	}
	list.Bind(controller)
	t.Cleanup(controller.Destroy)

	return &pipeline{loop: loop, view: view, list: list, controller: controller, counter: counter}
}

func (p *pipeline) onUI(t *testing.T, fn func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.loop.Do(ctx, fn); err != nil {
		t.Fatalf("ui loop: %v", err)
	}
}

func (p *pipeline) awaitDelivery(t *testing.T) domain.Result {
	t.Helper()
	select {
	case res := <-p.counter.done:
		return res
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for delivery")
	}
	return domain.Result{}
}

func cannedServer(t *testing.T, status int, body string, gate <-chan struct{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if gate != nil {
			<-gate
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPipelineDeliversThreeArticles(t *testing.T) {
	srv := cannedServer(t, http.StatusOK, threeResultsBody, nil)
	p := newPipeline(t, srv.URL+"/search")

	p.onUI(t, func() { p.list.Begin(true) })
	res := p.awaitDelivery(t)

	if res.StatusCode != http.StatusOK || len(res.Articles) != 3 {
		t.Fatalf("delivery = %+v", res)
	}
	var state domain.LoadState
	var shown []domain.Article
	p.onUI(t, func() {
		state = p.list.State()
		shown = p.view.articles
	})
	if state.Kind != domain.StateSucceeded || len(shown) != 3 {
		t.Fatalf("state=%+v shown=%v", state, shown)
	}
	if shown[0].Title != "A" || shown[2].DetailURL != "https://example.com/c" {
		t.Fatalf("unexpected order or mapping %v", shown)
	}
	if n := p.counter.count.Load(); n != 1 {
		t.Fatalf("delivery count = %d", n)
	}
}

func TestPipelineEmptyResultsShowsNoNews(t *testing.T) {
	srv := cannedServer(t, http.StatusOK, emptyResultsBody, nil)
	p := newPipeline(t, srv.URL)

	p.onUI(t, func() { p.list.Begin(true) })
	res := p.awaitDelivery(t)
	if res.Articles == nil || len(res.Articles) != 0 {
		t.Fatalf("expected empty non-nil articles, got %#v", res.Articles)
	}

	var msg domain.FailureReason
	p.onUI(t, func() { msg = p.view.message })
	if msg != domain.ReasonNoNewsFound {
		t.Fatalf("message = %q, want no news found", msg)
	}
}

func TestPipelineServerErrorShowsBadResponse(t *testing.T) {
	srv := cannedServer(t, http.StatusInternalServerError, threeResultsBody, nil)
	p := newPipeline(t, srv.URL)

	p.onUI(t, func() { p.list.Begin(true) })
	res := p.awaitDelivery(t)
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d", res.StatusCode)
	}

	var msg domain.FailureReason
	var shown []domain.Article
	p.onUI(t, func() {
		msg = p.view.message
		shown = p.view.articles
	})
	if msg != domain.ReasonBadResponseCode {
		t.Fatalf("message = %q", msg)
	}
	if len(shown) != 0 {
		t.Fatalf("list rendered on bad response: %v", shown)
	}
}

func TestPipelineDoubleStartDeliversOnce(t *testing.T) {
	gate := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-gate
		_, _ = w.Write([]byte(threeResultsBody))
	}))
	t.Cleanup(srv.Close)
	var once sync.Once
	t.Cleanup(func() { once.Do(func() { close(gate) }) })

	p := newPipeline(t, srv.URL)
	p.onUI(t, func() {
		p.list.Begin(true)
		p.list.Begin(true)
	})
	once.Do(func() { close(gate) })

	p.awaitDelivery(t)
	time.Sleep(100 * time.Millisecond)
	p.onUI(t, func() {})

	if n := p.counter.count.Load(); n != 1 {
		t.Fatalf("delivery count = %d, want 1", n)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("server hits = %d, want 1", n)
	}
}

func TestPipelineResetDropsInFlightResult(t *testing.T) {
	gate := make(chan struct{})
	srv := cannedServer(t, http.StatusOK, threeResultsBody, gate)
	p := newPipeline(t, srv.URL)

	p.onUI(t, func() { p.list.Begin(true) })
	p.controller.Reset()
	close(gate)

	// let the in-flight request finish and post its stale result
	time.Sleep(200 * time.Millisecond)
	p.onUI(t, func() {})

	var state domain.LoadState
	var shown []domain.Article
	p.onUI(t, func() {
		state = p.list.State()
		shown = p.view.articles
	})
	if len(shown) != 0 {
		t.Fatalf("stale articles rendered after reset: %v", shown)
	}
	if state.Kind != domain.StateIdle {
		t.Fatalf("state = %+v, want idle", state)
	}
	if n := p.counter.count.Load(); n != 0 {
		t.Fatalf("delivery count = %d, want 0", n)
	}
}
