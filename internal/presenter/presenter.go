package presenter

import (
	"fmt"
	"net/http"

	"github.com/samvad-hq/samvad-news-feed/internal/domain"
	"github.com/samvad-hq/samvad-news-feed/internal/logger"
)

// View is the presentation sink. Every method is called on the UI loop.
type View interface {
	SetLoading(visible bool)
	// SetArticles replaces the visible list; nil or empty clears it.
	SetArticles(articles []domain.Article)
	// ShowMessage sets the empty-state message; ReasonNone hides it.
	ShowMessage(reason domain.FailureReason)
}

// Starter kicks off a load; satisfied by *loader.Controller.
type Starter interface {
	Start() bool
}

// Opener shows an article's full page in an external viewer.
type Opener interface {
	Open(detailURL string) error
}

// List owns the visible list state. It is not safe for concurrent use: all
// methods except OpenDetail are meant to run on the UI loop.
type List struct {
	view   View
	opener Opener
	loader Starter
	log    logger.Logger

	state domain.LoadState
}

// New builds a presenter in the Idle state.
func New(view View, opener Opener, log logger.Logger) (*List, error) {
	if view == nil {
		return nil, fmt.Errorf("view must not be nil")
	}
	return &List{
		view:   view,
		opener: opener,
		log:    logger.Ensure(log),
		state:  domain.Idle(),
	}, nil
}

// Bind attaches the loader started by Begin.
func (l *List) Bind(loader Starter) {
	l.loader = loader
}

// State returns the current load state.
func (l *List) State() domain.LoadState {
	return l.state
}

// Begin starts a load when connected, otherwise reports no connectivity
// without touching the network.
func (l *List) Begin(connected bool) {
	if !connected {
		l.view.SetLoading(false)
		l.view.SetArticles(nil)
		l.fail(domain.ReasonNoInternet)
		return
	}
	if l.loader == nil {
		l.log.ErrorObj("presenter has no loader bound", "presenter_state", l.state.Kind.String())
		return
	}

	if l.loader.Start() {
		l.state = domain.Loading()
		l.view.ShowMessage(domain.ReasonNone)
		l.view.SetLoading(true)
	}
}

// OnDelivered applies a completed load. Checks run in a fixed order:
// status code first, then list emptiness.
func (l *List) OnDelivered(res domain.Result) {
	l.view.SetLoading(false)

	if res.StatusCode != http.StatusOK {
		l.log.WarnObj("bad response code", "presenter_result", map[string]any{
			"status_code": res.StatusCode,
			"error":       errString(res.Err),
		})
		l.view.SetArticles(nil)
		l.fail(domain.ReasonBadResponseCode)
		return
	}

	if len(res.Articles) == 0 {
		l.log.InfoObj("no articles received", "presenter_result", map[string]any{
			"nil_result": res.Articles == nil,
			"error":      errString(res.Err),
		})
		l.view.SetArticles(nil)
		l.fail(domain.ReasonNoNewsFound)
		return
	}

	articles := make([]domain.Article, len(res.Articles))
	copy(articles, res.Articles)
	l.state = domain.Succeeded(articles)
	l.view.ShowMessage(domain.ReasonNone)
	l.view.SetArticles(articles)
	l.log.InfoObj("articles delivered to view", "presenter_result", map[string]any{
		"articles": len(articles),
	})
}

// OnReset drops the list without reporting an error.
func (l *List) OnReset() {
	l.state = domain.Idle()
	l.view.SetLoading(false)
	l.view.SetArticles(nil)
}

// Open hands the detail URL of the article at index to the Opener. The
// Opener may block; callers on the UI loop should use DetailURL there and
// OpenDetail elsewhere.
func (l *List) Open(index int) error {
	detail, err := l.DetailURL(index)
	if err != nil {
		return err
	}
	return l.OpenDetail(detail)
}

// DetailURL resolves the detail URL of the article at index.
func (l *List) DetailURL(index int) (string, error) {
	if l.state.Kind != domain.StateSucceeded {
		return "", fmt.Errorf("no articles to open (state %s)", l.state.Kind)
	}
	if index < 0 || index >= len(l.state.Articles) {
		return "", fmt.Errorf("article index %d out of range [0,%d)", index, len(l.state.Articles))
	}
	return l.state.Articles[index].DetailURL, nil
}

// OpenDetail passes detailURL to the Opener. It reads no list state, so it is
// safe to call off the UI loop.
func (l *List) OpenDetail(detailURL string) error {
	if l.opener == nil {
		return fmt.Errorf("no opener configured")
	}
	if err := l.opener.Open(detailURL); err != nil {
		return fmt.Errorf("open %s: %w", detailURL, err)
	}
	return nil
}

func (l *List) fail(reason domain.FailureReason) {
	l.state = domain.Failed(reason)
	l.view.ShowMessage(reason)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
