package domain

// StateKind enumerates the presenter's view of the pipeline.
type StateKind int

const (
	StateIdle StateKind = iota
	StateLoading
	StateSucceeded
	StateFailed
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailureReason names the user-visible failure messages.
type FailureReason string

const (
	ReasonNone            FailureReason = ""
	ReasonNoInternet      FailureReason = "no_internet"
	ReasonBadResponseCode FailureReason = "bad_response_code"
	ReasonNoNewsFound     FailureReason = "no_news_found"
)

// LoadState is exactly one of Idle, Loading, Succeeded(articles) or Failed(reason).
type LoadState struct {
	Kind     StateKind
	Articles []Article
	Reason   FailureReason
}

func Idle() LoadState    { return LoadState{Kind: StateIdle} }
func Loading() LoadState { return LoadState{Kind: StateLoading} }

func Succeeded(articles []Article) LoadState {
	return LoadState{Kind: StateSucceeded, Articles: articles}
}

func Failed(reason FailureReason) LoadState {
	return LoadState{Kind: StateFailed, Reason: reason}
}
