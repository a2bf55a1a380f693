package generator

import "context"

// OutcomeKind classifies how a generation (or a user action) ended.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeWarning OutcomeKind = "warning"
	OutcomeStopped OutcomeKind = "stopped"
	OutcomeError   OutcomeKind = "error"
)

// Surface is everything the session needs from the user interface. All
// calls are made from the goroutine driving the session.
type Surface interface {
	SetBusy(busy bool)
	ClearOutput()
	AppendText(chunk string)
	ShowWordCount(n int)
	ReportOutcome(kind OutcomeKind, message string)
	FocusInput()
	ScrollToLatest()
}

// Tracker records named analytics events. Implementations must not block
// for long; failures are logged and otherwise ignored.
type Tracker interface {
	Track(ctx context.Context, name string, data map[string]any) error
}

// Outcome is published when a generation settles back to idle, or when a
// submission is rejected.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	Err     error
	Text    string
	Words   int
}

// Messages shown to the user.
const (
	msgEmptyTopic    = "Please enter a blog topic"
	msgTopicFirst    = "Please enter a topic first"
	msgComplete      = "Blog post generated successfully!"
	msgConnLost      = "Connection lost. Please try again."
	msgGenError      = "Error generating content. Please try again."
	msgStopped       = "Generation stopped"
	msgOutputCleared = "Output cleared"
)
