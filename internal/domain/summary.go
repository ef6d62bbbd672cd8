package domain

// SummaryStatus is the lifecycle state of a summary.
type SummaryStatus string

const (
	StatusDraft SummaryStatus = "draft"
	StatusFinal SummaryStatus = "final"
)

// Summary is the evolving meeting report owned by a session. Version starts
// at 1 and increments by exactly one on every revision; History holds the
// superseded content, oldest first, so len(History) == Version-1 always.
type Summary struct {
	Content string        `json:"content"`
	Status  SummaryStatus `json:"status"`
	Version int           `json:"version"`
	History []string      `json:"history"`
}

// NewDraft creates a version-1 draft with empty history.
func NewDraft(content string) *Summary {
	return &Summary{
		Content: content,
		Status:  StatusDraft,
		Version: 1,
		History: []string{},
	}
}

// Revise archives the current content, replaces it with newContent and bumps
// the version. Finalized summaries cannot be revised.
func (s *Summary) Revise(newContent string) error {
	if s.Status == StatusFinal {
		return ErrSummaryFinalized
	}
	s.History = append(s.History, s.Content)
	s.Content = newContent
	s.Version++
	return nil
}

// Finalize moves the summary from draft to final. Content, version and
// history are left untouched. Calling Finalize on an already-final summary is
// a caller bug and returns ErrSummaryFinalized rather than being a no-op.
func (s *Summary) Finalize() error {
	if s.Status == StatusFinal {
		return ErrSummaryFinalized
	}
	s.Status = StatusFinal
	return nil
}

// Clone returns a deep copy.
func (s *Summary) Clone() *Summary {
	cp := *s
	cp.History = append([]string{}, s.History...)
	return &cp
}
