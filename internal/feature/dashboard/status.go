package dashboard

import "fmt"

// Phase tags the posts-load state of a view.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

var phaseNames = [...]string{"idle", "loading", "loaded", "failed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Status is one of Idle, Loading(page), Loaded(page) or Failed(page, message).
// Page is the page the load was started for, which can differ from the current
// page when an older load completes last.
type Status struct {
	Phase   Phase  `json:"phase"`
	Page    int    `json:"page,omitempty"`
	Message string `json:"message,omitempty"`
}

func Idle() Status                       { return Status{Phase: PhaseIdle} }
func Loading(page int) Status            { return Status{Phase: PhaseLoading, Page: page} }
func Loaded(page int) Status             { return Status{Phase: PhaseLoaded, Page: page} }
func Failed(page int, msg string) Status { return Status{Phase: PhaseFailed, Page: page, Message: msg} }

func (s Status) IsLoading() bool { return s.Phase == PhaseLoading }

// Err is the user-visible error text, empty unless the last load failed.
func (s Status) Err() string {
	if s.Phase != PhaseFailed {
		return ""
	}
	return s.Message
}
