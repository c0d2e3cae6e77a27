package review

// Mode selects how the working set is built and ordered.
type Mode string

const (
	ModeTest   Mode = "test"
	ModeReview Mode = "review"
)

// String returns a display label for the mode.
func (m Mode) String() string {
	if m == ModeReview {
		return "Review"
	}
	return "Test"
}

// Filter holds the selection criteria. Empty strings disable a criterion.
// WrongOnly and MarkedOnly only apply in review mode and are mutually
// exclusive; use WithWrongOnly and WithMarkedOnly to keep that invariant.
type Filter struct {
	Exam    string
	Subject string
	Type    string
	Tag     string

	Mode       Mode
	WrongOnly  bool
	MarkedOnly bool
}

// WithWrongOnly returns f with the wrong-only sub-filter set. Enabling it
// disables marked-only.
func (f Filter) WithWrongOnly(on bool) Filter {
	f.WrongOnly = on
	if on {
		f.MarkedOnly = false
	}
	return f
}

// WithMarkedOnly returns f with the marked-only sub-filter set. Enabling it
// disables wrong-only.
func (f Filter) WithMarkedOnly(on bool) Filter {
	f.MarkedOnly = on
	if on {
		f.WrongOnly = false
	}
	return f
}

// normalized enforces sub-filter exclusivity; marked-only wins.
func (f Filter) normalized() Filter {
	if f.MarkedOnly && f.WrongOnly {
		f.WrongOnly = false
	}
	if f.Mode == "" {
		f.Mode = ModeTest
	}
	return f
}
