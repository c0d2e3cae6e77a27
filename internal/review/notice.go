package review

import "fmt"

// NoticeKind identifies a user-facing notification emitted by a reducer.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeCorrect
	NoticeIncorrect
	NoticeMarked
	NoticeUnmarked
	NoticeNoteSaved
	NoticeTagAdded
	NoticeTagExists
	NoticeInvalidTag
	NoticeTagRemoved
	NoticeQuizComplete
	NoticeExported
	NoticeNothingToExport
	NoticeInfo     // neutral status line (filters applied, reset...)
	NoticeRejected // generic rejected action (already answered, no choice...)
)

// Notice is a transient message for the presentation layer. The core never
// renders it; screens decide how and for how long to show it.
type Notice struct {
	Kind NoticeKind
	Text string
}

// IsZero reports whether n carries nothing to show.
func (n Notice) IsZero() bool {
	return n.Kind == NoticeNone
}

func answerNotice(correct bool) Notice {
	if correct {
		return Notice{Kind: NoticeCorrect, Text: "Correct! Press n for the next question"}
	}
	return Notice{Kind: NoticeIncorrect, Text: "Incorrect. Press n for the next question"}
}

func completeNotice(st Stats) Notice {
	return Notice{
		Kind: NoticeQuizComplete,
		Text: fmt.Sprintf("Test complete: %d correct, %d incorrect, %.2f%%",
			st.Correct, st.Incorrect, st.Accuracy()*100),
	}
}
