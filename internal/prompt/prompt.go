// Package prompt holds the decision provider that stands in for blocking
// confirm and text-prompt dialogs, so callers can answer them from a UI, an
// HTTP request or a test script.
package prompt

// Decider answers the questions a user would normally get in a dialog.
type Decider interface {
	// Confirm returns true when the user accepts.
	Confirm(message string) bool
	// PromptText returns the entered text, or ok=false when the prompt was cancelled.
	PromptText(message, defaultValue string) (text string, ok bool)
}

// Answers is a fixed Decider: every confirmation gets Confirmed and every
// prompt gets Text (cancelled when Cancel is set).
type Answers struct {
	Confirmed bool
	Text      string
	Cancel    bool
}

func (a Answers) Confirm(string) bool { return a.Confirmed }

func (a Answers) PromptText(string, string) (string, bool) {
	if a.Cancel {
		return "", false
	}
	return a.Text, true
}

// Recorder wraps a Decider and remembers what was asked.
type Recorder struct {
	Decider
	Confirms []string
	Prompts  []string
}

func (r *Recorder) Confirm(message string) bool {
	r.Confirms = append(r.Confirms, message)
	return r.Decider.Confirm(message)
}

func (r *Recorder) PromptText(message, defaultValue string) (string, bool) {
	r.Prompts = append(r.Prompts, message)
	return r.Decider.PromptText(message, defaultValue)
}
