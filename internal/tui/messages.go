package tui

import (
	"github.com/mark3labs/stylewiz/internal/generator"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

// PromptEditedMsg is sent when the external editor returns with a new prompt.
type PromptEditedMsg struct {
	Step    wizard.Step
	Content string
}

// PromptResetMsg asks to re-derive a prompt from the research.
type PromptResetMsg struct {
	Step wizard.Step
}

// ContentTypeMsg selects the content type shown alongside a prompt.
type ContentTypeMsg struct {
	Step wizard.Step
	Next bool // cycle forward from the current type
}

// ApplyProfileMsg appends the content type annotation to a prompt.
type ApplyProfileMsg struct {
	Step wizard.Step
}

// PromptDiffMsg asks to show how a prompt differs from its derived form.
type PromptDiffMsg struct {
	Step wizard.Step
}

// NextMsg asks to leave the current step with its output.
type NextMsg struct {
	Output wizard.Output
}

// BackMsg asks to return to the previous step.
type BackMsg struct{}

// GenerateMsg asks to start a generation.
type GenerateMsg struct{}

// GenerationDoneMsg carries the outcome of a generation.
type GenerationDoneMsg struct {
	Result generator.Result
	Err    error
}

// CopyMsg asks to copy the analysis to the clipboard.
type CopyMsg struct{}

// SaveMsg asks to save the analysis as markdown.
type SaveMsg struct{}

// ExportDoneMsg carries the outcome of an export.
type ExportDoneMsg struct {
	Target string
	Err    error
}

// EditorErrorMsg is sent when the external editor could not be used.
type EditorErrorMsg struct {
	Err error
}
