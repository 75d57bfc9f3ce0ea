package models

import "strings"

// DocumentFormat tags the source format of a reference document.
type DocumentFormat string

const (
	FormatText     DocumentFormat = "text"
	FormatMarkdown DocumentFormat = "markdown"
	FormatWord     DocumentFormat = "word"
	FormatPDF      DocumentFormat = "pdf"
)

// ReferenceSlot identifies which grounding document an upload fills.
type ReferenceSlot string

const (
	SlotEducation ReferenceSlot = "education"
	SlotTechnique ReferenceSlot = "technique"
)

// ReferenceDocument holds the extracted text of one grounding document.
// Sentinel marks text that is a missing-capability placeholder rather than
// real content; sentinel documents are embedded in prompts as-is so the gap
// stays visible, but they never count as usable grounding material.
type ReferenceDocument struct {
	Text     string         `json:"text"`
	Format   DocumentFormat `json:"format"`
	Sentinel bool           `json:"sentinel,omitempty"`
}

// Usable reports whether the document provides real grounding content.
func (d ReferenceDocument) Usable() bool {
	return !d.Sentinel && strings.TrimSpace(d.Text) != ""
}
