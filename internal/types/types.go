package types

import (
	"fmt"
	"strings"
)

const (
	// NotFoundSentinel is the literal the model returns for fields it cannot determine.
	NotFoundSentinel = "Not Found"
	// NotFoundIdentifier is the fingerprint used while no application window is announced.
	NotFoundIdentifier = "not_found"
	// NotAnnouncedSummary is shown in place of a summary while no window is announced.
	NotAnnouncedSummary = "尚未公布"

	identifierSeparator = "-"
)

// ExtractedInfo holds the DV program fields pulled out of the entry page.
type ExtractedInfo struct {
	ProgramYear string `json:"program_year"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (i ExtractedInfo) Identifier() string {
	return strings.Join([]string{i.ProgramYear, i.StartDate, i.EndDate}, identifierSeparator)
}

func (i ExtractedInfo) Summary() string {
	return fmt.Sprintf("%s 申請時間: %s 至 %s", i.ProgramYear, i.StartDate, i.EndDate)
}

// Status is the fingerprint compared between runs plus its display form.
type Status struct {
	ID      string
	Summary string
}

func NotYetAnnounced() Status {
	return Status{ID: NotFoundIdentifier, Summary: NotAnnouncedSummary}
}

func StatusOf(info ExtractedInfo) Status {
	return Status{ID: info.Identifier(), Summary: info.Summary()}
}
