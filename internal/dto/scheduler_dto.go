package dto

// GenerationReportDTO summarizes one generation pass. Skipped pairs are
// counted, never errored.
type GenerationReportDTO struct {
	DryRun              bool `json:"dry_run"`
	Created             int  `json:"created"`
	Existing            int  `json:"existing"`
	SkippedNoDepartment int  `json:"skipped_no_department"`
	SkippedNoActiveForm int  `json:"skipped_no_active_form"`
}

// ReminderReportDTO summarizes one reminder pass; at most one digest per
// evaluator per run.
type ReminderReportDTO struct {
	DryRun           bool `json:"dry_run"`
	DigestsSent      int  `json:"digests_sent"`
	AlreadyReminded  int  `json:"already_reminded"`
	DeliveryFailures int  `json:"delivery_failures"`
}
