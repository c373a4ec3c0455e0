package model

// Well-known ticket values. Priority and status are free text at the storage
// layer; these constants cover the values the forms offer and the defaults
// substituted when a column is missing or null.
const (
	TicketStatusOpen       = "Open"
	TicketStatusInProgress = "In Progress"
	TicketStatusClosed     = "Closed"

	TicketPriorityLow    = "Low"
	TicketPriorityMedium = "Medium"
	TicketPriorityHigh   = "High"

	// TicketPriorityUnknown is the scan default for rows without a priority.
	TicketPriorityUnknown = "Unknown"
)

// Incident status and severity values. Status is a two-state machine
// (Open/Resolved); severity is free text with these as the common values.
const (
	IncidentStatusOpen     = "Open"
	IncidentStatusResolved = "Resolved"

	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"

	IncidentTypeOther = "Other"
)

// Dataset status and sensitivity values.
const (
	DatasetStatusActive   = "Active"
	DatasetStatusArchived = "Archived"

	SensitivityLow          = "Low"
	SensitivityMedium       = "Medium"
	SensitivityHigh         = "High"
	SensitivityConfidential = "Confidential"
)
