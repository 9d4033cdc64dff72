package models

// Categories
const (
	CategoryUncategorized = "uncategorized"
)

// DescriptionUnknown replaces an empty description on an otherwise valid row.
const DescriptionUnknown = "N/A"

// Skip reasons counted in ExtractionStats. The first three match
// parsererror.Reason.
const (
	SkipReasonNoMatch       = "no_match"
	SkipReasonInvalidDate   = "invalid_date"
	SkipReasonInvalidAmount = "invalid_amount"
	SkipReasonRejected      = "rejected"
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
