package domain

// HourRequestStatus is the review state of an extra-hours request.
type HourRequestStatus string

const (
	HourRequestPending  HourRequestStatus = "PENDING"
	HourRequestApproved HourRequestStatus = "APPROVED"
	HourRequestRejected HourRequestStatus = "REJECTED"
)

// HourRequest is a student's claim for volunteer hours earned outside a
// listed activity.
type HourRequest struct {
	ID           string            `json:"id"`
	StudentNo    string            `json:"studentNo"`
	Username     string            `json:"username,omitempty"`
	ActivityName string            `json:"activityName"`
	Type         ActivityType      `json:"type,omitempty"`
	Duration     float64           `json:"duration"`
	Reason       string            `json:"reason"`
	Attachments  []string          `json:"attachments,omitempty"`
	Status       HourRequestStatus `json:"status"`
	ReviewReason string            `json:"reviewReason,omitempty"`
	CreateTime   string            `json:"createTime"`
	ReviewTime   string            `json:"reviewTime,omitempty"`
}

type HourRequestList struct {
	Items []HourRequest `json:"items"`
	Total int64         `json:"total"`
}
