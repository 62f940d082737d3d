package domain

import "errors"

var ErrActivityNotFound = errors.New("activity not found")

// ActivityStatus is the lifecycle state of an activity as reported by the backend.
type ActivityStatus string

const (
	StatusEnrollmentNotStart ActivityStatus = "EnrollmentNotStart"
	StatusEnrollmentStarted  ActivityStatus = "EnrollmentStarted"
	StatusEnrollmentEnded    ActivityStatus = "EnrollmentEnded"
	StatusActivityStarted    ActivityStatus = "ActivityStarted"
	StatusActivityEnded      ActivityStatus = "ActivityEnded"
	StatusUnderReview        ActivityStatus = "UnderReview"
	StatusFailReview         ActivityStatus = "FailReview"
)

var statusLabels = map[ActivityStatus]string{
	StatusEnrollmentNotStart: "未开始报名",
	StatusEnrollmentStarted:  "报名中",
	StatusEnrollmentEnded:    "报名结束",
	StatusActivityStarted:    "活动进行中",
	StatusActivityEnded:      "活动已结束",
	StatusUnderReview:        "审核中",
	StatusFailReview:         "审核失败",
}

// Label returns the display label, or the raw value when unknown.
func (s ActivityStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ActivityType classifies the kind of volunteer work.
type ActivityType string

const (
	TypeCommunityService          ActivityType = "COMMUNITY_SERVICE"
	TypeCultureService            ActivityType = "CULTURE_SERVICE"
	TypeEmergencyRescue           ActivityType = "EMERGENCY_RESCUE"
	TypeAnimalProtection          ActivityType = "ANIMAL_PROTECTION"
	TypePovertyAssistance         ActivityType = "POVERTY_ASSISTANCE"
	TypeElderlyDisabledAssistance ActivityType = "ELDERLY_DISABLED_ASSISTANCE"
	TypeMedicalAssistance         ActivityType = "MEDICAL_ASSISTANCE"
	TypeOrphanEducationAssistance ActivityType = "ORPHAN_EDUCATION_ASSISTANCE"
)

// ActivityTypes lists every known type in display order.
var ActivityTypes = []ActivityType{
	TypeCommunityService,
	TypeCultureService,
	TypeEmergencyRescue,
	TypeAnimalProtection,
	TypePovertyAssistance,
	TypeElderlyDisabledAssistance,
	TypeMedicalAssistance,
	TypeOrphanEducationAssistance,
}

var typeLabels = map[ActivityType]string{
	TypeCommunityService:          "社区服务",
	TypeCultureService:            "文化服务",
	TypeEmergencyRescue:           "应急救援",
	TypeAnimalProtection:          "动物保护",
	TypePovertyAssistance:         "扶贫助困",
	TypeElderlyDisabledAssistance: "扶老助残",
	TypeMedicalAssistance:         "慰病助医",
	TypeOrphanEducationAssistance: "救孤助学",
}

func (t ActivityType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Activity mirrors the backend activity document. The backend is not
// consistent about the casing of a few fields, so all observed spellings of
// the attachment list are accepted; use Files to read them.
type Activity struct {
	ID                  string         `json:"id"`
	Functionary         string         `json:"functionary"`
	Name                string         `json:"name"`
	Type                ActivityType   `json:"type"`
	Description         string         `json:"description"`
	EnrollmentStartTime string         `json:"EnrollmentStartTime"`
	EnrollmentEndTime   string         `json:"EnrollmentEndTime"`
	StartTime           string         `json:"startTime"`
	ExpectedEndTime     string         `json:"expectedEndTime"`
	EndTime             string         `json:"endTime"`
	CoverImage          string         `json:"CoverImage"`
	MaxParticipants     int            `json:"maxParticipants"`
	AttachmentLegacy    []string       `json:"Attachment,omitempty"`
	Attachment          []string       `json:"attachment,omitempty"`
	Attachments         []string       `json:"attachments,omitempty"`
	Participants        []string       `json:"participants"`
	Status              ActivityStatus `json:"status"`
	IsFull              bool           `json:"isFull"`
	ReviewReason        string         `json:"reviewReason,omitempty"`
	Duration            float64        `json:"duration"`
	RejectedReason      string         `json:"rejectedReason,omitempty"`
	Imported            bool           `json:"imported,omitempty"`
}

// Files returns the first non-empty attachment list.
func (a *Activity) Files() []string {
	switch {
	case len(a.Attachments) > 0:
		return a.Attachments
	case len(a.Attachment) > 0:
		return a.Attachment
	default:
		return a.AttachmentLegacy
	}
}

// HasParticipant reports whether studentNo is enrolled.
func (a *Activity) HasParticipant(studentNo string) bool {
	for _, p := range a.Participants {
		if p == studentNo {
			return true
		}
	}
	return false
}

// ActivityList is one page of activities.
type ActivityList struct {
	Items    []Activity `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// Find returns the activity with the given id, if present on this page.
func (l *ActivityList) Find(id string) (*Activity, bool) {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i], true
		}
	}
	return nil, false
}
