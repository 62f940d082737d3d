package domain

type SuggestionStatus string

const (
	SuggestionPending SuggestionStatus = "PENDING"
	SuggestionReplied SuggestionStatus = "REPLIED"
)

type Suggestion struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	CreateTime   string           `json:"createTime"`
	Status       SuggestionStatus `json:"status"`
	ReplyContent string           `json:"replyContent,omitempty"`
	ReplyTime    string           `json:"replyTime,omitempty"`
	StudentNo    string           `json:"studentNo,omitempty"`
	Username     string           `json:"username,omitempty"`
}

type SuggestionList struct {
	Items []Suggestion `json:"items"`
	Total int64        `json:"total"`
}
