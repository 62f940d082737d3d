package domain

type MonitorOverview struct {
	TotalUsers          int     `json:"totalUsers"`
	TotalActivities     int     `json:"totalActivities"`
	TotalDuration       float64 `json:"totalDuration"`
	TotalParticipants   int     `json:"totalParticipants"`
	CompletedActivities int     `json:"completedActivities"`
	AverageDuration     float64 `json:"averageDuration"`
	NewActivities       int     `json:"newActivities"`
	ActiveUsers         int     `json:"activeUsers"`
}

type ClassificationStat struct {
	Name          string  `json:"name"`
	UserCount     int     `json:"userCount"`
	ActivityCount int     `json:"activityCount"`
	TotalHours    float64 `json:"totalHours"`
	AverageHours  float64 `json:"averageHours"`
}

type ClassificationStats struct {
	ByGrade   []ClassificationStat `json:"byGrade"`
	ByCollege []ClassificationStat `json:"byCollege"`
	ByClazz   []ClassificationStat `json:"byClazz"`
}

type ActivityTypeDist struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type TopUser struct {
	Rank      int     `json:"rank"`
	StudentNo string  `json:"studentNo"`
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
}

// Dashboard is the aggregate payload behind the monitoring page.
type Dashboard struct {
	Overview            MonitorOverview     `json:"overview"`
	ClassificationStats ClassificationStats `json:"classificationStats"`
	ActivityTypes       []ActivityTypeDist  `json:"activityTypes"`
	TopUsers            []TopUser           `json:"topUsers"`
	GrowthRanking       []TopUser           `json:"growthRanking"`
}

// FilterOptions are the distinct affiliation values known to the backend.
type FilterOptions struct {
	Colleges []string `json:"colleges"`
	Grades   []string `json:"grades"`
	Clazzes  []string `json:"clazzes"`
}

type UserStatItem struct {
	StudentNo     string  `json:"studentNo"`
	Name          string  `json:"name"`
	College       string  `json:"college"`
	Grade         string  `json:"grade"`
	Clazz         string  `json:"clazz"`
	TotalDuration float64 `json:"totalDuration"`
	ActivityCount int     `json:"activityCount"`
	Rank          int     `json:"rank"`
}

type UserStats struct {
	Total   int64          `json:"total"`
	Records []UserStatItem `json:"records"`
}
