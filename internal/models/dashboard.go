package models

import "time"

// DashboardSummary is the headline counters block of the admin dashboard
type DashboardSummary struct {
	UserCount            int64 `json:"userCount"`
	ActiveTodayCount     int64 `json:"activeTodayCount"`
	PostCount            int64 `json:"postCount"`
	CommentCount         int64 `json:"commentCount"`
	ReportedContentCount int64 `json:"reportedContentCount"`
	RecentSignupCount    int64 `json:"recentSignupCount"`
}

// DailyCount is one calendar day of a single-valued series. Date is YYYY-MM-DD.
type DailyCount struct {
	Date  string `json:"date" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// DailyReportCount merges post and user report counts for one day
type DailyReportCount struct {
	Date        string `json:"date"`
	PostReports int64  `json:"postReports"`
	UserReports int64  `json:"userReports"`
}

// SeriesMetric selects which collection a daily series is computed over
type SeriesMetric string

const (
	SeriesSignups SeriesMetric = "signups"
	SeriesPosts   SeriesMetric = "posts"
)

// RecentSignup is a flattened latest-signup row
type RecentSignup struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecentPost is a flattened latest-post row
type RecentPost struct {
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Image        string    `json:"image,omitempty"`
	OwnerID      string    `json:"ownerId"`
	OwnerName    string    `json:"ownerName"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BanResult is returned by the ban toggle
type BanResult struct {
	ID          string `json:"id"`
	IsBanned    bool   `json:"isBanned"`
	DisplayName string `json:"displayName"`
}
