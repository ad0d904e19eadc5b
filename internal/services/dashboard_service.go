package services

import (
	"context"
	"sort"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	dateLayout = "2006-01-02"

	// RecentLimit caps the latest-signup and latest-post listings
	RecentLimit = 5

	recentSignupWindow = 7 * 24 * time.Hour
)

// DashboardService computes read-only aggregates for the admin dashboard
type DashboardService struct {
	users   repositories.UserRepository
	posts   repositories.PostRepository
	reports repositories.ReportRepository
	loc     *time.Location
	now     func() time.Time
}

// NewDashboardService computes day boundaries in loc (UTC when nil)
func NewDashboardService(users repositories.UserRepository, posts repositories.PostRepository, reports repositories.ReportRepository, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		users:   users,
		posts:   posts,
		reports: reports,
		loc:     loc,
		now:     time.Now,
	}
}

// tzName is the timezone argument handed to $dateToString. Config only admits
// IANA names so the offset is resolved per date on the Mongo side.
func (s *DashboardService) tzName() string {
	return s.loc.String()
}

func (s *DashboardService) startOfToday() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// Summary returns the headline counters
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var (
		summary models.DashboardSummary
		err     error
	)

	if summary.UserCount, err = s.users.CountUsers(ctx); err != nil {
		return nil, storeErr("count_users", "User", "", err)
	}

	todayStart := s.startOfToday()
	if summary.ActiveTodayCount, err = s.users.CountLoggedInBetween(ctx, todayStart, todayStart.AddDate(0, 0, 1)); err != nil {
		return nil, storeErr("count_active_today", "User", "", err)
	}

	if summary.PostCount, err = s.posts.CountPosts(ctx); err != nil {
		return nil, storeErr("count_posts", "Post", "", err)
	}

	if summary.CommentCount, err = s.posts.CountComments(ctx); err != nil {
		return nil, storeErr("count_comments", "Post", "", err)
	}

	postReports, err := s.reports.CountReports(ctx, models.ReportKindPost)
	if err != nil {
		return nil, storeErr("count_post_reports", "Report", "", err)
	}
	userReports, err := s.reports.CountReports(ctx, models.ReportKindUser)
	if err != nil {
		return nil, storeErr("count_user_reports", "Report", "", err)
	}
	summary.ReportedContentCount = postReports + userReports

	if summary.RecentSignupCount, err = s.users.CountCreatedSince(ctx, s.now().Add(-recentSignupWindow)); err != nil {
		return nil, storeErr("count_recent_signups", "User", "", err)
	}

	return &summary, nil
}

// DailyCounts is the per-day series for signups or posts; reports have their own
// two-counter series in ReportSeries. Days without events are omitted unless fill
// is set, in which case every day up to today is present.
func (s *DashboardService) DailyCounts(ctx context.Context, metric models.SeriesMetric, fill bool) ([]models.DailyCount, error) {
	var (
		counts []models.DailyCount
		err    error
	)
	tz := s.tzName()

	switch metric {
	case models.SeriesSignups:
		counts, err = s.users.DailySignups(ctx, tz)
	case models.SeriesPosts:
		counts, err = s.posts.DailyPosts(ctx, tz)
	default:
		return nil, models.NewValidationError("unknown series metric: " + string(metric))
	}
	if err != nil {
		return nil, storeErr("daily_"+string(metric), string(metric), "", err)
	}

	if fill {
		counts = s.fillDays(counts)
	}
	return counts, nil
}

// ReportSeries merges the per-day post and user report counts into one row per day.
// A day with only one kind of report carries 0 for the other.
func (s *DashboardService) ReportSeries(ctx context.Context, fill bool) ([]models.DailyReportCount, error) {
	tz := s.tzName()

	postDays, err := s.reports.DailyReports(ctx, models.ReportKindPost, tz)
	if err != nil {
		return nil, storeErr("daily_post_reports", "Report", "", err)
	}
	userDays, err := s.reports.DailyReports(ctx, models.ReportKindUser, tz)
	if err != nil {
		return nil, storeErr("daily_user_reports", "Report", "", err)
	}

	byDate := make(map[string]*models.DailyReportCount, len(postDays)+len(userDays))
	row := func(date string) *models.DailyReportCount {
		r, ok := byDate[date]
		if !ok {
			r = &models.DailyReportCount{Date: date}
			byDate[date] = r
		}
		return r
	}
	for _, d := range postDays {
		row(d.Date).PostReports = d.Count
	}
	for _, d := range userDays {
		row(d.Date).UserReports = d.Count
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	if fill && len(dates) > 0 {
		sort.Strings(dates)
		for _, date := range s.dayRange(dates[0]) {
			row(date)
		}
		dates = dates[:0]
		for date := range byDate {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	out := make([]models.DailyReportCount, 0, len(dates))
	for _, date := range dates {
		out = append(out, *byDate[date])
	}
	return out, nil
}

// fillDays inserts zero rows for every missing day between the first event and today
func (s *DashboardService) fillDays(counts []models.DailyCount) []models.DailyCount {
	if len(counts) == 0 {
		return counts
	}
	have := make(map[string]int64, len(counts))
	for _, c := range counts {
		have[c.Date] = c.Count
	}

	days := s.dayRange(counts[0].Date)
	// Events dated after "today" (clock skew) are kept
	for _, c := range counts {
		if len(days) == 0 || c.Date > days[len(days)-1] {
			days = append(days, c.Date)
		}
	}

	out := make([]models.DailyCount, 0, len(days))
	for _, d := range days {
		out = append(out, models.DailyCount{Date: d, Count: have[d]})
	}
	return out
}

// dayRange lists every date from first through today in the dashboard timezone
func (s *DashboardService) dayRange(first string) []string {
	start, err := time.ParseInLocation(dateLayout, first, s.loc)
	if err != nil {
		return []string{first}
	}
	today := s.startOfToday()

	var days []string
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dateLayout))
	}
	if len(days) == 0 {
		days = append(days, first)
	}
	return days
}

// RecentSignups lists the newest accounts, flattened
func (s *DashboardService) RecentSignups(ctx context.Context, limit int) ([]models.RecentSignup, error) {
	users, err := s.users.RecentUsers(ctx, int64(limit))
	if err != nil {
		return nil, storeErr("recent_users", "User", "", err)
	}

	out := make([]models.RecentSignup, 0, len(users))
	for _, u := range users {
		out = append(out, models.RecentSignup{
			ID:          u.ID.Hex(),
			DisplayName: u.DisplayName,
			Email:       u.Email,
			IsVerified:  u.IsVerified,
			CreatedAt:   u.CreatedAt,
		})
	}
	return out, nil
}

// RecentPosts lists the newest posts flattened with their owner's display name.
// Posts whose owner no longer exists keep an empty owner name.
func (s *DashboardService) RecentPosts(ctx context.Context, limit int) ([]models.RecentPost, error) {
	posts, err := s.posts.RecentPosts(ctx, int64(limit))
	if err != nil {
		return nil, storeErr("recent_posts", "Post", "", err)
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]bool, len(posts))
	for _, p := range posts {
		if !seen[p.User] {
			seen[p.User] = true
			ownerIDs = append(ownerIDs, p.User)
		}
	}
	owners, err := s.users.GetUsersByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, storeErr("recent_post_owners", "User", "", err)
	}
	names := make(map[primitive.ObjectID]string, len(owners))
	for _, u := range owners {
		names[u.ID] = u.DisplayName
	}

	out := make([]models.RecentPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, models.RecentPost{
			ID:           p.ID.Hex(),
			Description:  p.Description,
			Image:        p.Image,
			OwnerID:      p.User.Hex(),
			OwnerName:    names[p.User],
			LikeCount:    len(p.Likes),
			CommentCount: len(p.Comments),
			CreatedAt:    p.CreatedAt,
		})
	}
	return out, nil
}
