package services

import (
	"context"
	"time"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
)

// trendMonths is the length of the monthly hours series.
const trendMonths = 6

var categoryColors = map[string]string{
	models.CaseCategoryCivil:          "#c9a84c",
	models.CaseCategoryCriminal:       "#e05555",
	models.CaseCategoryCommercial:     "#5b8dee",
	models.CaseCategoryLabor:          "#4caf7d",
	models.CaseCategoryFamily:         "#b06bd4",
	models.CaseCategoryTax:            "#f5a623",
	models.CaseCategoryAdministrative: "#70708a",
}

const defaultColor = "#9090a8"

type activityStyle struct {
	icon  string
	color string
}

var activityStyles = map[models.ActivityType]activityStyle{
	models.ActivityCaseCreated:      {"briefcase", "#5b8dee"},
	models.ActivityCaseUpdated:      {"briefcase", "#5b8dee"},
	models.ActivityCaseClosed:       {"check", "#4caf7d"},
	models.ActivityHearingScheduled: {"gavel", "#e05555"},
	models.ActivityHearingCompleted: {"gavel", "#4caf7d"},
	models.ActivityDocumentUploaded: {"file", "#5b8dee"},
	models.ActivityDocumentDeleted:  {"trash", "#e05555"},
	models.ActivityTimeEntryAdded:   {"clock", "#c9a84c"},
	models.ActivityClientAdded:      {"users", "#b06bd4"},
	models.ActivityLawyerAdded:      {"users", "#b06bd4"},
	models.ActivityUserLogin:        {"user", "#70708a"},
	models.ActivityUserLogout:       {"user", "#70708a"},
}

// CategoryColor maps a case category to its chart color.
func CategoryColor(category string) string {
	if color, ok := categoryColors[category]; ok {
		return color
	}
	return defaultColor
}

// CategoryCount is one slice of the cases-by-category chart.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

func categoryCounts(rows []repositories.GroupCount) []CategoryCount {
	out := make([]CategoryCount, len(rows))
	for i, row := range rows {
		out[i] = CategoryCount{Name: row.Key, Value: row.Count, Color: CategoryColor(row.Key)}
	}
	return out
}

// DashboardStats are the headline counters.
type DashboardStats struct {
	Cases struct {
		Total           int64 `json:"total"`
		Active          int64 `json:"active"`
		Urgent          int64 `json:"urgent"`
		ClosedThisMonth int64 `json:"closedThisMonth"`
	} `json:"cases"`
	Lawyers struct {
		Active int64 `json:"active"`
	} `json:"lawyers"`
	Hours struct {
		Monthly   float64 `json:"monthly"`
		LastMonth float64 `json:"lastMonth"`
		Change    float64 `json:"change"`
	} `json:"hours"`
	Hearings struct {
		Monthly  int64 `json:"monthly"`
		Upcoming int64 `json:"upcoming"`
	} `json:"hearings"`
}

// MonthlyHours is one bucket of the billable hours trend.
type MonthlyHours struct {
	Label  string  `json:"label"`
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Hours  float64 `json:"hours"`
	Target int     `json:"target"`
}

// ActivityItem is an activity formatted for the feed.
type ActivityItem struct {
	ID        string              `json:"id"`
	Type      models.ActivityType `json:"type"`
	Icon      string              `json:"icon"`
	Color     string              `json:"color"`
	Text      string              `json:"text"`
	User      string              `json:"user"`
	Time      string              `json:"time"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Dashboard bundles every widget of the home screen.
type Dashboard struct {
	Stats            *DashboardStats  `json:"stats"`
	CasesByCategory  []CategoryCount  `json:"casesByCategory"`
	MonthlyHours     []MonthlyHours   `json:"monthlyHours"`
	RecentCases      []models.Case    `json:"recentCases"`
	UpcomingHearings []models.Hearing `json:"upcomingHearings"`
	RecentActivity   []ActivityItem   `json:"recentActivity"`
}

// DashboardService computes read-only rollups straight from the tables.
type DashboardService struct {
	clock
	repos        *repositories.Repositories
	hoursTarget  int
	widgetLimit  int
	activityFeed int
}

func NewDashboardService(repos *repositories.Repositories, monthlyHoursTarget int) *DashboardService {
	return &DashboardService{repos: repos, hoursTarget: monthlyHoursTarget, widgetLimit: 5, activityFeed: 5}
}

func (s *DashboardService) Full(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	var err error

	if d.Stats, err = s.Stats(ctx); err != nil {
		return nil, err
	}
	if d.CasesByCategory, err = s.CasesByCategory(ctx); err != nil {
		return nil, err
	}
	if d.MonthlyHours, err = s.MonthlyHours(ctx, s.hoursTarget); err != nil {
		return nil, err
	}
	if d.RecentCases, err = s.RecentCases(ctx, s.widgetLimit); err != nil {
		return nil, err
	}
	if d.UpcomingHearings, err = s.UpcomingHearings(ctx, s.widgetLimit); err != nil {
		return nil, err
	}
	if d.RecentActivity, err = s.RecentActivity(ctx, s.activityFeed); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	thisMonth := monthStart(now, 0)
	lastMonth := monthStart(now, -1)
	nextMonth := monthStart(now, 1)

	var stats DashboardStats
	var err error
	cases := s.repos.Cases

	if stats.Cases.Total, err = cases.Count(ctx, repositories.CaseFilter{ExcludeStatus: models.CaseStatusArchived}); err != nil {
		return nil, err
	}
	if stats.Cases.Active, err = cases.Count(ctx, repositories.CaseFilter{Statuses: models.ActiveCaseStatuses}); err != nil {
		return nil, err
	}
	if stats.Cases.Urgent, err = cases.Count(ctx, repositories.CaseFilter{Status: models.CaseStatusUrgent}); err != nil {
		return nil, err
	}
	stats.Cases.ClosedThisMonth, err = cases.Count(ctx, repositories.CaseFilter{
		Status:      models.CaseStatusClosed,
		EndDateFrom: models.FormatDate(thisMonth),
	})
	if err != nil {
		return nil, err
	}

	if stats.Lawyers.Active, err = s.repos.Lawyers.CountActive(ctx); err != nil {
		return nil, err
	}

	current, err := s.repos.TimeEntries.BillableHoursBetween(ctx, models.FormatDate(thisMonth), models.FormatDate(nextMonth))
	if err != nil {
		return nil, err
	}
	previous, err := s.repos.TimeEntries.BillableHoursBetween(ctx, models.FormatDate(lastMonth), models.FormatDate(thisMonth))
	if err != nil {
		return nil, err
	}
	stats.Hours.Monthly = round1(current)
	stats.Hours.LastMonth = round1(previous)
	stats.Hours.Change = PercentChange(current, previous)

	if stats.Hearings.Monthly, err = s.repos.Hearings.CountPending(ctx, thisMonth, nextMonth); err != nil {
		return nil, err
	}
	if stats.Hearings.Upcoming, err = s.repos.Hearings.CountPending(ctx, now, now.AddDate(0, 0, 7)); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PercentChange compares current to previous with one decimal; 0 when
// there is nothing to compare against.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return round1((current - previous) / previous * 100)
}

func (s *DashboardService) CasesByCategory(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.repos.Cases.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	return categoryCounts(rows), nil
}

// MonthlyHours sums billable hours for the last six calendar months, the
// current partial month last.
func (s *DashboardService) MonthlyHours(ctx context.Context, target int) ([]MonthlyHours, error) {
	if target <= 0 {
		target = s.hoursTarget
	}
	now := s.now()
	series := make([]MonthlyHours, 0, trendMonths)
	for offset := -(trendMonths - 1); offset <= 0; offset++ {
		from := monthStart(now, offset)
		to := monthStart(now, offset+1)
		hours, err := s.repos.TimeEntries.BillableHoursBetween(ctx, models.FormatDate(from), models.FormatDate(to))
		if err != nil {
			return nil, err
		}
		series = append(series, MonthlyHours{
			Label:  MonthLabel(ctx, from.Month()),
			Year:   from.Year(),
			Month:  int(from.Month()),
			Hours:  round1(hours),
			Target: target,
		})
	}
	return series, nil
}

func (s *DashboardService) RecentCases(ctx context.Context, limit int) ([]models.Case, error) {
	return s.repos.Cases.Recent(ctx, limit)
}

func (s *DashboardService) UpcomingHearings(ctx context.Context, limit int) ([]models.Hearing, error) {
	return s.repos.Hearings.Upcoming(ctx, s.now(), limit)
}

func (s *DashboardService) RecentActivity(ctx context.Context, limit int) ([]ActivityItem, error) {
	activities, err := s.repos.Activities.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]ActivityItem, len(activities))
	for i, a := range activities {
		style, ok := activityStyles[a.Type]
		if !ok {
			style = activityStyle{"info", defaultColor}
		}
		user := "Sistema"
		if a.User != nil {
			user = a.User.Name
		}
		items[i] = ActivityItem{
			ID:        a.ID,
			Type:      a.Type,
			Icon:      style.icon,
			Color:     style.color,
			Text:      a.Description,
			User:      user,
			Time:      RelativeTime(ctx, a.CreatedAt, now),
			CreatedAt: a.CreatedAt,
		}
	}
	return items, nil
}

// Activities pages through the full activity log.
func (s *DashboardService) Activities(ctx context.Context, filter repositories.ActivityFilter, page repositories.Page) ([]models.Activity, int64, error) {
	return s.repos.Activities.List(ctx, filter, page)
}
