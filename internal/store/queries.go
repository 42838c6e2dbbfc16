// internal/store/queries.go
package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"jobtrack-back/internal/models"
)

// JobStats is the per-user application summary, keyed exactly like the
// status enum, lower-cased.
type JobStats struct {
	Total        int64 `json:"total"`
	Applied      int64 `json:"applied"`
	Ghosted      int64 `json:"ghosted"`
	Interviewing int64 `json:"interviewing"`
	Assessment   int64 `json:"assessment"`
	Offered      int64 `json:"offered"`
}

// InterviewStats summarizes a user's interviews. SuccessRate is a
// placeholder until outcomes are recorded.
type InterviewStats struct {
	Upcoming    int64  `json:"upcoming"`
	Completed   int64  `json:"completed"`
	Total       int64  `json:"total"`
	SuccessRate string `json:"success_rate"`
}

// InterviewView is an interview joined with its parent's company/position
// for listing.
type InterviewView struct {
	ID       uint   `json:"id"`
	Company  string `json:"company"`
	Position string `json:"position"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
}

// GetJobStats counts the user's applications grouped by status.
func (db Database) GetJobStats(userID uint) (*JobStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := db.orm.Model(&models.JobApplication{}).
		Select("status, count(id) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute job stats: %w", err)
	}

	stats := &JobStats{}
	for _, r := range rows {
		stats.Total += r.Count
		switch r.Status {
		case models.StatusApplied:
			stats.Applied = r.Count
		case models.StatusGhosted:
			stats.Ghosted = r.Count
		case models.StatusInterviewing:
			stats.Interviewing = r.Count
		case models.StatusAssessment:
			stats.Assessment = r.Count
		case models.StatusOffered:
			stats.Offered = r.Count
		}
	}
	return stats, nil
}

// RecentApplications lists all of the user's applications, most recent
// applied_date first, each enriched with its first interview.
func (db Database) RecentApplications(userID uint) ([]ApplicationView, error) {
	var apps []models.JobApplication
	err := db.orm.Where("user_id = ?", userID).
		Order("applied_date DESC, id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		v, err := db.view(&apps[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// UpcomingInterviews lists the user's interviews dated today or later,
// soonest first, capped at limit.
func (db Database) UpcomingInterviews(userID uint, limit int) ([]InterviewView, error) {
	var views []InterviewView
	err := db.orm.Model(&models.Interview{}).
		Select("interviews.id, job_applications.company, job_applications.position, interviews.date, interviews.time, interviews.type").
		Joins("JOIN job_applications ON job_applications.id = interviews.job_application_id").
		Where("job_applications.user_id = ? AND interviews.date >= ?", userID, db.today()).
		Order("interviews.date, interviews.time").
		Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming interviews: %w", err)
	}
	return views, nil
}

// GetInterviewStats counts the user's upcoming interviews, those completed
// within the last 30 days, and the overall total.
func (db Database) GetInterviewStats(userID uint) (*InterviewStats, error) {
	today := db.today()
	cutoff, err := time.Parse(models.DateLayout, today)
	if err != nil {
		return nil, fmt.Errorf("failed to parse today: %w", err)
	}
	windowStart := cutoff.AddDate(0, 0, -30).Format(models.DateLayout)

	base := func() *gorm.DB {
		return db.orm.Model(&models.Interview{}).
			Joins("JOIN job_applications ON job_applications.id = interviews.job_application_id").
			Where("job_applications.user_id = ?", userID)
	}

	stats := &InterviewStats{SuccessRate: "0%"}
	if err := base().Where("interviews.date >= ?", today).Count(&stats.Upcoming).Error; err != nil {
		return nil, fmt.Errorf("failed to count upcoming interviews: %w", err)
	}
	if err := base().Where("interviews.date >= ? AND interviews.date < ?", windowStart, today).
		Count(&stats.Completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed interviews: %w", err)
	}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count interviews: %w", err)
	}
	return stats, nil
}
