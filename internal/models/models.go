// internal/models/models.go
package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DateLayout and TimeLayout are the wire formats for all date/time fields.
// They are stored as strings so that lexicographic ordering matches
// chronological ordering.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Application statuses. Every status except Ghosted is "live" and counts
// toward the per-user (company, position) uniqueness constraint.
const (
	StatusApplied      = "Applied"
	StatusGhosted      = "Ghosted"
	StatusInterviewing = "Interviewing"
	StatusAssessment   = "Assessment"
	StatusOffered      = "Offered"
)

var Statuses = []string{StatusApplied, StatusGhosted, StatusInterviewing, StatusAssessment, StatusOffered}

// Interview types.
const (
	InterviewTechnical    = "Technical"
	InterviewHR           = "HR"
	InterviewBehavioral   = "Behavioral"
	InterviewFinal        = "Final"
	InterviewPhoneScreen  = "Phone Screen"
	InterviewSystemDesign = "System Design"
)

var InterviewTypes = []string{
	InterviewTechnical, InterviewHR, InterviewBehavioral,
	InterviewFinal, InterviewPhoneScreen, InterviewSystemDesign,
}

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	CreatedAt time.Time      `json:"date_joined"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	JobApplications []JobApplication `gorm:"foreignKey:UserID" json:"-"`
}

// JobApplication is one job application owned by exactly one user. The
// partial unique index created in database.MigrateDB keeps a user from
// holding two live applications to the same company+position; a Ghosted
// row does not block re-application.
type JobApplication struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;index:idx_user_applied,priority:1;index:idx_user_status,priority:1" json:"-"`

	Company     string `gorm:"size:100;not null" json:"company"`
	Position    string `gorm:"size:100;not null" json:"position"`
	AppliedDate string `gorm:"size:10;index:idx_user_applied,priority:2" json:"applied_date"`
	Status      string `gorm:"size:20;default:'Applied';index:idx_user_status,priority:2" json:"status"`
	Resume      string `json:"resume,omitempty"`

	JobDescription string `json:"job_description,omitempty"`
	ContactEmail   string `json:"contact_email,omitempty"`
	ContactPhone   string `gorm:"size:20" json:"contact_phone,omitempty"`
	CompanyWebsite string `json:"company_website,omitempty"`
	Notes          string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Interviews []Interview `gorm:"foreignKey:JobApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}

// Interview belongs to exactly one application. It carries no owner column;
// ownership is always derived through the parent application.
type Interview struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	JobApplicationID uint   `gorm:"not null;index:idx_app_date,priority:1" json:"job_application_id"`
	Date             string `gorm:"size:10;index:idx_date_time,priority:1;index:idx_app_date,priority:2" json:"date"`
	Time             string `gorm:"size:5;index:idx_date_time,priority:2" json:"time"`
	Type             string `gorm:"size:20" json:"type"`

	JobApplication JobApplication `gorm:"foreignKey:JobApplicationID" json:"-"`
}

// CanonicalStatus matches s against the status enum case-insensitively and
// returns the canonical form.
func CanonicalStatus(s string) (string, error) {
	for _, v := range Statuses {
		if strings.EqualFold(s, v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// CanonicalInterviewType matches t against the interview type enum
// case-insensitively and returns the canonical form.
func CanonicalInterviewType(t string) (string, error) {
	for _, v := range InterviewTypes {
		if strings.EqualFold(t, v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid interview type %q", t)
}

// ValidateDate checks an ISO-8601 date string (YYYY-MM-DD).
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return nil
}

// ValidateTime checks a 24h clock string (HH:MM).
func ValidateTime(s string) error {
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return nil
}

// Today returns the current date in the wire format.
func Today() string {
	return time.Now().Format(DateLayout)
}
