// internal/store/store.go
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobtrack-back/internal/models"
)

// Sentinel errors for the client-visible failure taxonomy. ErrNotFound is
// returned both when an id does not exist and when it belongs to another
// user; callers must not be able to tell the two apart.
var (
	ErrNotFound  = errors.New("application not found")
	ErrDuplicate = errors.New("a live application for this company and position already exists")
)

// ValidationError marks input the caller can fix (missing field, bad enum
// value, malformed date).
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Database wraps the gorm handle. Every method takes the owning user's id
// and scopes all reads and writes by it; there is no unscoped entry point.
type Database struct {
	orm   *gorm.DB
	today func() string
}

func NewDatabase(orm *gorm.DB) Database {
	return Database{orm: orm, today: models.Today}
}

// ApplicationInput carries the client-supplied fields for a create. The
// owner id is never part of it.
type ApplicationInput struct {
	Company        string `json:"company"`
	Position       string `json:"position"`
	AppliedDate    string `json:"applied_date"`
	Status         string `json:"status"`
	JobDescription string `json:"job_description"`
	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
	CompanyWebsite string `json:"company_website"`
	Notes          string `json:"notes"`
	Resume         string `json:"-"`

	InterviewDate string `json:"interview_date"`
	InterviewTime string `json:"interview_time"`
	InterviewType string `json:"interview_type"`
}

// ApplicationUpdate carries a partial update; nil fields are left unchanged.
type ApplicationUpdate struct {
	Company        *string `json:"company"`
	Position       *string `json:"position"`
	AppliedDate    *string `json:"applied_date"`
	Status         *string `json:"status"`
	JobDescription *string `json:"job_description"`
	ContactEmail   *string `json:"contact_email"`
	ContactPhone   *string `json:"contact_phone"`
	CompanyWebsite *string `json:"company_website"`
	Notes          *string `json:"notes"`

	InterviewDate *string `json:"interview_date"`
	InterviewTime *string `json:"interview_time"`
	InterviewType *string `json:"interview_type"`
}

// ApplicationView is an application enriched with its first interview's
// fields, null when the application has no interview.
type ApplicationView struct {
	models.JobApplication
	InterviewDate *string `json:"interview_date"`
	InterviewTime *string `json:"interview_time"`
	InterviewType *string `json:"interview_type"`
}

// CreateApplication validates the input, persists the application and, when
// the status is Interviewing and an interview date was supplied, the derived
// Interview row, all in one transaction.
func (db Database) CreateApplication(userID uint, in ApplicationInput) (*ApplicationView, error) {
	if in.Company == "" {
		return nil, validationErrorf("company is required")
	}
	if in.Position == "" {
		return nil, validationErrorf("position is required")
	}

	status := in.Status
	if status == "" {
		status = models.StatusApplied
	}
	status, err := models.CanonicalStatus(status)
	if err != nil {
		return nil, validationErrorf("%v", err)
	}

	appliedDate := in.AppliedDate
	if appliedDate == "" {
		appliedDate = db.today()
	}
	if err := models.ValidateDate(appliedDate); err != nil {
		return nil, validationErrorf("applied_date: %v", err)
	}

	interview, err := buildInterviewInput(status, in.InterviewDate, in.InterviewTime, in.InterviewType)
	if err != nil {
		return nil, err
	}

	app := models.JobApplication{
		UserID:         userID,
		Company:        in.Company,
		Position:       in.Position,
		AppliedDate:    appliedDate,
		Status:         status,
		Resume:         in.Resume,
		JobDescription: in.JobDescription,
		ContactEmail:   in.ContactEmail,
		ContactPhone:   in.ContactPhone,
		CompanyWebsite: in.CompanyWebsite,
		Notes:          in.Notes,
	}

	err = db.orm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&app).Error; err != nil {
			return err
		}
		if interview != nil {
			interview.JobApplicationID = app.ID
			if err := tx.Create(interview).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return db.view(&app)
}

// UpdateApplication applies a partial update to an owned application and
// re-synchronizes its Interview row. The owner is never changed: the row is
// loaded scoped to userID and saved with the same owner. A non-Interviewing
// status never touches existing Interview rows.
func (db Database) UpdateApplication(userID, id uint, in ApplicationUpdate) (*ApplicationView, error) {
	if in.Company != nil && *in.Company == "" {
		return nil, validationErrorf("company is required")
	}
	if in.Position != nil && *in.Position == "" {
		return nil, validationErrorf("position is required")
	}
	if in.AppliedDate != nil {
		if err := models.ValidateDate(*in.AppliedDate); err != nil {
			return nil, validationErrorf("applied_date: %v", err)
		}
	}

	var status string
	if in.Status != nil {
		s, err := models.CanonicalStatus(*in.Status)
		if err != nil {
			return nil, validationErrorf("%v", err)
		}
		status = s
	}

	if in.InterviewDate != nil && *in.InterviewDate != "" {
		if err := models.ValidateDate(*in.InterviewDate); err != nil {
			return nil, validationErrorf("interview_date: %v", err)
		}
	}
	if in.InterviewTime != nil && *in.InterviewTime != "" {
		if err := models.ValidateTime(*in.InterviewTime); err != nil {
			return nil, validationErrorf("interview_time: %v", err)
		}
	}
	var interviewType string
	if in.InterviewType != nil && *in.InterviewType != "" {
		t, err := models.CanonicalInterviewType(*in.InterviewType)
		if err != nil {
			return nil, validationErrorf("%v", err)
		}
		interviewType = t
	}

	var app models.JobApplication
	err := db.orm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&app).Error; err != nil {
			return err
		}

		if in.Company != nil {
			app.Company = *in.Company
		}
		if in.Position != nil {
			app.Position = *in.Position
		}
		if in.AppliedDate != nil {
			app.AppliedDate = *in.AppliedDate
		}
		if status != "" {
			app.Status = status
		}
		if in.JobDescription != nil {
			app.JobDescription = *in.JobDescription
		}
		if in.ContactEmail != nil {
			app.ContactEmail = *in.ContactEmail
		}
		if in.ContactPhone != nil {
			app.ContactPhone = *in.ContactPhone
		}
		if in.CompanyWebsite != nil {
			app.CompanyWebsite = *in.CompanyWebsite
		}
		if in.Notes != nil {
			app.Notes = *in.Notes
		}
		app.UserID = userID

		if err := tx.Save(&app).Error; err != nil {
			return err
		}

		if app.Status != models.StatusInterviewing {
			return nil
		}
		if in.InterviewDate == nil || *in.InterviewDate == "" {
			return nil
		}

		var existing models.Interview
		err := tx.Where("job_application_id = ?", app.ID).Order("id").First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			iv := models.Interview{
				JobApplicationID: app.ID,
				Date:             *in.InterviewDate,
				Time:             "10:00",
				Type:             models.InterviewTechnical,
			}
			if in.InterviewTime != nil && *in.InterviewTime != "" {
				iv.Time = *in.InterviewTime
			}
			if interviewType != "" {
				iv.Type = interviewType
			}
			return tx.Create(&iv).Error
		case err != nil:
			return err
		default:
			existing.Date = *in.InterviewDate
			if in.InterviewTime != nil && *in.InterviewTime != "" {
				existing.Time = *in.InterviewTime
			}
			if interviewType != "" {
				existing.Type = interviewType
			}
			return tx.Save(&existing).Error
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	return db.view(&app)
}

// GetApplication fetches an owned application with its first-interview
// fields.
func (db Database) GetApplication(userID, id uint) (*ApplicationView, error) {
	var app models.JobApplication
	if err := db.orm.Where("id = ? AND user_id = ?", id, userID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	return db.view(&app)
}

// DeleteApplication removes an owned application and all of its interviews.
func (db Database) DeleteApplication(userID, id uint) error {
	err := db.orm.Transaction(func(tx *gorm.DB) error {
		var app models.JobApplication
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&app).Error; err != nil {
			return err
		}
		if err := tx.Where("job_application_id = ?", app.ID).Delete(&models.Interview{}).Error; err != nil {
			return err
		}
		return tx.Delete(&app).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}

// GetUser fetches a user by id.
func (db Database) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := db.orm.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// buildInterviewInput validates the optional interview fields and decides
// whether a create materializes an Interview row. status must already be
// canonical.
func buildInterviewInput(status, date, timeOfDay, interviewType string) (*models.Interview, error) {
	if date != "" {
		if err := models.ValidateDate(date); err != nil {
			return nil, validationErrorf("interview_date: %v", err)
		}
	}
	if timeOfDay != "" {
		if err := models.ValidateTime(timeOfDay); err != nil {
			return nil, validationErrorf("interview_time: %v", err)
		}
	}
	if interviewType != "" {
		t, err := models.CanonicalInterviewType(interviewType)
		if err != nil {
			return nil, validationErrorf("%v", err)
		}
		interviewType = t
	}

	if status != models.StatusInterviewing || date == "" {
		return nil, nil
	}

	iv := &models.Interview{
		Date: date,
		Time: timeOfDay,
		Type: interviewType,
	}
	if iv.Time == "" {
		iv.Time = "10:00"
	}
	if iv.Type == "" {
		iv.Type = models.InterviewTechnical
	}
	return iv, nil
}

// firstInterview returns the application's first interview by insertion
// order (lowest id), or nil when none exists. Multiple interviews per
// application are structurally allowed; summaries consult only this one.
func (db Database) firstInterview(appID uint) (*models.Interview, error) {
	var iv models.Interview
	err := db.orm.Where("job_application_id = ?", appID).Order("id").First(&iv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

func (db Database) view(app *models.JobApplication) (*ApplicationView, error) {
	v := &ApplicationView{JobApplication: *app}
	iv, err := db.firstInterview(app.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interview: %w", err)
	}
	if iv != nil {
		v.InterviewDate = &iv.Date
		v.InterviewTime = &iv.Time
		v.InterviewType = &iv.Type
	}
	return v, nil
}
