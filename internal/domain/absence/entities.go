package absence

import (
	"time"

	"gorm.io/gorm"

	"github.com/channor/open-manage/internal/domain/user"
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
)

func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusDenied:
		return true
	}
	return false
}

// Table: absence_types
type AbsenceType struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"id"`
	Name      string         `gorm:"size:191;not null" json:"name"`
	HasHours  bool           `gorm:"column:has_hours;not null;default:false" json:"has_hours"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AbsenceType) TableName() string { return "absence_types" }

// Table: absences
type Absence struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex)
	AbsenceID            string         `gorm:"column:absence_id;type:char(32);not null;uniqueIndex:ux_absences_absence_id" json:"absence_id"`
	PersonID             uint64         `gorm:"column:person_id;not null;index:idx_absences_person" json:"person_id"`
	AbsenceTypeID        uint64         `gorm:"column:absence_type_id;not null;index" json:"absence_type_id"`
	AbsenceType          *AbsenceType   `gorm:"foreignKey:AbsenceTypeID" json:"absence_type,omitempty"`
	StartDate            time.Time      `gorm:"column:start_date;not null" json:"start_date"`
	EndDate              *time.Time     `gorm:"column:end_date" json:"end_date"`
	EstimatedEndDate     *time.Time     `gorm:"column:estimated_end_date" json:"estimated_end_date"`
	Status               Status         `gorm:"column:status;type:varchar(20);not null;default:'requested';index" json:"status"`
	IsMedicallyCertified bool           `gorm:"column:is_medically_certified;not null;default:false" json:"is_medically_certified"`
	Occupational         bool           `gorm:"column:occupational;not null;default:false" json:"occupational"`
	IsPaid               bool           `gorm:"column:is_paid;not null;default:false" json:"is_paid"`
	ApprovedBy           *uint64        `gorm:"column:approved_by" json:"approved_by"`
	ApprovedAt           *time.Time     `gorm:"column:approved_at" json:"approved_at"`
	Notes                string         `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Absence) TableName() string { return "absences" }

// NormalizeDates forces UTC midnight of the calendar day seen in each present
// timestamp's own zone when the type is full-day only. It must run before each
// save; UTC midnight input is returned unchanged.
func (a *Absence) NormalizeDates(t AbsenceType) {
	if t.HasHours {
		return
	}
	a.StartDate = midnight(a.StartDate)
	if a.EndDate != nil {
		d := midnight(*a.EndDate)
		a.EndDate = &d
	}
	if a.EstimatedEndDate != nil {
		d := midnight(*a.EstimatedEndDate)
		a.EstimatedEndDate = &d
	}
}

func midnight(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsOwnedBy reports whether u's linked person requested this absence.
func (a *Absence) IsOwnedBy(u *user.User) bool {
	p := u.LinkedPerson()
	if p == nil {
		return false
	}
	return p.ID == a.PersonID
}

// CanBeManagedBy ignores the record itself; management is a role capability.
func (a *Absence) CanBeManagedBy(u *user.User, p Policy) bool {
	if u == nil || p == nil {
		return false
	}
	return p.CanManageAbsences(u)
}

// Approve moves a requested (or already approved) absence to approved and
// stamps the approver.
func (a *Absence) Approve(by *user.User, at time.Time) error {
	switch a.Status {
	case StatusRequested, StatusApproved:
	default:
		return ErrInvalidTransition
	}
	id := by.ID
	at = at.UTC()
	a.Status = StatusApproved
	a.ApprovedBy = &id
	a.ApprovedAt = &at
	return nil
}

// Deny leaves ApprovedBy/ApprovedAt untouched.
func (a *Absence) Deny() error {
	switch a.Status {
	case StatusRequested, StatusDenied:
	default:
		return ErrInvalidTransition
	}
	a.Status = StatusDenied
	return nil
}
