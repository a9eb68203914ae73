package absence

import (
	"time"

	domain "github.com/channor/open-manage/internal/domain/absence"
)

// RequestTitle is shown above the create form.
const RequestTitle = "Request time off"

type CreateInput struct {
	AbsenceTypeID        uint64
	StartDate            time.Time
	EndDate              *time.Time
	EstimatedEndDate     *time.Time
	IsMedicallyCertified bool
	Occupational         bool
	IsPaid               bool
	Notes                string

	// Client-supplied ownership and status; always discarded by Create.
	PersonID *uint64
	Status   string
}

type AbsenceDTO struct {
	AbsenceID            string     `json:"absence_id"`
	PersonID             uint64     `json:"person_id"`
	AbsenceTypeID        uint64     `json:"absence_type_id"`
	AbsenceType          string     `json:"absence_type,omitempty"`
	HasHours             bool       `json:"has_hours"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	EstimatedEndDate     *time.Time `json:"estimated_end_date"`
	Status               string     `json:"status"`
	IsMedicallyCertified bool       `json:"is_medically_certified"`
	Occupational         bool       `json:"occupational"`
	IsPaid               bool       `json:"is_paid"`
	ApprovedBy           *uint64    `json:"approved_by"`
	ApprovedAt           *time.Time `json:"approved_at"`
	Notes                string     `json:"notes"`
	CreatedAt            time.Time  `json:"created_at"`
}

type AbsenceTypeDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	HasHours bool   `json:"has_hours"`
}

type FormDTO struct {
	Title        string           `json:"title"`
	AbsenceTypes []AbsenceTypeDTO `json:"absence_types"`
}

func toDTO(a *domain.Absence) *AbsenceDTO {
	dto := &AbsenceDTO{
		AbsenceID:            a.AbsenceID,
		PersonID:             a.PersonID,
		AbsenceTypeID:        a.AbsenceTypeID,
		StartDate:            a.StartDate,
		EndDate:              a.EndDate,
		EstimatedEndDate:     a.EstimatedEndDate,
		Status:               string(a.Status),
		IsMedicallyCertified: a.IsMedicallyCertified,
		Occupational:         a.Occupational,
		IsPaid:               a.IsPaid,
		ApprovedBy:           a.ApprovedBy,
		ApprovedAt:           a.ApprovedAt,
		Notes:                a.Notes,
		CreatedAt:            a.CreatedAt,
	}
	if a.AbsenceType != nil {
		dto.AbsenceType = a.AbsenceType.Name
		dto.HasHours = a.AbsenceType.HasHours
	}
	return dto
}

func toDTOs(list []domain.Absence) []AbsenceDTO {
	out := make([]AbsenceDTO, 0, len(list))
	for i := range list {
		out = append(out, *toDTO(&list[i]))
	}
	return out
}
