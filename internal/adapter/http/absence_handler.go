package http

import (
	"net/http"

	"github.com/channor/open-manage/internal/adapter/middleware"
	"github.com/channor/open-manage/internal/usecase/absence"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AbsenceHandler struct {
	uc  *absence.Usecase
	log logrus.FieldLogger
}

func NewAbsenceHandler(uc *absence.Usecase, log logrus.FieldLogger) *AbsenceHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AbsenceHandler{uc: uc, log: log}
}

// Register mounts the absence routes on g. g must already run Auth.
func (h *AbsenceHandler) Register(g *echo.Group) {
	g.GET("/form", h.Form)
	g.POST("", h.Create)
	g.GET("/mine", h.ListMine)
	g.GET("", h.List)
	g.GET("/:absence_id", h.Get)
	g.POST("/:absence_id/approve", h.Approve)
	g.POST("/:absence_id/deny", h.Deny)
}

// person_id and status are accepted so old clients keep working; Create
// overwrites both.
type createAbsenceReq struct {
	AbsenceTypeID        uint64  `json:"absence_type_id"        validate:"required,gt=0"`
	StartDate            string  `json:"start_date"             validate:"required,absdate"`
	EndDate              string  `json:"end_date"               validate:"omitempty,absdate"`
	EstimatedEndDate     string  `json:"estimated_end_date"     validate:"omitempty,absdate"`
	IsMedicallyCertified bool    `json:"is_medically_certified"`
	Occupational         bool    `json:"occupational"`
	IsPaid               bool    `json:"is_paid"`
	Notes                string  `json:"notes"                  validate:"max=5000"`
	PersonID             *uint64 `json:"person_id"`
	Status               string  `json:"status"`
}

type listAbsencesReq struct {
	Status string `query:"status" json:"status" validate:"omitempty,oneof=requested approved denied"`
}

func (h *AbsenceHandler) Form(c echo.Context) error {
	dto, err := h.uc.Form(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AbsenceHandler) Create(c echo.Context) error {
	var req createAbsenceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Create(c.Request().Context(), middleware.Actor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (r createAbsenceReq) toInput() (absence.CreateInput, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return absence.CreateInput{}, err
	}
	end, err := parseOptionalDate(r.EndDate)
	if err != nil {
		return absence.CreateInput{}, err
	}
	estimated, err := parseOptionalDate(r.EstimatedEndDate)
	if err != nil {
		return absence.CreateInput{}, err
	}
	return absence.CreateInput{
		AbsenceTypeID:        r.AbsenceTypeID,
		StartDate:            start,
		EndDate:              end,
		EstimatedEndDate:     estimated,
		IsMedicallyCertified: r.IsMedicallyCertified,
		Occupational:         r.Occupational,
		IsPaid:               r.IsPaid,
		Notes:                r.Notes,
		PersonID:             r.PersonID,
		Status:               r.Status,
	}, nil
}

func (h *AbsenceHandler) ListMine(c echo.Context) error {
	list, err := h.uc.ListMine(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AbsenceHandler) List(c echo.Context) error {
	var req listAbsencesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	list, err := h.uc.ListAll(c.Request().Context(), middleware.Actor(c), req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AbsenceHandler) Get(c echo.Context) error {
	absenceID, ok := absenceIDParam(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "absence not found"})
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.Actor(c), absenceID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AbsenceHandler) Approve(c echo.Context) error {
	absenceID, ok := absenceIDParam(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "absence not found"})
	}
	dto, err := h.uc.Approve(c.Request().Context(), middleware.Actor(c), absenceID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AbsenceHandler) Deny(c echo.Context) error {
	absenceID, ok := absenceIDParam(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "absence not found"})
	}
	dto, err := h.uc.Deny(c.Request().Context(), middleware.Actor(c), absenceID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type absenceIDReq struct {
	AbsenceID string `param:"absence_id" json:"absence_id" validate:"required,hex32"`
}

// absenceIDParam reports false for ids that cannot name an absence.
func absenceIDParam(c echo.Context) (string, bool) {
	var req absenceIDReq
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &req); err != nil {
		return "", false
	}
	if err := c.Validate(&req); err != nil {
		return "", false
	}
	return req.AbsenceID, true
}
