package patient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/search", h.SearchPatients)
	api.GET("/patients/export", h.ExportPatients)
	api.POST("/patients/import", h.ImportPatients)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var candidate Record
	if err := c.Bind(&candidate); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	stored, err := h.svc.SubmitNewPatient(c.Request().Context(), candidate)
	if err != nil {
		var missing *MissingFieldError
		switch {
		case errors.As(err, &missing), errors.Is(err, ErrInvalidMobile):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrDuplicateMobile):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, stored)
}

type listResponse struct {
	Data    []Record    `json:"data"`
	Summary ListSummary `json:"summary"`
}

func (h *Handler) ListPatients(c echo.Context) error {
	byDate := c.QueryParam("sort") == "date"
	records, summary := h.svc.ListPatients(byDate)
	if records == nil {
		records = []Record{}
	}
	return c.JSON(http.StatusOK, listResponse{Data: records, Summary: summary})
}

func (h *Handler) SearchPatients(c echo.Context) error {
	query := c.QueryParam("q")
	field := SearchField(c.QueryParam("field"))
	if field != SearchByName && field != SearchByMobile {
		field = SearchByName
	}
	records := h.svc.SearchPatients(query, field)
	if records == nil {
		records = []Record{}
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) ExportPatients(c echo.Context) error {
	csv, err := h.svc.ExportCurrentPatients()
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filename := h.svc.ExportFilename(time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

func (h *Handler) ImportPatients(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing csv file upload")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrFileRead.Error())
	}
	defer file.Close()

	summary, err := h.svc.ImportPatientsFromFile(c.Request().Context(), file)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileRead), errors.Is(err, ErrEmptyFile), errors.Is(err, ErrNoValidRecords):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, summary)
}
