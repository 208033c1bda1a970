package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gartstein/employees/internal/employee/auth"
	e "github.com/gartstein/employees/internal/employee/errors"
	"github.com/gartstein/employees/internal/employee/form"
	"github.com/gartstein/employees/internal/employee/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const listPath = "/employee/list"

// EmployeeService defines the business logic interface
// that the HTTP handlers will invoke.
type EmployeeService interface {
	ListAll(ctx context.Context) ([]models.Employee, error)
	GetByID(ctx context.Context, id int) (*models.Employee, error)
	SearchByName(ctx context.Context, name string) ([]models.Employee, error)
	UpdateDependents(ctx context.Context, id int, count int) error
}

// EmployeeHandler serves the employee pages, mapping requests to an
// EmployeeService and choosing the view to render.
type EmployeeHandler struct {
	service EmployeeService
	views   *Renderer
	logger  *zap.Logger
}

// NewEmployeeHandler constructs a new EmployeeHandler with the given service, renderer and logger.
func NewEmployeeHandler(service EmployeeService, views *Renderer, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		views:   views,
		logger:  logger.Named("http_handler"),
	}
}

// Routes mounts the handlers below /employee.
func (h *EmployeeHandler) Routes(r chi.Router) {
	r.Get("/list", h.ShowList)
	r.Post("/search", h.Search)
	r.Get("/detail", h.ShowDetail)
	r.Post("/update", h.Update)
}

// ShowList renders every employee.
func (h *EmployeeHandler) ShowList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.ListAll(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, viewList, ListView{
		AdminName: auth.AdminName(r.Context()),
		Employees: employees,
	})
}

// Search renders the employees whose name contains search_name. An empty
// result renders an empty list, not the unfiltered one.
func (h *EmployeeHandler) Search(w http.ResponseWriter, r *http.Request) {
	searchName := strings.TrimSpace(r.PostFormValue("search_name"))

	employees, err := h.service.SearchByName(r.Context(), searchName)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, viewList, ListView{
		AdminName:  auth.AdminName(r.Context()),
		Employees:  employees,
		SearchName: searchName,
		Searched:   true,
		NoResults:  len(employees) == 0,
	})
}

// ShowDetail renders one employee together with the update form.
func (h *EmployeeHandler) ShowDetail(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil {
		h.renderError(w, r, fmt.Errorf("%w: id %q is not an integer", e.ErrInvalidInput, rawID))
		return
	}

	h.renderDetail(w, r, http.StatusOK, id, nil, nil)
}

// Update validates the form, stores the new dependents count and redirects
// to the list. Invalid counts re-render the detail page of the same employee.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	rawID := r.PostFormValue(form.FieldID)
	rawCount := r.PostFormValue(form.FieldDependentsCount)

	req, errs := form.Parse(rawID, rawCount)
	if errs.HasErrors() {
		if errs.For(form.FieldID) != "" {
			h.renderError(w, r, fmt.Errorf("%w: %s", e.ErrInvalidInput, errs.Error()))
			return
		}
		id, _ := strconv.Atoi(strings.TrimSpace(rawID))
		h.logger.Info("Rejected dependents update",
			zap.Int("employee_id", id),
			zap.String("errors", errs.Error()),
		)
		h.renderDetail(w, r, http.StatusBadRequest, id, &DetailForm{ID: rawID, DependentsCount: rawCount}, errs)
		return
	}

	if err := h.service.UpdateDependents(r.Context(), req.ID, req.DependentsCount); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.logger.Info("Dependents updated",
		zap.Int("employee_id", req.ID),
		zap.Int("dependents_count", req.DependentsCount),
	)
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

// renderDetail loads the employee and renders the detail page. A nil form
// is filled from the stored record.
func (h *EmployeeHandler) renderDetail(w http.ResponseWriter, r *http.Request, status int, id int, f *DetailForm, errs form.ValidationErrors) {
	employee, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if f == nil {
		f = &DetailForm{
			ID:              strconv.Itoa(employee.ID),
			DependentsCount: strconv.Itoa(employee.DependentsCount),
		}
	}

	h.render(w, r, status, viewDetail, DetailView{
		AdminName: auth.AdminName(r.Context()),
		Employee:  employee,
		Form:      *f,
		Errors:    errs,
	})
}

func (h *EmployeeHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := h.mapServiceError(err)
	h.render(w, r, status, viewError, ErrorView{
		AdminName: auth.AdminName(r.Context()),
		Status:    status,
		Message:   msg,
	})
}

func (h *EmployeeHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.views.Render(w, status, name, data); err != nil {
		h.logger.Error("Failed to render view",
			zap.Error(err),
			zap.String("view", name),
			zap.String("path", r.URL.Path),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
