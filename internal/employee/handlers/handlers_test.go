package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gartstein/employees/internal/employee/auth"
	e "github.com/gartstein/employees/internal/employee/errors"
	"github.com/gartstein/employees/internal/employee/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testSecret = "test-secret"

// mockEmployeeService is a simple mock implementation of EmployeeService.
type mockEmployeeService struct {
	listAllFunc          func(ctx context.Context) ([]models.Employee, error)
	getByIDFunc          func(ctx context.Context, id int) (*models.Employee, error)
	searchByNameFunc     func(ctx context.Context, name string) ([]models.Employee, error)
	updateDependentsFunc func(ctx context.Context, id int, count int) error
}

func (m *mockEmployeeService) ListAll(ctx context.Context) ([]models.Employee, error) {
	return m.listAllFunc(ctx)
}

func (m *mockEmployeeService) GetByID(ctx context.Context, id int) (*models.Employee, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockEmployeeService) SearchByName(ctx context.Context, name string) ([]models.Employee, error) {
	return m.searchByNameFunc(ctx, name)
}

func (m *mockEmployeeService) UpdateDependents(ctx context.Context, id int, count int) error {
	return m.updateDependentsFunc(ctx, id, count)
}

type stubHealth struct {
	err error
}

func (s stubHealth) Ping(context.Context) error { return s.err }

var (
	alice = models.Employee{
		ID:              1,
		Name:            "Alice",
		HireDate:        time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC),
		DependentsCount: 0,
	}
	bob = models.Employee{ID: 2, Name: "Bob", DependentsCount: 2}
)

func newTestRouter(t *testing.T, svc EmployeeService, health HealthChecker) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	views, err := NewRenderer()
	require.NoError(t, err)

	h := NewEmployeeHandler(svc, views, logger)
	return NewRouter(h, health, RouterConfig{
		JWTSecret:      testSecret,
		AdminCookie:    auth.DefaultCookieName,
		RequestTimeout: 5 * time.Second,
	}, logger)
}

func do(t *testing.T, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func getEmployee(employees ...models.Employee) func(context.Context, int) (*models.Employee, error) {
	return func(_ context.Context, id int) (*models.Employee, error) {
		for i := range employees {
			if employees[i].ID == id {
				emp := employees[i]
				return &emp, nil
			}
		}
		return nil, e.ErrNotFound
	}
}

func TestEmployeeHandler_ShowList(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &mockEmployeeService{
			listAllFunc: func(_ context.Context) ([]models.Employee, error) {
				return []models.Employee{alice, bob}, nil
			},
		}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), httptest.NewRequest(http.MethodGet, "/employee/list", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		body := rec.Body.String()
		assert.Contains(t, body, `href="/employee/detail?id=1"`)
		assert.Contains(t, body, "Alice")
		assert.Contains(t, body, "2015-04-01")
		assert.Contains(t, body, "Bob")
		assert.Less(t, strings.Index(body, "Alice"), strings.Index(body, "Bob"))
		assert.NotContains(t, body, "Welcome,")
	})

	t.Run("AdminNameFromCookie", func(t *testing.T) {
		svc := &mockEmployeeService{
			listAllFunc: func(_ context.Context) ([]models.Employee, error) {
				return nil, nil
			},
		}
		token, err := auth.GenerateToken("Hanako", testSecret, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/employee/list", nil)
		req.AddCookie(&http.Cookie{Name: auth.DefaultCookieName, Value: token})
		rec := do(t, newTestRouter(t, svc, stubHealth{}), req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Welcome, Hanako")
	})

	t.Run("ServiceError", func(t *testing.T) {
		svc := &mockEmployeeService{
			listAllFunc: func(_ context.Context) ([]models.Employee, error) {
				return nil, e.NewDataAccessError("find all employees", errors.New("connection refused"))
			},
		}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), httptest.NewRequest(http.MethodGet, "/employee/list", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal server error")
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestEmployeeHandler_Search(t *testing.T) {
	t.Run("Results", func(t *testing.T) {
		var gotName string
		svc := &mockEmployeeService{
			searchByNameFunc: func(_ context.Context, name string) ([]models.Employee, error) {
				gotName = name
				return []models.Employee{alice}, nil
			},
		}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), postForm("/employee/search", url.Values{"search_name": {"  ali "}}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ali", gotName)
		body := rec.Body.String()
		assert.Contains(t, body, "Alice")
		assert.NotContains(t, body, "Bob")
		assert.Contains(t, body, `value="ali"`)
		assert.NotContains(t, body, "No employees matched")
	})

	t.Run("NoResultsShowsEmptyList", func(t *testing.T) {
		svc := &mockEmployeeService{
			searchByNameFunc: func(_ context.Context, _ string) ([]models.Employee, error) {
				return []models.Employee{}, nil
			},
			listAllFunc: func(_ context.Context) ([]models.Employee, error) {
				t.Error("an empty search must not fall back to the full list")
				return []models.Employee{alice, bob}, nil
			},
		}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), postForm("/employee/search", url.Values{"search_name": {"zed"}}))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "No employees matched")
		assert.NotContains(t, body, `class="employee"`)
	})

	t.Run("ServiceError", func(t *testing.T) {
		svc := &mockEmployeeService{
			searchByNameFunc: func(_ context.Context, _ string) ([]models.Employee, error) {
				return nil, errors.New("boom")
			},
		}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), postForm("/employee/search", url.Values{"search_name": {"a"}}))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestEmployeeHandler_ShowDetail(t *testing.T) {
	svc := &mockEmployeeService{getByIDFunc: getEmployee(alice, bob)}
	router := newTestRouter(t, svc, stubHealth{})

	t.Run("Success", func(t *testing.T) {
		rec := do(t, router, httptest.NewRequest(http.MethodGet, "/employee/detail?id=2", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "<h1>Bob</h1>")
		assert.Contains(t, body, `<dd id="dependents-count">2</dd>`)
		assert.Contains(t, body, `name="dependentsCount" value="2"`)
		assert.Contains(t, body, `name="id" value="2"`)
	})

	t.Run("MalformedID", func(t *testing.T) {
		rec := do(t, router, httptest.NewRequest(http.MethodGet, "/employee/detail?id=abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "is not an integer")
	})

	t.Run("MissingID", func(t *testing.T) {
		rec := do(t, router, httptest.NewRequest(http.MethodGet, "/employee/detail", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("IDBeyondColumnRange", func(t *testing.T) {
		rec := do(t, router, httptest.NewRequest(http.MethodGet, "/employee/detail?id=3000000000", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("IDBeyondInt64", func(t *testing.T) {
		rec := do(t, router, httptest.NewRequest(http.MethodGet, "/employee/detail?id=99999999999999999999", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := do(t, router, httptest.NewRequest(http.MethodGet, "/employee/detail?id=999", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "employee not found")
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotID, gotCount int
		svc := &mockEmployeeService{
			updateDependentsFunc: func(_ context.Context, id int, count int) error {
				gotID, gotCount = id, count
				return nil
			},
		}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), postForm("/employee/update", url.Values{
			"id":              {"1"},
			"dependentsCount": {"3"},
		}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/employee/list", rec.Header().Get("Location"))
		assert.Equal(t, 1, gotID)
		assert.Equal(t, 3, gotCount)
	})

	t.Run("NegativeCountRerendersDetail", func(t *testing.T) {
		svc := &mockEmployeeService{
			getByIDFunc: getEmployee(alice),
			updateDependentsFunc: func(_ context.Context, _ int, _ int) error {
				t.Error("UpdateDependents must not be called for invalid input")
				return nil
			},
		}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), postForm("/employee/update", url.Values{
			"id":              {"1"},
			"dependentsCount": {"-1"},
		}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "<h1>Alice</h1>")
		assert.Contains(t, body, "Dependents count must be a non-negative integer")
		assert.Contains(t, body, `name="dependentsCount" value="-1"`)
		assert.Contains(t, body, `<dd id="dependents-count">0</dd>`)
	})

	t.Run("InvalidID", func(t *testing.T) {
		svc := &mockEmployeeService{}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), postForm("/employee/update", url.Values{
			"id":              {"x"},
			"dependentsCount": {"1"},
		}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "must be a positive integer")
	})

	t.Run("InvalidCountForUnknownEmployee", func(t *testing.T) {
		svc := &mockEmployeeService{getByIDFunc: getEmployee(alice)}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), postForm("/employee/update", url.Values{
			"id":              {"999"},
			"dependentsCount": {"-1"},
		}))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := &mockEmployeeService{
			updateDependentsFunc: func(_ context.Context, _ int, _ int) error {
				return e.ErrNotFound
			},
		}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), postForm("/employee/update", url.Values{
			"id":              {"999"},
			"dependentsCount": {"1"},
		}))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("DataAccessError", func(t *testing.T) {
		svc := &mockEmployeeService{
			updateDependentsFunc: func(_ context.Context, _ int, _ int) error {
				return e.NewDataAccessError("update dependents count", errors.New("disk I/O error"))
			},
		}
		rec := do(t, newTestRouter(t, svc, stubHealth{}), postForm("/employee/update", url.Values{
			"id":              {"1"},
			"dependentsCount": {"1"},
		}))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRouter_RootAndHealth(t *testing.T) {
	svc := &mockEmployeeService{}

	rec := do(t, newTestRouter(t, svc, stubHealth{}), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/employee/list", rec.Header().Get("Location"))

	rec = do(t, newTestRouter(t, svc, stubHealth{}), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(t, newTestRouter(t, svc, stubHealth{err: errors.New("down")}), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, newTestRouter(t, svc, stubHealth{}), httptest.NewRequest(http.MethodGet, "/employee/update", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
