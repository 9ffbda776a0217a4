package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fleet-reporting-service/internal/auth"
	"fleet-reporting-service/internal/http/middleware"
	"fleet-reporting-service/internal/model"
	"fleet-reporting-service/internal/repository"
	"fleet-reporting-service/internal/service"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Department{},
		&model.Vehicle{},
		&model.ViolationType{},
		&model.Violation{},
		&model.ServiceProvider{},
		&model.Maintenance{},
		&model.MonthlyFuelSummary{},
	); err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}

	deptID := int64(1)
	if err := db.Create(&model.Department{DepartmentID: deptID, Name: "Logistics"}).Error; err != nil {
		t.Fatalf("seed department: %v", err)
	}
	if err := db.Create(&model.Vehicle{VehicleID: 1, PlateNumber: "A1234", DepartmentID: &deptID, Manager: "Chen"}).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	reportService := service.NewReportService(repository.NewReportRepository(db))
	handler := NewHandler(reportService, zerolog.Nop())
	authMiddleware := middleware.Auth(auth.NewParser(testSecret))
	return NewRouter(handler, authMiddleware, "test")
}

func signToken(t *testing.T) string {
	t.Helper()
	claims := auth.Claims{
		UserID: "u-1",
		Role:   "analyst",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, router http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestHealthzIsPublic(t *testing.T) {
	router := setupRouter(t)

	recorder := doRequest(t, router, "/healthz", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestReportsRequireToken(t *testing.T) {
	router := setupRouter(t)

	recorder := doRequest(t, router, "/reports/fleet", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if _, ok := decodeBody(t, recorder)["error"]; !ok {
		t.Error("expected error payload")
	}

	recorder = doRequest(t, router, "/reports/fleet", "not-a-token")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", recorder.Code)
	}
}

func TestFleetReportResponseShape(t *testing.T) {
	router := setupRouter(t)
	token := signToken(t)

	recorder := doRequest(t, router, "/reports/fleet", token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	body := decodeBody(t, recorder)
	for _, key := range []string{"kpi", "charts", "insight_kpis"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
}

func TestVehicleDetailNotFoundStatus(t *testing.T) {
	router := setupRouter(t)
	token := signToken(t)

	recorder := doRequest(t, router, "/reports/vehicles/Z0000", token)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	if _, ok := decodeBody(t, recorder)["error"]; !ok {
		t.Error("expected error payload")
	}
}

func TestDepartmentDetailUnknownID(t *testing.T) {
	router := setupRouter(t)
	token := signToken(t)

	// Non-numeric and unknown ids both name no department.
	for _, id := range []string{"abc", "404"} {
		recorder := doRequest(t, router, "/reports/departments/"+id, token)
		if recorder.Code != http.StatusNotFound {
			t.Fatalf("id %q: expected 404, got %d", id, recorder.Code)
		}
		if _, ok := decodeBody(t, recorder)["error"]; !ok {
			t.Errorf("id %q: expected error payload", id)
		}
	}
}

func TestVehicleListLenientParams(t *testing.T) {
	router := setupRouter(t)
	token := signToken(t)

	recorder := doRequest(t, router, "/reports/vehicles?page=zero&per_page=-1&sort_by=speed&start_month=bogus&end_month=2024-02", token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("invalid params must not fail the request, got %d: %s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	pagination, ok := body["pagination"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing pagination object: %v", body)
	}
	if pagination["current_page"].(float64) != 1 || pagination["per_page"].(float64) != 10 {
		t.Errorf("expected default paging, got %v", pagination)
	}
}
