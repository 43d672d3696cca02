package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/testutil"
)

func setupProjectTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	activitySvc := service.NewActivityService(repository.NewActivityLogRepository(db))
	svc := service.NewProjectService(repository.NewProjectRepository(db), activitySvc)
	handler := NewProjectHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/projects", handler.List)
	api.POST("/projects", handler.Create)
	api.GET("/projects/:id", handler.Get)
	api.PUT("/projects/:id", handler.Update)
	api.DELETE("/projects/:id", handler.Delete)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestProjectCreateAndGet(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"name":     "Vaca Muerta Gas Plant",
		"location": "Neuquén",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != "pending" {
		t.Fatalf("expected default status pending, got %v", data["status"])
	}
	id := data["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/projects/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["name"] != "Vaca Muerta Gas Plant" {
		t.Fatalf("unexpected name: %v", data["name"])
	}
}

func TestProjectCreateRequiresName(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/projects",
		map[string]interface{}{"location": "Neuquén"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without name, got %d", w.Code)
	}
}

func TestProjectGetUnknownReturns404(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/projects/no-such-id", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectUpdatePartial(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	project := &entity.Project{
		ID:        "p-001",
		Name:      "Gas Plant",
		Location:  "Neuquén",
		Status:    "inprogress",
		Progress:  30,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := env.DB.Create(project).Error; err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/projects/p-001",
		map[string]interface{}{"progress": 60}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["progress"].(float64) != 60 {
		t.Fatalf("expected progress 60, got %v", data["progress"])
	}
	if data["name"] != "Gas Plant" {
		t.Fatalf("untouched field changed: %v", data["name"])
	}
}

func TestProjectDeleteWithSystemsReturns409(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	if err := env.DB.Create(&entity.Project{
		ID: "p-001", Name: "Gas Plant", Status: "inprogress",
	}).Error; err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}
	if err := env.DB.Create(&entity.System{
		ID: "sys-001", Name: "Compression", ProjectID: "p-001",
	}).Error; err != nil {
		t.Fatalf("Failed to seed system: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/projects/p-001", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for project with systems, got %d: %s", w.Code, w.Body.String())
	}

	// Project must still exist
	var count int64
	env.DB.Model(&entity.Project{}).Where("id = ?", "p-001").Count(&count)
	if count != 1 {
		t.Fatalf("project was deleted despite children")
	}
}

func TestProjectListPagination(t *testing.T) {
	env := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	for _, id := range []string{"p-1", "p-2", "p-3"} {
		if err := env.DB.Create(&entity.Project{
			ID: id, Name: "Plant " + id, Status: "pending",
		}).Error; err != nil {
			t.Fatalf("Failed to seed project: %v", err)
		}
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/projects?page=1&page_size=2", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if data["total"].(float64) != 3 {
		t.Fatalf("expected total 3, got %v", data["total"])
	}
	if data["total_pages"].(float64) != 2 {
		t.Fatalf("expected 2 pages, got %v", data["total_pages"])
	}
}
