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

func setupITRTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	activitySvc := service.NewActivityService(repository.NewActivityLogRepository(db))
	itrSvc := service.NewITRService(
		repository.NewITRRepository(db),
		repository.NewSubsystemRepository(db),
		activitySvc,
	)
	sigSvc := service.NewSignatureService(db, repository.NewSignatureRepository(db))
	handler := NewITRHandler(itrSvc, sigSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/itrs/:id", handler.Get)
	api.POST("/itrs", handler.Create)
	api.POST("/itrs/:id/signatures", handler.Sign)
	api.GET("/itrs/:id/signatures", handler.ListSignatures)
	api.DELETE("/itrs/:id/signatures/:sigId", handler.RevokeSignature)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func seedITRData(t *testing.T, env *testutil.TestEnv) {
	t.Helper()

	subsystem := &entity.Subsystem{
		ID:        "sub-001",
		Name:      "Compressor Skid",
		SystemID:  "sys-001",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := env.DB.Create(subsystem).Error; err != nil {
		t.Fatalf("Failed to seed subsystem: %v", err)
	}

	itr := &entity.ITR{
		ID:          "itr-001",
		Name:        "Loop Check 42-PT-101",
		Quantity:    1,
		Status:      "inprogress",
		Progress:    50,
		SubsystemID: "sub-001",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := env.DB.Create(itr).Error; err != nil {
		t.Fatalf("Failed to seed ITR: %v", err)
	}

	testutil.SeedTestUser(t, env.DB, "test-user-001", "Test Admin", "admin@test.com", "admin")
}

func TestITRSignAndComplete(t *testing.T) {
	env := setupITRTest(t)
	seedITRData(t, env)
	testutil.SeedTestUser(t, env.DB, "user-appr", "Luis Approver", "luis@test.com", "approver")

	inspectorToken := testutil.GenerateTestToken("test-user-001", "Test Admin", "admin@test.com", "admin")
	approverToken := testutil.GenerateTestToken("user-appr", "Luis Approver", "luis@test.com", "approver")

	// First signature
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/itrs/itr-001/signatures",
		map[string]interface{}{"role": "inspector"}, inspectorToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// ITR must still be in progress after one signature
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/itrs/itr-001", nil, inspectorToken)
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != "inprogress" {
		t.Fatalf("expected inprogress after one signature, got %v", data["status"])
	}

	// Second role completes
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/itrs/itr-001/signatures",
		map[string]interface{}{"role": "approver"}, approverToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/itrs/itr-001", nil, inspectorToken)
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["status"] != "complete" {
		t.Fatalf("expected complete after both signatures, got %v", data["status"])
	}
	if data["progress"].(float64) != 100 {
		t.Fatalf("expected progress 100, got %v", data["progress"])
	}
}

func TestITRSignDuplicateReturns409(t *testing.T) {
	env := setupITRTest(t)
	seedITRData(t, env)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{"role": "inspector"}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/itrs/itr-001/signatures", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/itrs/itr-001/signatures", body, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40900 {
		t.Fatalf("expected business code 40900, got %v", resp["code"])
	}
}

func TestITRSignUnknownITRReturns404(t *testing.T) {
	env := setupITRTest(t)
	seedITRData(t, env)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/itrs/no-such-itr/signatures",
		map[string]interface{}{"role": "inspector"}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestITRSignInvalidRoleReturns400(t *testing.T) {
	env := setupITRTest(t)
	seedITRData(t, env)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/itrs/itr-001/signatures",
		map[string]interface{}{"role": "manager"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestITRRevokeSignature(t *testing.T) {
	env := setupITRTest(t)
	seedITRData(t, env)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/itrs/itr-001/signatures",
		map[string]interface{}{"role": "inspector"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	sigID := resp["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/itrs/itr-001/signatures/"+sigID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/itrs/itr-001/signatures", nil, token)
	resp = testutil.ParseResponse(w)
	sigs := resp["data"].(map[string]interface{})["signatures"].([]interface{})
	if len(sigs) != 0 {
		t.Fatalf("expected no signatures after revoke, got %d", len(sigs))
	}

	// Revoke always resets the ITR to inprogress/50
	var itr entity.ITR
	if err := env.DB.First(&itr, "id = ?", "itr-001").Error; err != nil {
		t.Fatalf("Failed to reload ITR: %v", err)
	}
	if itr.Status != "inprogress" || itr.Progress != 50 {
		t.Fatalf("expected inprogress/50 after revoke, got %s/%d", itr.Status, itr.Progress)
	}
}

func TestITRRequiresAuth(t *testing.T) {
	env := setupITRTest(t)
	seedITRData(t, env)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/itrs/itr-001", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
