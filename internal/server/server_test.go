package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"civiclens/internal/auth"
	"civiclens/internal/complaint"
	"civiclens/internal/config"
	"civiclens/internal/geocode"
	"civiclens/internal/health"
	"civiclens/internal/letter"
	"civiclens/internal/storage"
	"civiclens/internal/wizard"
)

type stubGeocoder struct{}

func (stubGeocoder) Forward(ctx context.Context, area, city, state string) (geocode.Coordinates, bool, error) {
	return geocode.Coordinates{Lat: 18.52, Lon: 73.85}, true, nil
}

func (stubGeocoder) Reverse(ctx context.Context, lat, lon float64) (geocode.Address, error) {
	return geocode.Address{State: "Maharashtra", City: "Pune", Area: "MG Road"}, nil
}

func testServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{HTTPPort: "0", HTTPTimeout: time.Second}
	store := storage.New(filepath.Join(t.TempDir(), "complaints.json"))
	pipeline := letter.NewPipeline(context.Background(), &config.Config{})
	sessions := wizard.NewManager(stubGeocoder{}, time.Millisecond, pipeline, store, nil)
	users := auth.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	monitor := health.NewMonitor("template", store)

	return New(cfg, sessions, store, pipeline, auth.NewMockProvider(), users, nil, monitor, stubGeocoder{}), store
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestWizardFlowOverHTTP(t *testing.T) {
	srv, store := testServer(t)
	r := srv.Router()

	// Create a session
	w := do(t, r, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: status %d: %s", w.Code, w.Body.String())
	}
	var sess sessionView
	decode(t, w, &sess)
	base := "/api/sessions/" + sess.ID

	// Category selection advances to details
	w = do(t, r, http.MethodPost, base+"/category",
		gin.H{"category": complaint.TypeWater})
	if w.Code != http.StatusOK {
		t.Fatalf("select category: status %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &sess)
	if sess.Step != 2 {
		t.Errorf("step after category = %d, want 2", sess.Step)
	}

	// Gate blocks with incomplete details
	w = do(t, r, http.MethodPost, base+"/next", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("next with empty details: status %d, want 400", w.Code)
	}

	// Complete the details
	w = do(t, r, http.MethodPatch, base+"/details", gin.H{
		"area":        "MG Road",
		"city":        "Pune",
		"state":       "Maharashtra",
		"description": "No water supply for five days.",
		"language":    complaint.LangEnglish,
		"template":    complaint.TemplateNormal,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update details: status %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &sess)
	if !strings.Contains(sess.Draft.Authority, "Pune Municipal Corporation") {
		t.Errorf("authority = %q", sess.Draft.Authority)
	}

	w = do(t, r, http.MethodPost, base+"/next", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next past details: status %d: %s", w.Code, w.Body.String())
	}

	// Generate
	w = do(t, r, http.MethodPost, base+"/generate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("generate: status %d: %s", w.Code, w.Body.String())
	}
	var gen struct {
		Letter string           `json:"letter"`
		Record complaint.Record `json:"record"`
	}
	decode(t, w, &gen)
	if !strings.Contains(strings.ToLower(gen.Letter), "water") {
		t.Errorf("letter missing the category:\n%s", gen.Letter)
	}
	if store.Count() != 1 {
		t.Errorf("record count = %d, want 1", store.Count())
	}

	// The record surfaces in the list
	w = do(t, r, http.MethodGet, "/api/complaints", nil)
	var records []complaint.Record
	decode(t, w, &records)
	if len(records) != 1 || records[0].ID != gen.Record.ID {
		t.Errorf("records = %+v", records)
	}
}

func TestStatusUpdateOverHTTP(t *testing.T) {
	srv, store := testServer(t)
	r := srv.Router()

	rec := complaint.NewRecord("rec-1", &complaint.Draft{
		Type:     complaint.TypeRoad,
		Location: complaint.LocationDetails{Area: "Sector 9", City: "Surat", State: "Gujarat"},
	}, "letter text")
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w := do(t, r, http.MethodPut, "/api/complaints/rec-1/status",
		gin.H{"status": complaint.StatusSubmitted})
	if w.Code != http.StatusOK {
		t.Fatalf("status update: status %d: %s", w.Code, w.Body.String())
	}
	var updated complaint.Record
	decode(t, w, &updated)
	if updated.Status != complaint.StatusSubmitted {
		t.Errorf("status = %q", updated.Status)
	}

	w = do(t, r, http.MethodPut, "/api/complaints/rec-1/status", gin.H{"status": "Lost"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status accepted: %d", w.Code)
	}

	w = do(t, r, http.MethodPut, "/api/complaints/missing/status",
		gin.H{"status": complaint.StatusResolved})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing record status update: %d", w.Code)
	}
}

func TestExportMarksDownloaded(t *testing.T) {
	srv, store := testServer(t)
	r := srv.Router()

	rec := complaint.NewRecord("rec-2", &complaint.Draft{
		Type:      complaint.TypeWater,
		Location:  complaint.LocationDetails{Area: "MG Road", City: "Pune", State: "Maharashtra"},
		Signature: "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==",
	}, "Respected Sir/Madam,\n\nNo water supply.\n\nYours faithfully,\nA Concerned Citizen")
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w := do(t, r, http.MethodGet, "/api/complaints/rec-2/export/pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status %d: %s", w.Code, w.Body.String())
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("response is not a PDF")
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "complaint-water-supply-issue") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	got, _ := store.Get("rec-2")
	if got.Status != complaint.StatusDownloaded {
		t.Errorf("status after export = %q, want %q", got.Status, complaint.StatusDownloaded)
	}

	// A submitted record keeps its status on re-export
	store.UpdateStatus("rec-2", complaint.StatusSubmitted)
	do(t, r, http.MethodGet, "/api/complaints/rec-2/export/docx", nil)
	got, _ = store.Get("rec-2")
	if got.Status != complaint.StatusSubmitted {
		t.Errorf("re-export downgraded the status to %q", got.Status)
	}
}

func TestAuthFlowOverHTTP(t *testing.T) {
	srv, _ := testServer(t)
	r := srv.Router()

	w := do(t, r, http.MethodGet, "/api/auth/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("signed-out /me: status %d", w.Code)
	}

	w = do(t, r, http.MethodPost, "/api/auth/email",
		gin.H{"email": "asha.verma@example.com", "password": "secret1"})
	if w.Code != http.StatusOK {
		t.Fatalf("email login: status %d: %s", w.Code, w.Body.String())
	}
	var u auth.User
	decode(t, w, &u)
	if u.Name != "Asha Verma" {
		t.Errorf("user name = %q", u.Name)
	}

	w = do(t, r, http.MethodGet, "/api/auth/me", nil)
	if w.Code != http.StatusOK {
		t.Errorf("signed-in /me: status %d", w.Code)
	}

	w = do(t, r, http.MethodPost, "/api/auth/email",
		gin.H{"email": "asha.verma@example.com", "password": "123"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("short password: status %d", w.Code)
	}

	w = do(t, r, http.MethodPost, "/api/auth/logout", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("logout: status %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/auth/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("/me after logout: status %d", w.Code)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	srv, _ := testServer(t)
	r := srv.Router()

	w := do(t, r, http.MethodGet, "/api/catalog/categories", nil)
	var categories []complaint.Type
	decode(t, w, &categories)
	if len(categories) != len(complaint.AllTypes) {
		t.Errorf("categories = %v", categories)
	}

	w = do(t, r, http.MethodGet, "/api/catalog/cities?state=Maharashtra&q=pu", nil)
	var cities []string
	decode(t, w, &cities)
	if len(cities) != 1 || cities[0] != "Pune" {
		t.Errorf("cities = %v", cities)
	}

	w = do(t, r, http.MethodGet, "/api/catalog/cities", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("cities without state: status %d", w.Code)
	}
}

func TestChatEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	r := srv.Router()

	w := do(t, r, http.MethodPost, "/api/chat",
		map[string]string{"message": "how do I track my complaint status?"})
	if w.Code != http.StatusOK {
		t.Fatalf("chat: status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Reply    string `json:"reply"`
		Fallback bool   `json:"fallback"`
	}
	decode(t, w, &resp)
	if resp.Reply == "" {
		t.Error("chat returned an empty reply")
	}
	if !resp.Fallback {
		t.Error("template-only server should answer from the fallback")
	}

	w = do(t, r, http.MethodPost, "/api/chat", map[string]string{"message": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank message: status %d", w.Code)
	}
}

func TestGeocodePassthrough(t *testing.T) {
	srv, _ := testServer(t)
	r := srv.Router()

	w := do(t, r, http.MethodGet, "/api/geocode/forward?area=MG+Road&city=Pune&state=Maharashtra", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("forward: status %d: %s", w.Code, w.Body.String())
	}
	var coords geocode.Coordinates
	decode(t, w, &coords)
	if coords.Lat != 18.52 {
		t.Errorf("lat = %v", coords.Lat)
	}

	w = do(t, r, http.MethodGet, "/api/geocode/reverse?lat=18.52&lon=73.85", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reverse: status %d: %s", w.Code, w.Body.String())
	}
	var addr geocode.Address
	decode(t, w, &addr)
	if addr.City != "Pune" {
		t.Errorf("city = %q", addr.City)
	}
}

func TestSessionNotFound(t *testing.T) {
	srv, _ := testServer(t)
	r := srv.Router()

	w := do(t, r, http.MethodGet, "/api/sessions/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing session: status %d", w.Code)
	}
}
