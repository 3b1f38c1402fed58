package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/viahogar/viahogar-core/internal/element"
	"github.com/viahogar/viahogar-core/internal/geo"
	"github.com/viahogar/viahogar-core/internal/infrastructure/config"
	"github.com/viahogar/viahogar-core/internal/infrastructure/logging"
	"github.com/viahogar/viahogar-core/internal/property"
	"github.com/viahogar/viahogar-core/internal/site"
	"github.com/viahogar/viahogar-core/internal/storage"
)

const testSecret = "test-secret-key-at-least-32-characters-long"

type stubGeocoder struct{ err error }

func (g stubGeocoder) Geocode(context.Context, string) (property.Coordinates, error) {
	if g.err != nil {
		return property.Coordinates{}, g.err
	}
	return property.Coordinates{Lat: 36.72, Lng: -4.42}, nil
}

type failingCheck struct{}

func (failingCheck) HealthCheck(context.Context) error { return errors.New("broker unreachable") }

// testServer creates a Server over a loaded App with in-memory stores.
func testServer(t *testing.T, quota int64) (*Server, http.Handler) {
	t.Helper()

	app := site.New(site.Deps{
		Documents: storage.NewMemoryDocuments(quota),
		Blobs:     storage.NewMemoryBlobs(),
		Geocoder:  stubGeocoder{},
		Places:    geo.Disabled{},
		Logger:    logging.Discard(),
	})
	if err := app.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	srv, err := New(Deps{
		Config: config.APIConfig{Host: "127.0.0.1", Port: 0},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{Secret: testSecret, AccessTokenTTL: 15},
		},
		Logger:  logging.Discard(),
		App:     app,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv, srv.buildRouter()
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	w := doRequest(t, h, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: "Admin", Password: "Aguilar1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp loginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return resp.AccessToken
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) Error {
	t.Helper()
	var e Error
	if err := json.NewDecoder(w.Body).Decode(&e); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return e
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("New() without logger should fail")
	}
	if _, err := New(Deps{Logger: logging.Discard()}); err == nil {
		t.Error("New() without app should fail")
	}
}

func TestHealth(t *testing.T) {
	srv, h := testServer(t, storage.DefaultQuotaBytes)

	w := doRequest(t, h, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	srv.health = map[string]HealthChecker{"mqtt": failingCheck{}}
	w = doRequest(t, srv.buildRouter(), http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status with failing component = %d, want 503", w.Code)
	}
}

func TestLogin(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)

	w := doRequest(t, h, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: "Admin", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad credentials status = %d, want 401", w.Code)
	}

	token := login(t, h)
	claims, err := parseToken(token, testSecret)
	if err != nil {
		t.Fatalf("parseToken() error = %v", err)
	}
	if claims.Subject != "Admin" || claims.Role != roleAdmin {
		t.Errorf("claims = %+v", claims)
	}
	if _, err := parseToken(token, "another-secret-key-at-least-32-characters"); err == nil {
		t.Error("parseToken() accepted a token signed with another secret")
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, h, http.MethodPost, "/api/v1/properties", tt.token, createPropertyRequest{Address: "Málaga"})
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestLogout_EndsAdminMode(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)
	token := login(t, h)

	if w := doRequest(t, h, http.MethodPost, "/api/v1/auth/logout", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", w.Code)
	}
	w := doRequest(t, h, http.MethodPut, "/api/v1/site/name", token, siteNameRequest{Name: "X"})
	if w.Code != http.StatusForbidden {
		t.Errorf("edit after logout status = %d, want 403", w.Code)
	}
}

func TestProperties_CreateAndGet(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)
	token := login(t, h)

	w := doRequest(t, h, http.MethodPost, "/api/v1/properties", token, createPropertyRequest{Address: "Calle Larios 3, Málaga"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created property.Property
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decoding property: %v", err)
	}
	if created.Name != "Calle Larios 3" || len(created.Sections) != 7 {
		t.Errorf("created = %s with %d sections", created.Name, len(created.Sections))
	}

	w = doRequest(t, h, http.MethodGet, "/api/v1/properties/"+created.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("get status = %d", w.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/api/v1/properties/prop-missing", "", nil)
	if w.Code != http.StatusNotFound || decodeError(t, w).Code != ErrCodeNotFound {
		t.Errorf("missing property status = %d", w.Code)
	}
}

func TestProperties_GeocodeFailure(t *testing.T) {
	srv, _ := testServer(t, storage.DefaultQuotaBytes)
	app := site.New(site.Deps{
		Documents: storage.NewMemoryDocuments(storage.DefaultQuotaBytes),
		Blobs:     storage.NewMemoryBlobs(),
		Geocoder:  stubGeocoder{err: geo.ErrLookup},
		Logger:    logging.Discard(),
	})
	if err := app.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	srv.app = app
	h := srv.buildRouter()
	token := login(t, h)

	w := doRequest(t, h, http.MethodPost, "/api/v1/properties", token, createPropertyRequest{Address: "Nowhere"})
	if w.Code != http.StatusUnprocessableEntity || decodeError(t, w).Code != ErrCodeGeocoding {
		t.Errorf("status = %d, want 422 geocoding_failed", w.Code)
	}
}

func TestDeleteProperty_TwoStep(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)
	token := login(t, h)

	w := doRequest(t, h, http.MethodDelete, "/api/v1/properties/prop-1?confirm=true", token, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("confirm without request status = %d, want 409", w.Code)
	}

	w = doRequest(t, h, http.MethodDelete, "/api/v1/properties/prop-1", token, nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("request status = %d", w.Code)
	}
	w = doRequest(t, h, http.MethodDelete, "/api/v1/properties/prop-1?confirm=true", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("confirm status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(t, h, http.MethodGet, "/api/v1/properties/prop-1", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted property status = %d, want 404", w.Code)
	}
}

func TestSections(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)
	token := login(t, h)

	w := doRequest(t, h, http.MethodPost, "/api/v1/properties/prop-1/sections", token, map[string]any{"type": "gallery", "index": 0})
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body = %s", w.Code, w.Body.String())
	}
	var sec property.Section
	if err := json.NewDecoder(w.Body).Decode(&sec); err != nil {
		t.Fatalf("decoding section: %v", err)
	}
	if sec.Type() != property.TypeGallery {
		t.Errorf("section type = %q", sec.Type())
	}

	w = doRequest(t, h, http.MethodPost, "/api/v1/properties/prop-1/sections", token, map[string]any{"type": "video"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown type status = %d, want 400", w.Code)
	}

	w = doRequest(t, h, http.MethodDelete, "/api/v1/properties/prop-1/sections/"+sec.ID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	w = doRequest(t, h, http.MethodDelete, "/api/v1/properties/prop-1/sections/"+sec.ID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestElements_ResolveAndUpdate(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)
	token := login(t, h)

	ref := element.Ref{SectionID: "hero-1", ElementKey: property.KeyTitle}
	w := doRequest(t, h, http.MethodPost, "/api/v1/properties/prop-1/elements/resolve", "", resolveRequest{Ref: ref})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve status = %d", w.Code)
	}
	var sel struct {
		Type string                 `json:"type"`
		Data property.DraggableText `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&sel); err != nil {
		t.Fatalf("decoding selection: %v", err)
	}
	if sel.Type != string(element.KindDraggableText) || sel.Data.Text != "Villa Mediterránea" {
		t.Errorf("selection = %+v", sel)
	}

	text := "Ático con terraza"
	w = doRequest(t, h, http.MethodPatch, "/api/v1/properties/prop-1/elements", token,
		updateElementRequest{Ref: ref, Patch: element.Patch{Text: &text}})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), text) {
		t.Errorf("update body = %s", w.Body.String())
	}

	w = doRequest(t, h, http.MethodPost, "/api/v1/properties/prop-1/elements/resolve", "",
		resolveRequest{Ref: element.Ref{SectionID: "hero-1", ElementKey: element.KeyFloatingTexts, SubElementID: "missing"}})
	if w.Code != http.StatusNotFound {
		t.Errorf("unresolved ref status = %d, want 404", w.Code)
	}
}

func TestElements_QuotaExceeded(t *testing.T) {
	_, h := testServer(t, 128)
	token := login(t, h)

	text := "Nuevo"
	ref := element.Ref{SectionID: "hero-1", ElementKey: property.KeyTitle}
	w := doRequest(t, h, http.MethodPatch, "/api/v1/properties/prop-1/elements", token,
		updateElementRequest{Ref: ref, Patch: element.Patch{Text: &text}})
	if w.Code != http.StatusInsufficientStorage {
		t.Fatalf("status = %d, want 507", w.Code)
	}
	if !strings.Contains(w.Body.String(), ErrCodeStorageQuotaExceeded) {
		t.Errorf("body = %s", w.Body.String())
	}

	w = doRequest(t, h, http.MethodGet, "/api/v1/properties/prop-1", "", nil)
	if !strings.Contains(w.Body.String(), `"text":"Nuevo"`) {
		t.Error("change not kept in memory after quota failure")
	}
}

func TestSelection(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)
	token := login(t, h)

	if w := doRequest(t, h, http.MethodGet, "/api/v1/selection", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("empty selection status = %d, want 404", w.Code)
	}

	ref := element.Ref{SectionID: "pricing-1", ElementKey: property.KeyPrice}
	w := doRequest(t, h, http.MethodPut, "/api/v1/selection", token, selectRequest{PropertyID: "prop-1", Ref: ref})
	if w.Code != http.StatusOK {
		t.Fatalf("select status = %d, body = %s", w.Code, w.Body.String())
	}

	color := "#c0392b"
	w = doRequest(t, h, http.MethodPatch, "/api/v1/selection", token, updateSelectionRequest{Patch: element.Patch{Color: &color}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), color) {
		t.Errorf("update selection status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(t, h, http.MethodPatch, "/api/v1/selection", token, updateSelectionRequest{})
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != ErrCodeValidation {
		t.Errorf("empty patch status = %d, want 400", w.Code)
	}

	if w := doRequest(t, h, http.MethodDelete, "/api/v1/selection", token, nil); w.Code != http.StatusNoContent {
		t.Errorf("clear status = %d", w.Code)
	}
	w = doRequest(t, h, http.MethodPatch, "/api/v1/selection", token, updateSelectionRequest{Patch: element.Patch{Color: &color}})
	if w.Code != http.StatusConflict {
		t.Errorf("update without selection status = %d, want 409", w.Code)
	}
}

func TestContact(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)

	form := map[string]string{"name": "Luis", "email": "luis@example.com", "message": "Quiero visitarla"}
	w := doRequest(t, h, http.MethodPost, "/api/v1/properties/prop-1/contact", "", form)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(t, h, http.MethodPost, "/api/v1/properties/prop-1/contact", "", map[string]string{"name": "Luis"})
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != ErrCodeValidation {
		t.Errorf("invalid form status = %d", w.Code)
	}

	token := login(t, h)
	w = doRequest(t, h, http.MethodGet, "/api/v1/properties/prop-1/submissions", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submissions status = %d", w.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding submissions: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}
}

func TestImages_StoreAndServe(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)
	token := login(t, h)

	raw := bytes.Repeat([]byte{0x89, 0x50, 0x4e, 0x47}, 600)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	w := doRequest(t, h, http.MethodPost, "/api/v1/images", token, imageRequest{DataURL: dataURL})
	if w.Code != http.StatusCreated {
		t.Fatalf("store status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	ref := resp["ref"]
	if !storage.IsBlobKey(ref) {
		t.Fatalf("ref = %q, want blob key", ref)
	}

	w = doRequest(t, h, http.MethodGet, "/api/v1/blobs/"+ref, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("serve status = %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if !bytes.Equal(w.Body.Bytes(), raw) {
		t.Error("served bytes differ from upload")
	}

	if w := doRequest(t, h, http.MethodGet, "/api/v1/blobs/img-unknown", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown blob status = %d, want 404", w.Code)
	}
}

func TestSiteBranding(t *testing.T) {
	_, h := testServer(t, storage.DefaultQuotaBytes)
	token := login(t, h)

	w := doRequest(t, h, http.MethodPut, "/api/v1/site/name", token, siteNameRequest{Name: "Casas del Sur"})
	if w.Code != http.StatusOK {
		t.Fatalf("set name status = %d", w.Code)
	}
	w = doRequest(t, h, http.MethodGet, "/api/v1/site", "", nil)
	var got siteResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decoding site: %v", err)
	}
	if got.Name != "Casas del Sur" || !got.IsAdmin {
		t.Errorf("site = %+v", got)
	}

	w = doRequest(t, h, http.MethodPut, "/api/v1/site/logo", token, imageRequest{DataURL: "data:image/png;base64,AAAA"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "data:image/png;base64,AAAA") {
		t.Errorf("set logo status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv, _ := testServer(t, storage.DefaultQuotaBytes)
	h := srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestCORS(t *testing.T) {
	srv, _ := testServer(t, storage.DefaultQuotaBytes)
	srv.cfg.CORS.AllowedOrigins = []string{"https://viahogar.es"}
	h := srv.buildRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/properties", nil)
	req.Header.Set("Origin", "https://viahogar.es")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "https://viahogar.es" {
		t.Errorf("preflight = %d, allow-origin %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("disallowed origin received CORS headers")
	}
}
