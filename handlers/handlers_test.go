package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"skinscan/analysis"
	"skinscan/config"
	"skinscan/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, modify ...func(*config.Config)) (*Handler, http.Handler) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.DBPath = filepath.Join(dir, "skinscan.db")
	cfg.UploadDir = filepath.Join(dir, "uploads")
	cfg.ProgressInterval = time.Millisecond
	cfg.ProgressIncrement = 50
	cfg.CompletionDelay = time.Millisecond
	cfg.SplashDelay = 0
	for _, m := range modify {
		m(cfg)
	}

	store, err := database.Open(cfg.DBPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := analysis.New(analysis.WithRandom(analysis.NewSeededRandom(7)), analysis.WithLogger(logger))

	h, err := New(cfg, store, analyzer, logger)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	t.Cleanup(h.Close)
	return h, h.Router()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 150, B: 130, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if data != nil {
		part, err := w.CreateFormFile("image", "face.png")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, w.FormDataContentType()
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthAndCORS(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || decode(t, w)["status"] != "healthy" {
		t.Errorf("unexpected health response %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header")
	}

	w = do(t, srv, http.MethodOptions, "/api/history", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
}

func TestUploadAndHistory(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	body, ctype := multipartBody(t, pngBytes(t), map[string]string{
		"skin_type":   "oily",
		"skin_color":  "Tan",
		"environment": "Indoor most of the day",
		"conditions":  "Eczema, acne scarring",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	record := decode(t, w)
	id, _ := record["id"].(string)
	if id == "" {
		t.Fatal("expected an analysis id")
	}
	if record["skin_type"] != "Oily" || record["original_name"] != "face.png" {
		t.Errorf("unexpected record %v", record)
	}
	conds, _ := record["conditions"].([]any)
	if len(conds) != 2 || conds[1] != "Acne Scarring" {
		t.Errorf("unexpected conditions %v", record["conditions"])
	}

	w = do(t, srv, http.MethodGet, "/api/history?limit=10", nil)
	if got := decode(t, w)["total"]; got != float64(1) {
		t.Errorf("expected 1 stored analysis, got %v", got)
	}

	w = do(t, srv, http.MethodGet, "/api/history/"+id, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	w = do(t, srv, http.MethodGet, "/api/statistics", nil)
	if got := decode(t, w)["total_analyses"]; got != float64(1) {
		t.Errorf("expected total 1, got %v", got)
	}

	if w = do(t, srv, http.MethodDelete, "/api/history/"+id, nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 on delete, got %d", w.Code)
	}
	if w = do(t, srv, http.MethodGet, "/api/history/"+id, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	tests := []struct {
		name   string
		data   []byte
		fields map[string]string
		want   int
	}{
		{"no file", nil, nil, http.StatusBadRequest},
		{"not an image", []byte("plain text, not pixels"), nil, http.StatusBadRequest},
		{"unknown skin type", pngBytes(t), map[string]string{"skin_type": "Scaly"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		body, ctype := multipartBody(t, tt.data, tt.fields)
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
		req.Header.Set("Content-Type", ctype)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s: expected %d, got %d: %s", tt.name, tt.want, w.Code, w.Body.String())
		}
	}
}

func TestSessionFlow(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	state := decode(t, w)
	id := state["id"].(string)
	base := "/api/sessions/" + id
	if state["screen"] != "home" {
		t.Fatalf("expected home with no splash delay, got %v", state["screen"])
	}

	w = do(t, srv, http.MethodGet, base+"/results", nil)
	if got := decode(t, w)["status"]; got != "no_data" {
		t.Errorf("expected no_data before a scan, got %v", got)
	}

	if w = do(t, srv, http.MethodPost, base+"/navigate", map[string]string{"screen": "pre-scan"}); w.Code != http.StatusOK {
		t.Fatalf("navigate to pre-scan: %d %s", w.Code, w.Body.String())
	}

	w = do(t, srv, http.MethodPost, base+"/navigate", map[string]string{"screen": "scan"})
	if w.Code != http.StatusConflict || decode(t, w)["can_proceed"] != false {
		t.Errorf("expected 409 with can_proceed=false, got %d %s", w.Code, w.Body.String())
	}

	w = do(t, srv, http.MethodPut, base+"/profile", map[string]any{
		"skin_color":  "Light",
		"skin_type":   "Dry",
		"environment": "Outdoor exposure (sun/dust)",
	})
	if w.Code != http.StatusOK || decode(t, w)["can_proceed"] != true {
		t.Fatalf("profile update failed: %d %s", w.Code, w.Body.String())
	}
	if w = do(t, srv, http.MethodPost, base+"/profile/conditions", map[string]string{"condition": "eczema"}); w.Code != http.StatusOK {
		t.Errorf("toggle condition: %d %s", w.Code, w.Body.String())
	}

	if w = do(t, srv, http.MethodPost, base+"/navigate", map[string]string{"screen": "scan"}); w.Code != http.StatusOK {
		t.Fatalf("navigate to scan: %d %s", w.Code, w.Body.String())
	}

	if w = do(t, srv, http.MethodPost, base+"/analyze", nil); w.Code != http.StatusConflict {
		t.Errorf("expected 409 without an image, got %d", w.Code)
	}

	w = do(t, srv, http.MethodPost, base+"/camera-error", map[string]string{"name": "NotFoundError"})
	if got := decode(t, w)["kind"]; got != "device_not_found" {
		t.Errorf("unexpected camera error kind %v", got)
	}
	w = do(t, srv, http.MethodDelete, base+"/error", nil)
	if _, shown := decode(t, w)["error"]; w.Code != http.StatusOK || shown {
		t.Errorf("camera error not dismissed: %d %s", w.Code, w.Body.String())
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
	w = do(t, srv, http.MethodPost, base+"/capture", map[string]string{"image_base64": dataURL, "source": "camera"})
	if w.Code != http.StatusOK {
		t.Fatalf("capture: %d %s", w.Code, w.Body.String())
	}

	if w = do(t, srv, http.MethodPost, base+"/analyze", nil); w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d %s", w.Code, w.Body.String())
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		w = do(t, srv, http.MethodGet, base+"/progress", nil)
		if decode(t, w)["screen"] == "results" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("scan never completed: %s", w.Body.String())
		}
		time.Sleep(5 * time.Millisecond)
	}

	w = do(t, srv, http.MethodGet, base+"/results", nil)
	view := decode(t, w)
	if view["status"] != "ok" || view["result"] == nil {
		t.Fatalf("expected a result, got %v", view)
	}

	w = do(t, srv, http.MethodGet, base+"/results?format=markdown", nil)
	if !strings.Contains(w.Body.String(), "# Skin Analysis Report") {
		t.Errorf("expected markdown report, got %s", w.Body.String())
	}

	for {
		w = do(t, srv, http.MethodGet, "/api/history", nil)
		if decode(t, w)["total"] == float64(1) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session result was never saved to history")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w = do(t, srv, http.MethodPost, base+"/log", map[string]string{"routine": "evening", "skin_condition": "improved"})
	if w.Code != http.StatusCreated {
		t.Errorf("add log entry: %d %s", w.Code, w.Body.String())
	}
	w = do(t, srv, http.MethodGet, base+"/log", nil)
	if entries, _ := decode(t, w)["entries"].([]any); len(entries) != 6 {
		t.Errorf("expected 6 log entries, got %d", len(entries))
	}
	if w = do(t, srv, http.MethodPost, base+"/log", map[string]string{"routine": "noon"}); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad routine, got %d", w.Code)
	}

	if w = do(t, srv, http.MethodDelete, base, nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 on delete, got %d", w.Code)
	}
	if w = do(t, srv, http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestSessionErrors(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t)

	if w := do(t, srv, http.MethodGet, "/api/sessions/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	id := decode(t, do(t, srv, http.MethodPost, "/api/sessions", nil))["id"].(string)
	base := "/api/sessions/" + id

	if w := do(t, srv, http.MethodPost, base+"/navigate", map[string]string{"screen": "settings"}); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown screen, got %d", w.Code)
	}
	if w := do(t, srv, http.MethodPost, base+"/navigate", map[string]string{"screen": "scan"}); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for home to scan, got %d", w.Code)
	}
	if w := do(t, srv, http.MethodPut, base+"/profile", map[string]string{"skin_type": "Oily"}); w.Code != http.StatusConflict {
		t.Errorf("expected 409 editing profile outside pre-scan, got %d", w.Code)
	}
	if w := do(t, srv, http.MethodPost, base+"/back", nil); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for back from home, got %d", w.Code)
	}

	w := do(t, srv, http.MethodGet, "/api/catalog/ingredients", nil)
	if ings, _ := decode(t, w)["ingredients"].([]any); len(ings) != 10 {
		t.Errorf("expected 10 catalog entries, got %d", len(ings))
	}
}

func TestSessionCap(t *testing.T) {
	t.Parallel()

	_, srv := newTestServer(t, func(cfg *config.Config) { cfg.MaxSessions = 2 })

	for i := 0; i < 2; i++ {
		if w := do(t, srv, http.MethodPost, "/api/sessions", nil); w.Code != http.StatusCreated {
			t.Fatalf("create session %d: %d %s", i, w.Code, w.Body.String())
		}
	}
	w := do(t, srv, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the cap is reached, got %d %s", w.Code, w.Body.String())
	}

	w = do(t, srv, http.MethodGet, "/health", nil)
	if got := decode(t, w)["sessions"]; got != float64(2) {
		t.Errorf("expected 2 live sessions, got %v", got)
	}
}
