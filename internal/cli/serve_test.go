package cli

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gogpu/tear"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	c, _ := newTestCLI(t)
	s := testSession(t, c)
	r := tear.NewRenderer(tear.WithWorkers(2))
	t.Cleanup(r.Close)
	ps := &previewServer{base: *s.params, set: s.set, renderer: r, width: 40, height: 30}
	return ps.routes()
}

func TestServeFrame(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantW    int
		wantH    int
	}{
		{"defaults", "", http.StatusOK, 40, 30},
		{"size", "?w=16&h=12&progress=0.5", http.StatusOK, 16, 12},
		{"param override", "?tearShapeNoiseAmp=0.1&i=1", http.StatusOK, 40, 30},
		{"bad width", "?w=0", http.StatusBadRequest, 0, 0},
		{"huge height", "?h=100000", http.StatusBadRequest, 0, 0},
		{"bad index", "?i=x", http.StatusBadRequest, 0, 0},
		{"bad value", "?progress=abc", http.StatusBadRequest, 0, 0},
		{"nan progress", "?progress=NaN", http.StatusOK, 40, 30},
		{"infinite param", "?tearShapeNoiseAmp=Inf&tearThickness=-Inf", http.StatusOK, 40, 30},
		{"unknown parameter", "?nope=1", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/frame.png"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Content-Type = %q, want image/png", ct)
			}
			img, err := png.Decode(rec.Body)
			if err != nil {
				t.Fatalf("png.Decode() error = %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("frame size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestServeParams(t *testing.T) {
	h := newTestServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/params", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var rows []paramJSON
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != int(tear.ParamCount) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), tear.ParamCount)
	}
	if rows[1].Name != "tearShapeNoiseAmp" || rows[1].Value != 0.3 {
		t.Errorf("rows[1] = %+v, want tearShapeNoiseAmp = 0.3", rows[1])
	}
}

func TestServeShader(t *testing.T) {
	h := newTestServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shader.wgsl", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "fn fs_main") {
		t.Error("shader body missing fs_main")
	}
}

func TestServeNotFound(t *testing.T) {
	h := newTestServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
