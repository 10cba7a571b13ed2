package web_test

import (
	"embed"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/regtriage/pkg/web"
)

//go:embed testdata
var testFS embed.FS

var (
	pageView    = web.ViewDef{Route: "/page", Template: "page.html", Title: "Page", Bundle: "app"}
	missingView = web.ViewDef{Template: "missing.html", Title: "Missing", Bundle: "app"}
)

var errGone = errors.New("gone")

func templateSet(t *testing.T) *web.TemplateSet {
	t.Helper()
	ts, err := web.NewTemplateSet(
		testFS, testFS,
		"testdata/layouts/*.html", "testdata/views",
		"/app",
		[]web.ViewDef{pageView, missingView},
	)
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}
	return ts
}

func TestNewTemplateSetMissingView(t *testing.T) {
	_, err := web.NewTemplateSet(
		testFS, testFS,
		"testdata/layouts/*.html", "testdata/views",
		"/app",
		[]web.ViewDef{{Template: "absent.html"}},
	)
	if err == nil {
		t.Fatal("expected error for missing view template")
	}
}

func TestDataHandler(t *testing.T) {
	ts := templateSet(t)

	t.Run("renders data", func(t *testing.T) {
		handler := ts.DataHandler("base.html", pageView, func(r *http.Request) (any, error) {
			return "hello " + r.URL.Query().Get("name"), nil
		}, nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/page?name=<b>", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"<title>Page</title>", `href="/app"`, "<p>hello &lt;b&gt;</p>"} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q:\n%s", want, body)
			}
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("content-type: got %q", ct)
		}
	})

	t.Run("load error uses status func", func(t *testing.T) {
		handler := ts.DataHandler("base.html", pageView, func(*http.Request) (any, error) {
			return nil, errGone
		}, func(err error) int {
			if errors.Is(err, errGone) {
				return http.StatusGone
			}
			return http.StatusInternalServerError
		})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/page", nil))
		if rec.Code != http.StatusGone {
			t.Errorf("status: got %d, want 410", rec.Code)
		}
	})

	t.Run("load error without status func", func(t *testing.T) {
		handler := ts.DataHandler("base.html", pageView, func(*http.Request) (any, error) {
			return nil, errGone
		}, nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/page", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rec.Code)
		}
	})
}

func TestErrorHandler(t *testing.T) {
	ts := templateSet(t)

	rec := httptest.NewRecorder()
	ts.ErrorHandler("base.html", missingView, http.StatusNotFound).ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not here") {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestRenderUnknownView(t *testing.T) {
	ts := templateSet(t)
	err := ts.Render(httptest.NewRecorder(), "base.html", "absent.html", web.ViewData{})
	if err == nil {
		t.Fatal("expected error for unknown view")
	}
}

func TestDistServer(t *testing.T) {
	handler := web.DistServer(testFS, "testdata/static", "/static/")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/static/site.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "margin: 0") {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestRouterRegisteredRoute(t *testing.T) {
	r := web.NewRouter()
	r.HandleFunc("GET /hello", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/hello", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("registered route: got %d, want 200", rec.Code)
	}
}

func TestRouterNotFound(t *testing.T) {
	r := web.NewRouter()
	r.HandleFunc("GET /known", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.NotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/unknown", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("not found: got %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestRouterDefaultNotFound(t *testing.T) {
	r := web.NewRouter()
	r.HandleFunc("GET /known", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/unknown", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("default: got %d, want 404", rec.Code)
	}
}

func TestRouterHandle(t *testing.T) {
	r := web.NewRouter()
	r.Handle("GET /mux", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/mux", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Errorf("Handle: got %d, want %d", rec.Code, http.StatusAccepted)
	}
}
