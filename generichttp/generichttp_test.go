package generichttp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"goji.io/pat"
)

func TestSubMuxSanitize(t *testing.T) {
	cases := map[string]string{
		"omc/dso":  "/omc/dso",
		"/dso/":    "/dso",
		"/":        "/",
		"":         "/",
		"/already": "/already",
	}
	for in, want := range cases {
		if got := SubMuxSanitize(in); got != want {
			t.Errorf("SubMuxSanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChiPathRewritesParams(t *testing.T) {
	if got := chiPath("/channel/:ch/scale"); got != "/channel/{ch}/scale" {
		t.Errorf("got %q", got)
	}
	if got := chiPath("raw"); got != "/raw" {
		t.Errorf("got %q", got)
	}
}

func TestBindServesMethodsAndParams(t *testing.T) {
	rt := RouteTable{
		pat.Get("/channel/:ch/scale"): func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ch=" + chi.URLParam(r, "ch")))
		},
		pat.Post("/run"): func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}
	r := chi.NewRouter()
	rt.Bind(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/channel/2/scale")
	if err != nil {
		t.Fatal(err)
	}
	body := make([]byte, 16)
	n, _ := resp.Body.Read(body)
	resp.Body.Close()
	if got := string(body[:n]); got != "ch=2" {
		t.Errorf("param route: got %q, want ch=2", got)
	}

	// GET on a POST-only route must not match
	resp, err = http.Get(srv.URL + "/run")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Error("GET /run should not reach the POST handler")
	}

	resp, err = http.Post(srv.URL+"/run", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("POST /run: got status %d", resp.StatusCode)
	}
}

func TestGetSetFloatRoundTrip(t *testing.T) {
	var stored float64
	r := chi.NewRouter()
	rt := RouteTable{
		pat.Get("/value"):  GetFloat(func() (float64, error) { return stored, nil }),
		pat.Post("/value"): SetFloat(func(f float64) error { stored = f; return nil }),
	}
	rt.Bind(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/value", "application/json", strings.NewReader(`{"f64": 0.2}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if stored != 0.2 {
		t.Fatalf("stored = %v, want 0.2", stored)
	}

	resp, err = http.Get(srv.URL + "/value")
	if err != nil {
		t.Fatal(err)
	}
	body := make([]byte, 16)
	n, _ := resp.Body.Read(body)
	resp.Body.Close()
	if got := string(body[:n]); got != "0.2" {
		t.Errorf("plaintext get: got %q, want 0.2", got)
	}
}
