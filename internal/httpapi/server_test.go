package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/itektr/imla/internal/httpapi"
	"github.com/itektr/imla/internal/oracle"
	"github.com/itektr/imla/internal/pipeline"
)

// acceptAll accepts every word unchanged.
type acceptAll struct{}

func (acceptAll) Check(_ context.Context, word string) (oracle.Verdict, error) {
	return oracle.Unchanged(word), nil
}

// fixedOracle corrects the words in its map and accepts everything else.
type fixedOracle map[string]string

func (f fixedOracle) Check(_ context.Context, word string) (oracle.Verdict, error) {
	if to, ok := f[word]; ok {
		return oracle.Verdict{Word: to, Corrected: true}, nil
	}
	return oracle.Unchanged(word), nil
}

// memDict is an in-memory Dictionary for handler tests.
type memDict map[string]bool

func (d memDict) AddCustomWord(word string) { d[word] = true }

func (d memDict) RemoveCustomWord(word string) bool {
	if !d[word] {
		return false
	}
	delete(d, word)
	return true
}

func newMux(t *testing.T, s *httpapi.Server) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleCheck(t *testing.T) {
	t.Parallel()

	p := pipeline.New(fixedOracle{"agac": "ağaç"}, true)
	mux := newMux(t, httpapi.New(p))

	rec := doJSON(t, mux, "POST", "/check", `{"text": "agac güzel"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var res pipeline.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Corrected != "ağaç güzel" {
		t.Errorf("corrected = %q", res.Corrected)
	}
	if res.ErrorsFound != 1 || len(res.Corrections) != 1 {
		t.Errorf("errors_found = %d, corrections = %d", res.ErrorsFound, len(res.Corrections))
	}
}

func TestHandleCheck_EmptyTextIs400(t *testing.T) {
	t.Parallel()

	mux := newMux(t, httpapi.New(pipeline.New(acceptAll{}, true)))

	rec := doJSON(t, mux, "POST", "/check", `{"text": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleCheck_MalformedBodyIs400(t *testing.T) {
	t.Parallel()

	mux := newMux(t, httpapi.New(pipeline.New(acceptAll{}, true)))

	rec := doJSON(t, mux, "POST", "/check", `{"text": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleCheckWord(t *testing.T) {
	t.Parallel()

	p := pipeline.New(fixedOracle{"agac": "ağaç"}, true)
	mux := newMux(t, httpapi.New(p))

	rec := doJSON(t, mux, "POST", "/check-word", `{"word": "agac"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var res pipeline.WordResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.IsCorrect || res.Corrected != "ağaç" {
		t.Errorf("result = %+v", res)
	}
}

func TestHandleCheckWord_DegradedIs503(t *testing.T) {
	t.Parallel()

	mux := newMux(t, httpapi.New(pipeline.New(acceptAll{}, false)))

	rec := doJSON(t, mux, "POST", "/check-word", `{"word": "agac"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleCheck_DegradedStillServes(t *testing.T) {
	t.Parallel()

	mux := newMux(t, httpapi.New(pipeline.New(acceptAll{}, false)))

	rec := doJSON(t, mux, "POST", "/check", `{"text": "agac yok"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 in degraded mode", rec.Code)
	}

	var res pipeline.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.OracleAvailable {
		t.Error("oracle_available = true, want false")
	}
	if res.Corrected != "agac yok" {
		t.Errorf("corrected = %q, want pass-through", res.Corrected)
	}
}

func TestHandleInfo(t *testing.T) {
	t.Parallel()

	mux := newMux(t, httpapi.New(pipeline.New(acceptAll{}, true), httpapi.WithVersion("1.2.3")))

	rec := doJSON(t, mux, "GET", "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var res struct {
		Service string `json:"service"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Service != "imla" || res.Version != "1.2.3" {
		t.Errorf("info = %+v", res)
	}
}

func TestCustomWordEndpoints(t *testing.T) {
	t.Parallel()

	dict := memDict{}
	mux := newMux(t, httpapi.New(
		pipeline.New(acceptAll{}, true),
		httpapi.WithDictionary(dict),
	))

	rec := doJSON(t, mux, "POST", "/api/v1/custom-word", `{"word": "tübitak"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body = %s", rec.Code, rec.Body)
	}
	if !dict["tübitak"] {
		t.Error("word not added to dictionary")
	}

	rec = doJSON(t, mux, "DELETE", "/api/v1/custom-word/tübitak", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d, body = %s", rec.Code, rec.Body)
	}
	if dict["tübitak"] {
		t.Error("word not removed from dictionary")
	}

	rec = doJSON(t, mux, "DELETE", "/api/v1/custom-word/tübitak", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("remove absent word status = %d, want 404", rec.Code)
	}
}

func TestCustomWord_EmptyWordIs400(t *testing.T) {
	t.Parallel()

	mux := newMux(t, httpapi.New(
		pipeline.New(acceptAll{}, true),
		httpapi.WithDictionary(memDict{}),
	))

	rec := doJSON(t, mux, "POST", "/api/v1/custom-word", `{"word": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCustomWord_DisabledWithoutDictionary(t *testing.T) {
	t.Parallel()

	mux := newMux(t, httpapi.New(pipeline.New(acceptAll{}, true)))

	rec := doJSON(t, mux, "POST", "/api/v1/custom-word", `{"word": "tübitak"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when no dictionary is wired", rec.Code)
	}
}

// failStore always errors, to verify persistence failures do not mutate the
// in-memory dictionary.
type failStore struct{}

func (failStore) Add(context.Context, string) error            { return errors.New("db down") }
func (failStore) Remove(context.Context, string) (bool, error) { return false, errors.New("db down") }

func TestCustomWord_PersistFailureLeavesDictionaryUntouched(t *testing.T) {
	t.Parallel()

	dict := memDict{}
	mux := newMux(t, httpapi.New(
		pipeline.New(acceptAll{}, true),
		httpapi.WithDictionary(dict),
		httpapi.WithWordStore(failStore{}),
	))

	rec := doJSON(t, mux, "POST", "/api/v1/custom-word", `{"word": "tübitak"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if dict["tübitak"] {
		t.Error("dictionary mutated despite persistence failure")
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	mux := newMux(t, httpapi.New(pipeline.New(acceptAll{}, true)))
	h := httpapi.CORS(mux)

	req := httptest.NewRequest("OPTIONS", "/check", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
}
