package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kmorrow11/arstory/internal/storage"
	"github.com/kmorrow11/arstory/pkg/experience"
)

func TestExperienceHandler_List(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	handler := NewExperienceHandler(testLogger(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/v1/experiences", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var list map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if list["Foo Experience"] != "foo_experience.json" {
		t.Errorf("Expected Foo Experience -> foo_experience.json, got %v", list)
	}
}

func TestExperienceHandler_Get(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	handler := NewExperienceHandler(testLogger(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/v1/experiences/foo_experience.json", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d. Body: %s", rr.Code, rr.Body.String())
	}

	var exp experience.Experience
	if err := json.NewDecoder(rr.Body).Decode(&exp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if exp.Name != "Foo Experience" {
		t.Errorf("Expected Foo Experience, got %s", exp.Name)
	}
	if len(exp.Chapters) != experience.ChapterCount {
		t.Errorf("Expected %d chapters, got %d", experience.ChapterCount, len(exp.Chapters))
	}
}

func TestExperienceHandler_GetNotFound(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	handler := NewExperienceHandler(testLogger(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/v1/experiences/nope.json", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestExperienceHandler_InvalidFilename(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	handler := NewExperienceHandler(testLogger(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/v1/experiences/..%2Fsecrets.json", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}
