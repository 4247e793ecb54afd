package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kmorrow11/arstory/internal/storage"
	"github.com/kmorrow11/arstory/pkg/markers"
)

func TestMarkersHandler_List(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	mockStorage.SetMarkerSets([]markers.MarkerSet{
		{ID: "marker1", Iset: "marker1.iset", Fset: "marker1.fset", Fset3: "marker1.fset3"},
		{ID: "marker2", Iset: "marker2.iset"},
	})
	handler := NewMarkersHandler(testLogger(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/v1/markers", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var statuses []MarkerStatus
	if err := json.NewDecoder(rr.Body).Decode(&statuses); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(statuses) != 2 {
		t.Fatalf("Expected 2 marker statuses, got %d", len(statuses))
	}
	if !statuses[0].Complete {
		t.Errorf("Expected marker1 to be complete")
	}
	if statuses[1].Complete {
		t.Errorf("Expected marker2 to be incomplete")
	}
	if len(statuses[1].Missing) != 2 {
		t.Errorf("Expected marker2 to be missing 2 files, got %v", statuses[1].Missing)
	}
}

func TestMarkersHandler_Empty(t *testing.T) {
	mockStorage := storage.NewMockStorage()
	handler := NewMarkersHandler(testLogger(), mockStorage)

	req := httptest.NewRequest(http.MethodGet, "/v1/markers", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if body := rr.Body.String(); body == "null\n" {
		t.Errorf("Expected empty array, got null")
	}
}
