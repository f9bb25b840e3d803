package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
)

func setupSystemHandler(t *testing.T, mock *testutil.MockYahooClient) (*SystemHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ss := testutil.NewTestSystemService(t, db)
	ps := testutil.NewTestPriceService(t, db, mock)
	return NewSystemHandler(ss, ps), db
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("returns healthy status when database is connected", func(t *testing.T) {
		handler, _ := setupSystemHandler(t, testutil.NewMockYahooClient())

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != "healthy" {
			t.Errorf("Expected status 'healthy', got '%s'", response.Status)
		}

		if response.Database != "connected" {
			t.Errorf("Expected database 'connected', got '%s'", response.Database)
		}

		if response.Error != "" {
			t.Errorf("Expected no error, got '%s'", response.Error)
		}
	})

	t.Run("returns 503 when database is disconnected", func(t *testing.T) {
		handler, db := setupSystemHandler(t, testutil.NewMockYahooClient())

		// Close the database connection to simulate failure
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestSystemHandler_Version(t *testing.T) {
	t.Run("returns version information successfully", func(t *testing.T) {
		handler, _ := setupSystemHandler(t, testutil.NewMockYahooClient())

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		handler.Version(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.VersionInfo
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.AppVersion == "" {
			t.Error("Expected app_version to be populated")
		}

		if response.DbVersion == "" {
			t.Error("Expected db_version to be populated")
		}
	})
}

func TestSystemHandler_RefreshPrices(t *testing.T) {
	today := time.Now().UTC()

	t.Run("back-fills held symbols", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().
			WithSymbolResponse("ACME", testutil.CreateMockYahooResponseFromCloses("ACME", today, []float64{42}))
		handler, db := setupSystemHandler(t, mock)
		user := testutil.CreateUser(t, db)
		testutil.NewHolding(user.ID).WithSymbol("ACME").Build(t, db)

		w := httptest.NewRecorder()
		handler.RefreshPrices(w, httptest.NewRequest(http.MethodPost, "/api/system/prices/refresh", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response RefreshResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Refreshed != 1 {
			t.Errorf("Expected 1 refreshed symbol, got %d", response.Refreshed)
		}
		testutil.AssertRowCount(t, db, "close_price", 1)
	})

	t.Run("reports failed symbols with 502", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().WithSymbolError("GONE", errors.New("delisted"))
		handler, db := setupSystemHandler(t, mock)
		user := testutil.CreateUser(t, db)
		testutil.NewHolding(user.ID).WithSymbol("GONE").Build(t, db)

		w := httptest.NewRecorder()
		handler.RefreshPrices(w, httptest.NewRequest(http.MethodPost, "/api/system/prices/refresh", nil))

		if w.Code != http.StatusBadGateway {
			t.Fatalf("Expected 502, got %d: %s", w.Code, w.Body.String())
		}

		var response RefreshResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Refreshed != 0 || response.Error == "" {
			t.Errorf("Unexpected response: %+v", response)
		}
	})
}
