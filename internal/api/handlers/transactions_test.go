package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
)

func setupTransactionHandler(t *testing.T) (*TransactionHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewTransactionHandler(testutil.NewTestTradeService(t, db)), db
}

func postTrade(handler *TransactionHandler, userID, body string) *httptest.ResponseRecorder {
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/trade", strings.NewReader(body)), userID)
	w := httptest.NewRecorder()
	handler.Trade(w, req)
	return w
}

func TestTransactionHandler_Trade(t *testing.T) {
	t.Run("executes a buy", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.CreateUser(t, db)

		w := postTrade(handler, user.ID, `{"symbol":"aapl","shares":10,"price":150.25,"type":"buy"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var tx model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&tx)

		if tx.Symbol != "AAPL" || tx.Type != model.TransactionTypeBuy || tx.Shares != 10 {
			t.Errorf("Unexpected transaction: %+v", tx)
		}
		if !tx.PricePerShare.Equal(decimal.RequireFromString("150.25")) {
			t.Errorf("Expected price 150.25, got %s", tx.PricePerShare)
		}
		testutil.AssertRowCount(t, db, "transaction", 1)
		testutil.AssertRowCount(t, db, "holding", 1)
	})

	t.Run("rejects a buy over the cash balance", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().WithCash(decimal.NewFromInt(100)).Build(t, db)

		w := postTrade(handler, user.ID, `{"symbol":"AAPL","shares":1,"price":"100.01","type":"BUY"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}

		var body response.ErrorResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)

		if body.Error != "Not enough cash to make this purchase." {
			t.Errorf("Unexpected error message %q", body.Error)
		}
		testutil.AssertRowCount(t, db, "transaction", 0)
	})

	t.Run("rejects a sell over the shares held", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.CreateUser(t, db)
		testutil.NewHolding(user.ID).WithSymbol("AAPL").WithShares(2).Build(t, db)

		w := postTrade(handler, user.ID, `{"symbol":"AAPL","shares":3,"price":10,"type":"SELL"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}

		var body response.ErrorResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)

		if body.Error != "Not enough shares to sell." {
			t.Errorf("Unexpected error message %q", body.Error)
		}
	})

	t.Run("rejects invalid orders", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.CreateUser(t, db)

		for _, body := range []string{
			`{"symbol":"AAPL","shares":1.5,"price":10,"type":"BUY"}`,
			`{"symbol":"AAPL","shares":0,"price":10,"type":"BUY"}`,
			`{"symbol":"AAPL","shares":1,"price":-1,"type":"BUY"}`,
			`{"symbol":"AAPL","shares":1,"price":10,"type":"HOLD"}`,
			`{"shares":1,"price":10,"type":"BUY"}`,
		} {
			w := postTrade(handler, user.ID, body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Body %s: expected 400, got %d", body, w.Code)
			}
		}
		testutil.AssertRowCount(t, db, "transaction", 0)
	})
}

func TestTransactionHandler_AllTransactions(t *testing.T) {
	t.Run("returns empty array when no transactions exist", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.CreateUser(t, db)

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/transactions", nil), user.ID)
		w := httptest.NewRecorder()

		handler.AllTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response == nil || len(response) != 0 {
			t.Errorf("Expected empty array, got %v", response)
		}
	})

	t.Run("returns only the user's transactions in log order", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.CreateUser(t, db)
		other := testutil.CreateUser(t, db)

		first := testutil.NewTransaction(user.ID).WithSymbol("AAA").Build(t, db)
		testutil.NewTransaction(other.ID).Build(t, db)
		second := testutil.NewTransaction(user.ID).WithSymbol("BBB").Build(t, db)

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/transactions", nil), user.ID)
		w := httptest.NewRecorder()

		handler.AllTransactions(w, req)

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(response))
		}
		if response[0].ID != first.ID || response[1].ID != second.ID {
			t.Errorf("Unexpected order: %s, %s", response[0].ID, response[1].ID)
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("returns the transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.CreateUser(t, db)
		tx := testutil.NewTransaction(user.ID).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transactions/"+tx.ID, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()

		handler.GetTransaction(w, withUser(req, user.ID))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.ID != tx.ID {
			t.Errorf("Expected ID %s, got %s", tx.ID, response.ID)
		}
	})

	t.Run("returns 404 for another user's transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.CreateUser(t, db)
		other := testutil.CreateUser(t, db)
		tx := testutil.NewTransaction(other.ID).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transactions/"+tx.ID, map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()

		handler.GetTransaction(w, withUser(req, user.ID))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
