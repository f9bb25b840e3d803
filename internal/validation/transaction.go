package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// ValidTransactionType contains the allowed transaction type values, upper case.
var ValidTransactionType = map[string]bool{
	string(model.TransactionTypeBuy):  true,
	string(model.TransactionTypeSell): true,
}

// ValidateTrade validates an order.
//
// Required fields:
//   - symbol: A ticker symbol
//   - shares: A positive whole number
//   - price: Positive
//   - type: BUY or SELL, case-insensitive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateTrade(req request.TradeRequest) error {
	errors := make(map[string]string)

	if err := ValidateSymbol(req.Symbol); err != nil {
		errors["symbol"] = err.Error()
	}

	if req.Shares <= 0 {
		errors["shares"] = "shares must be a positive whole number"
	}

	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !ValidTransactionType[strings.ToUpper(req.Type)] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
