package request

// QuotesRequest lists the symbols to quote.
type QuotesRequest struct {
	Symbols []string `json:"symbols"`
}
