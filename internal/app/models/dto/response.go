package dto

// APIResponse is the envelope returned by every endpoint: exactly one of
// Data or Error is set.
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// SuccessResponse represents a plain acknowledgement message
type SuccessResponse struct {
	Message string `json:"message"`
}

// OrderSavedResponse acknowledges a batch order update. The body is always
// {"saved":"OK"}, regardless of how many rows matched the ownership scope.
type OrderSavedResponse struct {
	Saved string `json:"saved" example:"OK"`
}

// NewOrderSavedResponse creates the fixed reorder acknowledgement
func NewOrderSavedResponse() OrderSavedResponse {
	return OrderSavedResponse{Saved: "OK"}
}

// PaginationInfo describes the page window of a list response
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"5"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"42"`
}
