package request

// SeatTableRequest opens a table order
type SeatTableRequest struct {
	TableID string `json:"tableId" binding:"required"`
	Guests  int    `json:"guests" binding:"required,min=1"`
}

// WaiterItemRequest is one product line of a waiter order
type WaiterItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// WaiterOrderRequest sends a round of items to an open table
type WaiterOrderRequest struct {
	Items []WaiterItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes *string             `json:"notes"`
}
