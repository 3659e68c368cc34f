package model

type OrderStatus string

const (
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
)

// PharmacyOrder is a prescription in the pharmacy queue. ExtractedData
// is filled in asynchronously by the platform's OCR pipeline and is
// empty while parsing is still pending.
type PharmacyOrder struct {
	ID            int         `json:"id"`
	Status        OrderStatus `json:"status"`
	ExtractedData string      `json:"extracted_data,omitempty"`
}
