package models

// ServiceInfo is the snapshot of the chosen medical service that the booking
// flow prices against. DiscountPrice applies only when it is positive and
// strictly below Price.
type ServiceInfo struct {
	ID              string  `json:"id"`
	Name            string  `json:"name,omitempty"`
	Price           float64 `json:"price"`
	DiscountPrice   float64 `json:"discountPrice"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
}
