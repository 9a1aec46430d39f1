package booking

import "medibook/models"

// ResolveAmount selects the fee to charge for a service: the discount price
// when it is positive and strictly below the base price, otherwise the base
// price. A discount at or above the base price is treated as malformed data
// and ignored. When no price data exists at all, the configured fallback
// visit fee applies.
func ResolveAmount(svc *models.ServiceInfo, fallback float64) float64 {
	if svc == nil || (svc.Price <= 0 && svc.DiscountPrice <= 0) {
		return fallback
	}
	if svc.DiscountPrice > 0 && (svc.Price <= 0 || svc.DiscountPrice < svc.Price) {
		return svc.DiscountPrice
	}
	return svc.Price
}
