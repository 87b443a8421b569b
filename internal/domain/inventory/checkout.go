package inventory

// CheckoutResult is the decision for one checkout attempt.
type CheckoutResult struct {
	OK     bool   `json:"ok"`
	NewQty int    `json:"new_qty,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ValidateCheckout decides whether requested units can be taken from
// onHand stock. The caller resolves the stock item first; this guard
// assumes a resolved item. The returned NewQty is never negative.
func ValidateCheckout(onHand, requested int) CheckoutResult {
	if requested <= 0 {
		return CheckoutResult{Reason: "quantity must be positive"}
	}
	if requested > onHand {
		return CheckoutResult{Reason: "insufficient quantity"}
	}
	return CheckoutResult{OK: true, NewQty: onHand - requested}
}
