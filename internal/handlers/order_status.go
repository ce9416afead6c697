package handlers

import "backend/internal/models"

// canTransitionStatus implements the guarded flow used when strictStatusFlow
// is on: pending may progress to completed or cancelled, terminal states stay
// terminal. Same-state updates are always allowed so full-document edits that
// resend the current status keep working.
//
// With the flag off every transition is allowed, including completed back to
// pending; the storefront does not model fulfillment as a forward-only
// pipeline.
func canTransitionStatus(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case models.OrderStatusPending:
		return to == models.OrderStatusCompleted || to == models.OrderStatusCancelled
	default:
		return false
	}
}
