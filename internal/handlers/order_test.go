package handlers

import (
	"testing"

	"backend/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func validCreateRequest() createOrderRequest {
	return createOrderRequest{
		Name:    "Jane Doe",
		Phone1:  "0771234567",
		Address: "221B Baker St",
		CartItems: []orderItemRequest{
			{ProductName: "Tee", Quantity: 2, Color: "black", Price: floatPtr(1500)},
		},
		TotalAmount: floatPtr(3000),
	}
}

func TestBuildOrderFromRequestDefaultsStatusToPending(t *testing.T) {
	order, err := buildOrderFromRequest(validCreateRequest())
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Fatalf("expected status pending, got %q", order.Status)
	}
	if order.TotalAmount != 3000 {
		t.Fatalf("expected totalAmount 3000, got %v", order.TotalAmount)
	}
	if len(order.CartItems) != 1 || order.CartItems[0].Price != 1500 {
		t.Fatalf("unexpected cart items: %+v", order.CartItems)
	}
}

func TestBuildOrderFromRequestKeepsSuppliedStatus(t *testing.T) {
	req := validCreateRequest()
	req.Status = models.OrderStatusCompleted

	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.Status != models.OrderStatusCompleted {
		t.Fatalf("expected status completed, got %q", order.Status)
	}
}

func TestBuildOrderFromRequestRejectsUnknownStatus(t *testing.T) {
	req := validCreateRequest()
	req.Status = "shipped"

	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

// The submitted total is stored as-is; mismatched arithmetic is the caller's
// problem unless verifyTotals is on.
func TestBuildOrderFromRequestStoresMismatchedTotal(t *testing.T) {
	req := validCreateRequest()
	req.TotalAmount = floatPtr(9999)

	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.TotalAmount != 9999 {
		t.Fatalf("expected totalAmount stored as submitted (9999), got %v", order.TotalAmount)
	}
}

func TestVerifyOrderTotal(t *testing.T) {
	items := []models.OrderItem{
		{ProductName: "Tee", Quantity: 2, Color: "black", Price: 1500},
		{ProductName: "Cap", Quantity: 1, Color: "red", Price: 800},
	}

	if err := verifyOrderTotal(items, 3800); err != nil {
		t.Fatalf("expected matching total to pass, got %v", err)
	}
	if err := verifyOrderTotal(items, 3800.005); err != nil {
		t.Fatalf("expected total within tolerance to pass, got %v", err)
	}
	if err := verifyOrderTotal(items, 9999); err == nil {
		t.Fatal("expected mismatched total to fail")
	}
}

func TestBuildOrderUpdateOnlyNamedFields(t *testing.T) {
	update, err := buildOrderUpdate(updateOrderRequest{Status: strPtr(models.OrderStatusCompleted)})
	if err != nil {
		t.Fatalf("buildOrderUpdate returned error: %v", err)
	}
	if len(update) != 1 {
		t.Fatalf("expected exactly one field in update, got %v", update)
	}
	if update["status"] != models.OrderStatusCompleted {
		t.Fatalf("expected status completed, got %v", update["status"])
	}
}

func TestBuildOrderUpdateRejectsEmptyRequest(t *testing.T) {
	if _, err := buildOrderUpdate(updateOrderRequest{}); err == nil {
		t.Fatal("expected error for empty update")
	}
}

func TestBuildOrderUpdateRejectsEmptyRequiredFields(t *testing.T) {
	cases := []updateOrderRequest{
		{Name: strPtr("  ")},
		{Phone1: strPtr("")},
		{Address: strPtr("")},
		{Status: strPtr("done")},
		{CartItems: &[]orderItemRequest{}},
		{CartItems: &[]orderItemRequest{{ProductName: "Tee", Quantity: 0, Color: "black", Price: floatPtr(10)}}},
		{CartItems: &[]orderItemRequest{{ProductName: "Tee", Quantity: 1, Color: "black"}}},
	}
	for i, req := range cases {
		if _, err := buildOrderUpdate(req); err == nil {
			t.Fatalf("case %d: expected validation error, got none", i)
		}
	}
}

func TestBuildOrderUpdateReplacesCartItems(t *testing.T) {
	items := []orderItemRequest{
		{ProductName: "Hoodie", Quantity: 1, Color: "grey", Price: floatPtr(4500)},
	}
	update, err := buildOrderUpdate(updateOrderRequest{
		CartItems:   &items,
		TotalAmount: floatPtr(4500),
	})
	if err != nil {
		t.Fatalf("buildOrderUpdate returned error: %v", err)
	}

	got, ok := update["cartItems"].([]models.OrderItem)
	if !ok {
		t.Fatalf("expected cartItems to be []models.OrderItem, got %T", update["cartItems"])
	}
	if len(got) != 1 || got[0].ProductName != "Hoodie" || got[0].Price != 4500 {
		t.Fatalf("unexpected cart items: %+v", got)
	}
	if update["totalAmount"] != 4500.0 {
		t.Fatalf("expected totalAmount 4500, got %v", update["totalAmount"])
	}
}
