package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"backend/internal/featureflags"
	"backend/internal/models"
)

var strictFlagsOnce sync.Once

// The guarded branches only run with the flags on; the permissive defaults
// are already covered by the pure helper tests.
func initStrictFlags(t *testing.T) {
	t.Helper()
	strictFlagsOnce.Do(func() {
		err := featureflags.Init(context.Background(), "", featureflags.Defaults{
			StrictStatusFlow: true,
			VerifyTotals:     true,
		})
		if err != nil && err != featureflags.ErrNoAPIKey {
			t.Fatalf("feature flag init failed: %v", err)
		}
	})
}

func jsonTestContext(t *testing.T, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func bsonDoc(t *testing.T, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	return doc
}

func TestDeleteOrderSecondDeleteReturnsNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("delete twice", func(mt *mtest.T) {
		handler := DeleteOrder(mt.DB)
		id := primitive.NewObjectID().Hex()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		c, w := jsonTestContext(mt.T, "DELETE", "/api/orders/"+id, nil)
		c.Params = gin.Params{{Key: "id", Value: id}}
		handler(c)
		if w.Code != http.StatusOK {
			mt.Fatalf("expected 200 on first delete, got %d: %s", w.Code, w.Body.String())
		}

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		c, w = jsonTestContext(mt.T, "DELETE", "/api/orders/"+id, nil)
		c.Params = gin.Params{{Key: "id", Value: id}}
		handler(c)
		if w.Code != http.StatusNotFound {
			mt.Fatalf("expected 404 on second delete, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestCreateOrderThenGetReturnsSameOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("round trip", func(mt *mtest.T) {
		initStrictFlags(mt.T)

		// ping, then insert
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		c, w := jsonTestContext(mt.T, "POST", "/api/orders", gin.H{
			"name":    "Jane Doe",
			"phone1":  "0771234567",
			"address": "221B Baker St",
			"cartItems": []gin.H{
				{"productName": "Classic Tee", "quantity": 2, "color": "black", "price": 1500},
			},
			"totalAmount": 3000,
		})
		CreateOrder(mt.DB)(c)
		if w.Code != http.StatusCreated {
			mt.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var created models.Order
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			mt.Fatalf("decode create response: %v", err)
		}
		if created.ID.IsZero() {
			mt.Fatal("expected created order to carry its inserted id")
		}

		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".orders", mtest.FirstBatch, bsonDoc(mt.T, created)))

		c, w = jsonTestContext(mt.T, "GET", "/api/orders/"+created.ID.Hex(), nil)
		c.Params = gin.Params{{Key: "id", Value: created.ID.Hex()}}
		GetOrder(mt.DB)(c)
		if w.Code != http.StatusOK {
			mt.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got models.Order
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			mt.Fatalf("decode get response: %v", err)
		}
		if got.ID != created.ID {
			mt.Fatalf("expected id %s, got %s", created.ID.Hex(), got.ID.Hex())
		}
		if got.Name != "Jane Doe" || got.Phone1 != "0771234567" || got.Address != "221B Baker St" {
			mt.Fatalf("customer fields changed across the round trip: %+v", got)
		}
		if got.Status != models.OrderStatusPending || got.TotalAmount != 3000 {
			mt.Fatalf("order fields changed across the round trip: %+v", got)
		}
		if len(got.CartItems) != 1 || got.CartItems[0] != created.CartItems[0] {
			mt.Fatalf("cart items changed across the round trip: %+v", got.CartItems)
		}
	})
}

func TestCreateOrderRejectsMismatchedTotalWhenVerifyOn(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("mismatched total", func(mt *mtest.T) {
		initStrictFlags(mt.T)

		// ping only; the insert must never be reached
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		c, w := jsonTestContext(mt.T, "POST", "/api/orders", gin.H{
			"name":    "Jane Doe",
			"phone1":  "0771234567",
			"address": "221B Baker St",
			"cartItems": []gin.H{
				{"productName": "Classic Tee", "quantity": 2, "color": "black", "price": 1500},
			},
			"totalAmount": 9999,
		})
		CreateOrder(mt.DB)(c)
		if w.Code != http.StatusBadRequest {
			mt.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "does not match") {
			mt.Fatalf("expected total mismatch error, got %s", w.Body.String())
		}
	})
}

func TestUpdateOrderStatusOnlyKeepsOtherFields(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("status only update", func(mt *mtest.T) {
		initStrictFlags(mt.T)

		existing := models.Order{
			ID:          primitive.NewObjectID(),
			Name:        "Jane Doe",
			Phone1:      "0771234567",
			Address:     "221B Baker St",
			CartItems:   []models.OrderItem{{ProductName: "Classic Tee", Quantity: 2, Color: "black", Price: 1500}},
			TotalAmount: 3000,
			Status:      models.OrderStatusPending,
		}
		after := existing
		after.Status = models.OrderStatusCompleted

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".orders", mtest.FirstBatch, bsonDoc(mt.T, existing)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bsonDoc(mt.T, after)}),
		)

		c, w := jsonTestContext(mt.T, "PUT", "/api/orders/"+existing.ID.Hex(), gin.H{"status": "completed"})
		c.Params = gin.Params{{Key: "id", Value: existing.ID.Hex()}}
		UpdateOrder(mt.DB)(c)
		if w.Code != http.StatusOK {
			mt.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got models.Order
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			mt.Fatalf("decode update response: %v", err)
		}
		if got.Status != models.OrderStatusCompleted {
			mt.Fatalf("expected status completed, got %s", got.Status)
		}
		if got.Name != existing.Name || got.Phone1 != existing.Phone1 || got.Address != existing.Address ||
			got.TotalAmount != existing.TotalAmount {
			mt.Fatalf("untouched fields changed: %+v", got)
		}
		if len(got.CartItems) != 1 || got.CartItems[0] != existing.CartItems[0] {
			mt.Fatalf("untouched cart items changed: %+v", got.CartItems)
		}
	})
}

func TestUpdateOrderRejectsTerminalTransitionWhenStrictOn(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("completed to pending", func(mt *mtest.T) {
		initStrictFlags(mt.T)

		existing := models.Order{
			ID:          primitive.NewObjectID(),
			Name:        "Jane Doe",
			Phone1:      "0771234567",
			Address:     "221B Baker St",
			TotalAmount: 3000,
			Status:      models.OrderStatusCompleted,
		}

		// only the lookup; findAndModify must never run
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".orders", mtest.FirstBatch, bsonDoc(mt.T, existing)),
		)

		c, w := jsonTestContext(mt.T, "PUT", "/api/orders/"+existing.ID.Hex(), gin.H{"status": "pending"})
		c.Params = gin.Params{{Key: "id", Value: existing.ID.Hex()}}
		UpdateOrder(mt.DB)(c)
		if w.Code != http.StatusBadRequest {
			mt.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "invalid status transition") {
			mt.Fatalf("expected transition error, got %s", w.Body.String())
		}
	})
}

func TestCheckoutStoresTrimmedCustomerFields(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("padded customer fields", func(mt *mtest.T) {
		product := models.Product{ProductID: "tee-01", Name: "Classic Tee", Price: 1500}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".products", mtest.FirstBatch, bsonDoc(mt.T, product)),
			mtest.CreateSuccessResponse(),
		)

		c, w := jsonTestContext(mt.T, "POST", "/api/orders/checkout", gin.H{
			"name":    "  Jane Doe  ",
			"phone1":  " 0771234567 ",
			"address": "  221B Baker St ",
			"items": []gin.H{
				{"productId": "tee-01", "quantity": 2, "color": "black"},
			},
		})
		Checkout(mt.DB)(c)
		if w.Code != http.StatusCreated {
			mt.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var got models.Order
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			mt.Fatalf("decode checkout response: %v", err)
		}
		if got.Name != "Jane Doe" || got.Phone1 != "0771234567" || got.Address != "221B Baker St" {
			mt.Fatalf("expected trimmed customer fields, got %+v", got)
		}
		if got.TotalAmount != 3000 {
			mt.Fatalf("expected total 3000, got %v", got.TotalAmount)
		}
	})
}
