package order

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"velora/cart"
	"velora/catalog"
	"velora/config"
	"velora/coupon"
	"velora/db"
	"velora/models"
	"velora/mq"
	"velora/payment"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNotFound        = errors.New("order not found")
	ErrNumberConflict  = errors.New("order number conflict, retry")
	ErrCannotCancel    = errors.New("order cannot be cancelled")
	ErrStockDeduction  = errors.New("stock deduction failed")
	ErrPaymentNotOwed  = errors.New("order has no outstanding online payment")
	ErrConcurrentState = errors.New("order changed concurrently, retry")
)

// Service orchestrates checkout: it is the only writer of order records
// and the only caller of stock mutations.
type Service struct {
	catalog     catalog.Service
	carts       *cart.Service
	gateway     *payment.Gateway
	shipping    config.Shipping
	strictStock bool
}

func NewService(cat catalog.Service, carts *cart.Service, gateway *payment.Gateway, shipping config.Shipping, strictStock bool) *Service {
	return &Service{
		catalog:     cat,
		carts:       carts,
		gateway:     gateway,
		shipping:    shipping,
		strictStock: strictStock,
	}
}

// CreateRequest is the checkout payload.
type CreateRequest struct {
	ShippingAddress models.Address  `json:"shippingAddress"`
	BillingAddress  *models.Address `json:"billingAddress,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	Notes           string          `json:"notes,omitempty"`
	ClientIP        string          `json:"-"`
}

// ShippingFee is zero when the city matches any configured free-shipping
// city variant (case-sensitive substring match), else the flat fee.
func (s *Service) ShippingFee(address models.Address) float64 {
	for _, city := range s.shipping.FreeShippingCities {
		if strings.Contains(address.City, city) {
			return 0
		}
	}
	return s.shipping.FlatFee
}

// CreateOrder converts the user's cart into a durable order: persist the
// snapshot, commit coupon usage, deduct stock, clear the cart, request a
// payment URL for online methods. Stock deduction and payment-URL
// creation are best-effort; the order record is never blocked by a
// downstream outage.
func (s *Service) CreateOrder(ctx context.Context, userID string, req CreateRequest) (*models.Order, error) {
	c, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	switch req.PaymentMethod {
	case models.MethodCOD, models.MethodVNPay, models.MethodMoMo:
	default:
		return nil, payment.ErrInvalidMethod
	}

	shippingFee := s.ShippingFee(req.ShippingAddress)
	now := time.Now()

	items := make([]models.OrderItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Name:      it.Name,
			Slug:      it.Slug,
			Image:     it.Image,
			Size:      it.Size,
			Color:     it.Color,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	// The cart evaluated the coupon without a shipping fee. Re-evaluate
	// against the real fee so free-shipping coupons discount it, and so
	// a coupon that expired since it was applied is dropped.
	discount := 0.0
	couponCode := c.CouponCode
	if couponCode != "" {
		cpn, err := coupon.FindByCode(ctx, couponCode)
		if err != nil {
			log.Printf("CreateOrder: coupon %s lookup failed, dropping: %v", couponCode, err)
			couponCode = ""
		} else {
			refs := make([]coupon.LineRef, 0, len(c.Items))
			for _, it := range c.Items {
				refs = append(refs, coupon.LineRef{ProductID: it.ProductID, Price: it.Price, Quantity: it.Quantity})
			}
			result := coupon.Evaluate(cpn, userID, c.Subtotal, shippingFee, refs, now)
			if result.Valid {
				discount = result.Discount
			} else {
				log.Printf("CreateOrder: coupon %s no longer valid (%s), dropping", couponCode, result.Message)
				couponCode = ""
			}
		}
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	o := &models.Order{
		OrderNumber:     NewOrderNumber(now),
		UserID:          userID,
		Items:           items,
		Subtotal:        c.Subtotal,
		Discount:        discount,
		ShippingFee:     shippingFee,
		Total:           c.Subtotal - discount + shippingFee,
		CouponCode:      couponCode,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		Notes:           req.Notes,
		StatusHistory: []models.StatusChange{
			{Status: models.OrderPending, Note: "Order created", CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.OrderCollection.InsertOne(ctx, o); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrNumberConflict
		}
		return nil, err
	}

	// Coupon usage is committed together with order creation so a
	// limited-use coupon is only consumed by orders that exist.
	if o.CouponCode != "" {
		if err := coupon.MarkUsed(ctx, o.CouponCode, userID); err != nil {
			log.Printf("CreateOrder: failed to record coupon usage %s for order %s: %v", o.CouponCode, o.OrderNumber, err)
		}
	}

	if err := s.deductStock(ctx, o); err != nil {
		// strict mode only: the order is already persisted, so it is
		// cancelled rather than deleted and the failure surfaces. The
		// coupon use committed above is released with it.
		if o.CouponCode != "" {
			if err := coupon.ReleaseUse(ctx, o.CouponCode, userID); err != nil {
				log.Printf("CreateOrder: failed to release coupon %s for aborted order %s: %v", o.CouponCode, o.OrderNumber, err)
			}
		}
		s.forceCancel(ctx, o, "Stock deduction failed")
		return nil, ErrStockDeduction
	}

	if _, err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("CreateOrder: failed to clear cart for user %s: %v", userID, err)
	}

	if req.PaymentMethod != models.MethodCOD {
		payURL, err := s.gateway.CreatePaymentURL(ctx, o, req.PaymentMethod, req.ClientIP)
		if err != nil {
			log.Printf("CreateOrder: payment URL for order %s: %v", o.OrderNumber, err)
		} else {
			o.PaymentURL = payURL
			if _, err := db.OrderCollection.UpdateOne(ctx,
				bson.M{"orderNumber": o.OrderNumber},
				bson.M{"$set": bson.M{"paymentUrl": payURL, "updatedAt": time.Now()}},
			); err != nil {
				log.Printf("CreateOrder: persist payment URL for order %s: %v", o.OrderNumber, err)
			}
		}
	}

	mq.Emit(ctx, models.OrderEvent{
		Type:        mq.EventOrderCreated,
		UserID:      userID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		Total:       o.Total,
	})

	return o, nil
}

// deductStock walks the items one by one, logging and continuing on
// failures. In strict mode the first failure compensates the deductions
// already made and reports an error.
func (s *Service) deductStock(ctx context.Context, o *models.Order) error {
	var deducted []models.OrderItem
	for _, item := range o.Items {
		if err := s.catalog.DeductStock(ctx, item.ProductID, item.VariantID, item.Quantity); err != nil {
			log.Printf("Failed to deduct stock for product %s (order %s): %v", item.ProductID, o.OrderNumber, err)
			if s.strictStock {
				s.restoreItems(ctx, o.OrderNumber, deducted)
				return err
			}
			continue
		}
		deducted = append(deducted, item)
	}
	return nil
}

func (s *Service) restoreItems(ctx context.Context, orderNumber string, items []models.OrderItem) {
	for _, item := range items {
		if err := s.catalog.RestoreStock(ctx, item.ProductID, item.VariantID, item.Quantity); err != nil {
			log.Printf("Failed to restore stock for product %s (order %s): %v", item.ProductID, orderNumber, err)
		}
	}
}

// forceCancel marks a just-created order cancelled outside the normal
// transition path. Only used for strict-stock aborts.
func (s *Service) forceCancel(ctx context.Context, o *models.Order, note string) {
	now := time.Now()
	_, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderNumber": o.OrderNumber},
		bson.M{
			"$set": bson.M{"status": models.OrderCancelled, "cancelledAt": now, "updatedAt": now},
			"$push": bson.M{"statusHistory": models.StatusChange{
				Status: models.OrderCancelled, Note: note, CreatedAt: now,
			}},
		},
	)
	if err != nil {
		log.Printf("forceCancel order %s: %v", o.OrderNumber, err)
	}
}

// GetByNumber loads an order, optionally scoped to an owner.
func (s *Service) GetByNumber(ctx context.Context, orderNumber, userID string) (*models.Order, error) {
	filter := bson.M{"orderNumber": orderNumber}
	if userID != "" {
		filter["userId"] = userID
	}
	var o models.Order
	if err := db.OrderCollection.FindOne(ctx, filter).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListFilter selects orders for the listing endpoints.
type ListFilter struct {
	UserID        string
	Status        string
	PaymentStatus string
	Search        string
	Skip          int64
	Limit         int64
}

// List returns orders newest first with the total match count.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Order, int64, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"orderNumber": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"shippingAddress.fullName": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"shippingAddress.phone": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(f.Skip).
		SetLimit(f.Limit)

	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	if orders == nil {
		orders = []models.Order{}
	}

	total, err := db.OrderCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// StatusUpdate is the admin payload for advancing an order.
type StatusUpdate struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	TrackingURL    string `json:"trackingUrl,omitempty"`
	Note           string `json:"note,omitempty"`
}

// UpdateStatus advances the state machine with a compare-and-swap: the
// transition is validated against the persisted status and committed
// only if that status is still current. Cancellation from a
// stock-holding state restores stock.
func (s *Service) UpdateStatus(ctx context.Context, orderNumber string, upd StatusUpdate, actorID string) (*models.Order, error) {
	if !IsKnownStatus(upd.Status) {
		return nil, &InvalidTransitionError{From: "?", To: upd.Status}
	}

	for attempt := 0; attempt < 3; attempt++ {
		o, err := s.GetByNumber(ctx, orderNumber, "")
		if err != nil {
			return nil, err
		}
		if err := ValidateTransition(o.Status, upd.Status); err != nil {
			return nil, err
		}

		now := time.Now()
		set := bson.M{"status": upd.Status, "updatedAt": now}
		if upd.TrackingNumber != "" {
			set["trackingNumber"] = upd.TrackingNumber
		}
		if upd.TrackingURL != "" {
			set["trackingUrl"] = upd.TrackingURL
		}
		if upd.Status == models.OrderCancelled {
			set["cancelledAt"] = now
		}

		res, err := db.OrderCollection.UpdateOne(ctx,
			bson.M{"orderNumber": orderNumber, "status": o.Status},
			bson.M{
				"$set": set,
				"$push": bson.M{"statusHistory": models.StatusChange{
					Status: upd.Status, Note: upd.Note, CreatedBy: actorID, CreatedAt: now,
				}},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.ModifiedCount == 0 {
			// Lost the race; re-evaluate against the fresh status.
			continue
		}

		if upd.Status == models.OrderCancelled && restoresStock(o.Status) {
			s.restoreItems(ctx, o.OrderNumber, o.Items)
		}

		updated, err := s.GetByNumber(ctx, orderNumber, "")
		if err != nil {
			return nil, err
		}
		mq.Emit(ctx, models.OrderEvent{
			Type:        mq.EventStatusChanged,
			UserID:      updated.UserID,
			OrderNumber: updated.OrderNumber,
			Status:      updated.Status,
		})
		return updated, nil
	}
	return nil, ErrConcurrentState
}

// Cancel is the user-facing cancellation: only pending or confirmed
// orders qualify, stock is restored, the event is emitted.
func (s *Service) Cancel(ctx context.Context, orderNumber, userID string) (*models.Order, error) {
	o, err := s.GetByNumber(ctx, orderNumber, userID)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OrderPending && o.Status != models.OrderConfirmed {
		return nil, ErrCannotCancel
	}

	now := time.Now()
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderNumber": orderNumber, "userId": userID, "status": o.Status},
		bson.M{
			"$set": bson.M{"status": models.OrderCancelled, "cancelledAt": now, "updatedAt": now},
			"$push": bson.M{"statusHistory": models.StatusChange{
				Status: models.OrderCancelled, Note: "Cancelled by customer", CreatedBy: userID, CreatedAt: now,
			}},
		},
	)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount == 0 {
		return nil, ErrCannotCancel
	}

	s.restoreItems(ctx, o.OrderNumber, o.Items)

	mq.Emit(ctx, models.OrderEvent{
		Type:        mq.EventOrderCancelled,
		UserID:      userID,
		OrderNumber: o.OrderNumber,
		Status:      models.OrderCancelled,
	})

	return s.GetByNumber(ctx, orderNumber, userID)
}

// HandlePaymentResult applies an authenticated gateway notification.
// Keyed by order number and idempotent against re-delivery: a paid order
// is never re-marked and the auto-confirm only fires
// while the order is still pending.
func (s *Service) HandlePaymentResult(ctx context.Context, orderNumber string, success bool, transactionID string) error {
	o, err := s.GetByNumber(ctx, orderNumber, "")
	if err != nil {
		return err
	}

	now := time.Now()
	if success {
		res, err := db.OrderCollection.UpdateOne(ctx,
			bson.M{"orderNumber": orderNumber, "paymentStatus": bson.M{"$ne": models.PaymentPaid}},
			bson.M{"$set": bson.M{
				"paymentStatus": models.PaymentPaid,
				"transactionId": transactionID,
				"paidAt":        now,
				"updatedAt":     now,
			}},
		)
		if err != nil {
			return err
		}
		if res.ModifiedCount == 0 {
			// Re-delivered notification; nothing left to do.
			return nil
		}

		// Auto-confirm a still-pending order.
		_, err = db.OrderCollection.UpdateOne(ctx,
			bson.M{"orderNumber": orderNumber, "status": models.OrderPending},
			bson.M{
				"$set": bson.M{"status": models.OrderConfirmed, "updatedAt": now},
				"$push": bson.M{"statusHistory": models.StatusChange{
					Status: models.OrderConfirmed, Note: "Payment received", CreatedAt: now,
				}},
			},
		)
		if err != nil {
			return err
		}
	} else {
		_, err := db.OrderCollection.UpdateOne(ctx,
			bson.M{"orderNumber": orderNumber, "paymentStatus": models.PaymentPending},
			bson.M{"$set": bson.M{
				"paymentStatus": models.PaymentFailed,
				"transactionId": transactionID,
				"updatedAt":     now,
			}},
		)
		if err != nil {
			return err
		}
	}

	mq.Emit(ctx, models.OrderEvent{
		Type:        mq.EventPaymentUpdated,
		UserID:      o.UserID,
		OrderNumber: orderNumber,
		Status:      paymentStatusLabel(success),
	})
	return nil
}

func paymentStatusLabel(success bool) string {
	if success {
		return models.PaymentPaid
	}
	return models.PaymentFailed
}

// RetryPaymentURL regenerates a payment URL for an order created while
// the gateway was unavailable.
func (s *Service) RetryPaymentURL(ctx context.Context, orderNumber, userID, clientIP string) (*models.Order, error) {
	o, err := s.GetByNumber(ctx, orderNumber, userID)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod == models.MethodCOD || o.PaymentStatus == models.PaymentPaid || o.Status == models.OrderCancelled {
		return nil, ErrPaymentNotOwed
	}

	payURL, err := s.gateway.CreatePaymentURL(ctx, o, o.PaymentMethod, clientIP)
	if err != nil {
		return nil, err
	}

	o.PaymentURL = payURL
	_, err = db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderNumber": orderNumber},
		bson.M{"$set": bson.M{"paymentUrl": payURL, "updatedAt": time.Now()}},
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}
