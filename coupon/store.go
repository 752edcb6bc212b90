package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"velora/db"
	"velora/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("coupon not found")

// FindByCode looks a coupon up by its uppercased code.
func FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var c models.Coupon
	err := db.CouponCollection.FindOne(ctx, bson.M{"code": code}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// MarkUsed records a finalized use of a coupon: increments usedCount and
// appends the user to usedBy. Called exactly once per created order that
// carries a coupon; validation never mutates.
func MarkUsed(ctx context.Context, code, userID string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	res, err := db.CouponCollection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{
			"$inc":  bson.M{"usedCount": 1},
			"$push": bson.M{"usedBy": userID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReleaseUse compensates a MarkUsed when the order it was committed for
// is aborted: decrements usedCount and removes one occurrence of the
// user from usedBy. Read-modify-write, since $pull would drop every
// occurrence for users allowed multiple uses.
func ReleaseUse(ctx context.Context, code, userID string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	var c models.Coupon
	if err := db.CouponCollection.FindOne(ctx, bson.M{"code": code}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	used := c.UsedCount - 1
	if used < 0 {
		used = 0
	}

	_, err := db.CouponCollection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{
			"usedCount": used,
			"usedBy":    removeOneUse(c.UsedBy, userID),
			"updatedAt": time.Now(),
		}},
	)
	return err
}

// removeOneUse drops the first occurrence of userID, leaving further
// occurrences (and everyone else) intact.
func removeOneUse(usedBy []string, userID string) []string {
	out := make([]string, 0, len(usedBy))
	removed := false
	for _, id := range usedBy {
		if !removed && id == userID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	return out
}
