package utils

import (
	rndm "math/rand"
	"net/http"
	"strconv"

	"velora/globals"

	"github.com/google/uuid"
)

// --- Random String and ID Generators ---

var base36Runes = []rune("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateBase36String creates a random uppercase base-36 string of length n.
func GenerateBase36String(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = base36Runes[rndm.Intn(len(base36Runes))]
	}
	return string(b)
}

func GetUUID() string {
	return uuid.New().String()
}

// --- Request Context Helpers ---

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetRolesFromRequest(r *http.Request) []string {
	roles, ok := r.Context().Value(globals.RoleKey).([]string)
	if !ok {
		return nil
	}
	return roles
}

// --- Pagination ---

// ParsePagination reads page/limit query params and returns skip and limit
// suitable for a Mongo Find, clamping limit at max.
func ParsePagination(r *http.Request, def, max int64) (page, skip, limit int64) {
	q := r.URL.Query()

	page = 1
	if p, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil && p > 0 {
		page = p
	}

	limit = def
	if l, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && l > 0 {
		limit = l
	}
	if limit > max {
		limit = max
	}

	return page, (page - 1) * limit, limit
}
