package inventory

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListFilters describe the supported filter knobs for the item list endpoint.
type ListFilters struct {
	LowStock   *int
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	CategoryID *uuid.UUID
	Quantity   *int
	Search     string
}

// ListInput captures the inputs needed to filter and order items for an owner.
type ListInput struct {
	OwnerID  uuid.UUID
	Filters  ListFilters
	Ordering string
}

var itemOrderColumns = map[string]string{
	"name":         "name",
	"quantity":     "quantity",
	"price":        "price",
	"last_updated": "last_updated",
}

var changeOrderColumns = map[string]string{
	"timestamp": "timestamp",
	"action":    "action",
}

// ParseListQuery reads filter parameters from the query string. Malformed
// values are dropped silently; a filter never turns into an error.
func ParseListQuery(values url.Values) ListFilters {
	var filters ListFilters

	if raw := values.Get("low_stock"); raw != "" {
		if threshold, err := strconv.Atoi(raw); err == nil {
			filters.LowStock = &threshold
		}
	}
	if raw := values.Get("min_price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filters.MinPrice = &price
		}
	}
	if raw := values.Get("max_price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filters.MaxPrice = &price
		}
	}
	if raw := values.Get("category"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filters.CategoryID = &id
		}
	}
	if raw := values.Get("quantity"); raw != "" {
		if qty, err := strconv.Atoi(raw); err == nil {
			filters.Quantity = &qty
		}
	}
	filters.Search = strings.TrimSpace(values.Get("search"))

	return filters
}

// ItemOrderClause maps an ordering parameter onto a SQL order expression.
// Unknown fields fall back to the default newest-first ordering.
func ItemOrderClause(ordering string) string {
	return orderClause(ordering, itemOrderColumns, "last_updated DESC")
}

// ChangeOrderClause maps an ordering parameter for audit rows.
func ChangeOrderClause(ordering string) string {
	return orderClause(ordering, changeOrderColumns, "timestamp DESC")
}

func orderClause(ordering string, allowed map[string]string, fallback string) string {
	ordering = strings.TrimSpace(ordering)
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	column, ok := allowed[field]
	if !ok {
		return fallback
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
