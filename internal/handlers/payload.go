package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"

	"catalog/internal/models"
	"catalog/internal/services"
)

const typeMismatchMsg = "type mismatch: check values of fields"

// PayloadError is a client error found while decoding a request body.
type PayloadError struct {
	Status int
	Msg    string
}

func (e *PayloadError) Error() string {
	return e.Msg
}

func badRequest(msg string) *PayloadError {
	return &PayloadError{Status: fiber.StatusBadRequest, Msg: msg}
}

func missingField(name string) *PayloadError {
	return badRequest(fmt.Sprintf("field %s has not been found, but is required", name))
}

func typeMismatch() *PayloadError {
	return badRequest(typeMismatchMsg)
}

// payload is a decoded JSON object whose values are coerced on access.
type payload map[string]interface{}

func decodePayload(body []byte) (payload, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil || p == nil {
		return nil, badRequest("invalid JSON payload")
	}
	return p, nil
}

func (p payload) has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p payload) requireKeys(keys ...string) error {
	for _, k := range keys {
		if !p.has(k) {
			return missingField(k)
		}
	}
	return nil
}

func (p payload) str(key string) (string, error) {
	s, ok := p[key].(string)
	if !ok {
		return "", typeMismatch()
	}
	return s, nil
}

// float rejects NaN and infinities, which cannot be stored or rendered as JSON.
func (p payload) float(key string) (float64, error) {
	if p[key] == nil {
		return 0, typeMismatch()
	}
	f, err := cast.ToFloat64E(p[key])
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, typeMismatch()
	}
	return f, nil
}

// whole coerces a value to int64. Strings are read in base 10 only, and
// floats outside the int64 range are rejected.
func (p payload) whole(key string) (int64, error) {
	switch v := p[key].(type) {
	case nil:
		return 0, typeMismatch()
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, typeMismatch()
		}
		return n, nil
	case float64:
		if math.IsNaN(v) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, typeMismatch()
		}
		return int64(v), nil
	default:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return 0, typeMismatch()
		}
		return n, nil
	}
}

func (p payload) integer(key string) (int, error) {
	n, err := p.whole(key)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt || n < math.MinInt {
		return 0, typeMismatch()
	}
	return int(n), nil
}

func (p payload) unsigned(key string) (uint, error) {
	n, err := p.whole(key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, typeMismatch()
	}
	return uint(n), nil
}

// boolean treats an absent or null value as false.
func (p payload) boolean(key string) (bool, error) {
	b, err := cast.ToBoolE(p[key])
	if err != nil {
		return false, typeMismatch()
	}
	return b, nil
}

func (p payload) dateTime(key string) (*time.Time, error) {
	s, ok := p[key].(string)
	if !ok {
		return nil, typeMismatch()
	}
	t, err := models.ParseDateTime(s)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("field %s must match the format YYYY-MM-DD HH:MM:SS", key))
	}
	return &t, nil
}

// categories returns the category names and checks their count.
func (p payload) categories() ([]string, error) {
	raw, ok := p["categories"].([]interface{})
	if !ok {
		return nil, typeMismatch()
	}
	if n := len(raw); n < services.MinCategories || n > services.MaxCategories {
		return nil, badRequest(services.ErrCategoryCount.Error())
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		name, ok := v.(string)
		if !ok {
			return nil, typeMismatch()
		}
		names = append(names, name)
	}
	return names, nil
}

// parseProductInput decodes a create request. The categories field is
// checked first, then the remaining fields in declaration order.
func parseProductInput(body []byte) (services.ProductInput, error) {
	var in services.ProductInput
	p, err := decodePayload(body)
	if err != nil {
		return in, err
	}

	if err := p.requireKeys("categories"); err != nil {
		return in, err
	}
	if in.Categories, err = p.categories(); err != nil {
		return in, err
	}

	if err := p.requireKeys("name", "rating", "brand_id", "items_in_stock"); err != nil {
		return in, err
	}
	if in.Name, err = p.str("name"); err != nil {
		return in, err
	}
	if in.Rating, err = p.float("rating"); err != nil {
		return in, err
	}
	if in.Featured, err = p.boolean("featured"); err != nil {
		return in, err
	}
	if p.has("expiration_date") {
		if in.ExpirationDate, err = p.dateTime("expiration_date"); err != nil {
			return in, err
		}
	}
	if in.BrandID, err = p.unsigned("brand_id"); err != nil {
		return in, err
	}
	if in.ItemsInStock, err = p.integer("items_in_stock"); err != nil {
		return in, err
	}
	if p.has("receipt_date") {
		if in.ReceiptDate, err = p.dateTime("receipt_date"); err != nil {
			return in, err
		}
	}
	return in, nil
}

// parseProductPatch decodes an update request. Only present keys are set.
func parseProductPatch(body []byte) (services.ProductPatch, error) {
	var patch services.ProductPatch
	p, err := decodePayload(body)
	if err != nil {
		return patch, err
	}
	if patch.ID, err = parseID(p); err != nil {
		return patch, err
	}

	if p.has("name") {
		name, err := p.str("name")
		if err != nil {
			return patch, err
		}
		patch.Name = &name
	}
	if p.has("featured") {
		featured, err := p.boolean("featured")
		if err != nil {
			return patch, err
		}
		patch.Featured = &featured
	}
	if p.has("rating") {
		rating, err := p.float("rating")
		if err != nil {
			return patch, err
		}
		patch.Rating = &rating
	}
	if p.has("items_in_stock") {
		stock, err := p.integer("items_in_stock")
		if err != nil {
			return patch, err
		}
		patch.ItemsInStock = &stock
	}
	if p.has("receipt_date") {
		if patch.ReceiptDate, err = p.dateTime("receipt_date"); err != nil {
			return patch, err
		}
	}
	if p.has("brand") {
		brand, err := p.unsigned("brand")
		if err != nil {
			return patch, err
		}
		patch.BrandID = &brand
	}
	if p.has("categories") {
		if patch.Categories, err = p.categories(); err != nil {
			return patch, err
		}
	}
	if p.has("expiration_date") {
		if patch.ExpirationDate, err = p.dateTime("expiration_date"); err != nil {
			return patch, err
		}
	}
	return patch, nil
}

func parseID(p payload) (uint, error) {
	if err := p.requireKeys("id"); err != nil {
		return 0, err
	}
	return p.unsigned("id")
}

func parseProductID(body []byte) (uint, error) {
	p, err := decodePayload(body)
	if err != nil {
		return 0, err
	}
	return parseID(p)
}

func parseBrandInput(body []byte) (services.BrandInput, error) {
	var in services.BrandInput
	p, err := decodePayload(body)
	if err != nil {
		return in, err
	}
	if err := p.requireKeys("name", "country_code"); err != nil {
		return in, err
	}
	if in.Name, err = p.str("name"); err != nil {
		return in, err
	}
	if in.CountryCode, err = p.str("country_code"); err != nil {
		return in, err
	}
	return in, nil
}
