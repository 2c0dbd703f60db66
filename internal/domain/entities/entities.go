package entities

import (
	"encoding/json"
	"errors"
	"time"
)

// Common errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrMissingFields   = errors.New("missing required product fields")
	ErrBadNumber       = errors.New("malformed numeric value")
	ErrStorageRead     = errors.New("storage read failed")
	ErrStorageWrite    = errors.New("storage write failed")
)

// TimestampLayout mirrors the 33-character JavaScript Date string the
// catalog files have always carried, e.g. "Mon Aug 28 2026 10:04:05 GMT+0000".
const TimestampLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

// BlankField is the placeholder stored for optional text fields that the
// caller left empty. Existing data files use a single space, not "".
const BlankField = " "

// Product represents a catalog item. The ID is assigned by the store at
// creation time and is immutable afterwards.
type Product struct {
	ID          string  `json:"id"`
	Timestamp   string  `json:"timestamp"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Thumbnail   string  `json:"thumbnail"`
}

// NewTimestamp returns the current time in the catalog's timestamp format.
func NewTimestamp() string {
	return time.Now().Format(TimestampLayout)
}

// Valid reports whether the product carries every required field. Price
// is not checked here: a stored record may legitimately hold a zero
// price, and whether zero is acceptable as input is a creation-time
// policy, not a property of the record.
func (p Product) Valid() bool {
	return p.Name != "" && p.Thumbnail != ""
}

// Message is a single chat entry. The log accepts any JSON value, so the
// payload is kept opaque.
type Message = json.RawMessage
