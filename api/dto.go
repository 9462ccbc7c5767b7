/*
dto.go - Request and response bodies that are not domain types

PURPOSE:
  Entities (Input, Recipe, Batch, ...) and their New and Patch payloads are
  served and accepted as-is from the production package. This file only
  holds the shapes that exist purely for HTTP.

NAMING CONVENTION:
  - *Request:  request bodies
  - *Response: response wrappers

SEE ALSO:
  - handlers.go: Uses these types
  - production/*.go: Entity and payload types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/production"
)

// AdjustStockRequest is the body of POST /api/{inputs|products}/{id}/adjust.
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta"`
	Notes string          `json:"notes,omitempty"`
}

// AdjustInputResponse returns the updated input and its ledger entry.
type AdjustInputResponse struct {
	Input       production.Input            `json:"input"`
	Transaction production.StockTransaction `json:"transaction"`
}

// AdjustProductResponse returns the updated product and its ledger entry.
type AdjustProductResponse struct {
	Product     production.Product          `json:"product"`
	Transaction production.StockTransaction `json:"transaction"`
}

// SeedResponse reports whether sample data was loaded.
type SeedResponse struct {
	Seeded bool `json:"seeded"`
}

// StatusResponse is a bare acknowledgement.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error      string               `json:"error"`
	Details    string               `json:"details,omitempty"`
	Fields     []generic.FieldError `json:"fields,omitempty"`
	Shortfalls []generic.Shortfall  `json:"shortfalls,omitempty"`
}
