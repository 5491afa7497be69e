package models

import "encoding/json"

// Envelope is the response shape every Ramesh API endpoint returns.
// Status is the sole success/failure discriminator; the HTTP status code
// is only inspected separately to detect session expiry.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// OK reports whether the envelope carries a success status.
func (e *Envelope) OK() bool {
	return e != nil && e.Status == StatusSuccess
}

// DecodeData unmarshals the data payload into v. A missing payload is not an
// error; the destination is simply left untouched.
func (e *Envelope) DecodeData(v interface{}) error {
	if e == nil || len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// Meta carries list pagination and endpoint-specific flags. Key spellings
// vary slightly per resource, so every field is optional and controllers
// fall back to their previous values field by field.
type Meta struct {
	CurrentPage *int `json:"current_page,omitempty"`
	Page        *int `json:"page,omitempty"`
	LastPage    *int `json:"last_page,omitempty"`
	TotalPages  *int `json:"total_pages,omitempty"`
	Total       *int `json:"total,omitempty"`
	TotalItems  *int `json:"total_items,omitempty"`
	PerPage     *int `json:"per_page,omitempty"`

	// Coupon endpoints only.
	IsSuperAdmin   *bool `json:"is_super_admin,omitempty"`
	ShowDeleted    *bool `json:"show_deleted,omitempty"`
	IncludeDeleted *bool `json:"include_deleted,omitempty"`
}

// Pagination is the client-side pagination state kept by each list controller.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalItems  int `json:"total_items"`
	PerPage     int `json:"per_page"`
}

// ApplyMeta merges server meta into the pagination state. Fields the server
// omitted keep their previous values.
func (p *Pagination) ApplyMeta(m *Meta) {
	if m == nil {
		return
	}
	if m.CurrentPage != nil {
		p.CurrentPage = *m.CurrentPage
	} else if m.Page != nil {
		p.CurrentPage = *m.Page
	}
	if m.LastPage != nil {
		p.TotalPages = *m.LastPage
	} else if m.TotalPages != nil {
		p.TotalPages = *m.TotalPages
	}
	if m.Total != nil {
		p.TotalItems = *m.Total
	} else if m.TotalItems != nil {
		p.TotalItems = *m.TotalItems
	}
	if m.PerPage != nil {
		p.PerPage = *m.PerPage
	}
}
