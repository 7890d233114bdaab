package models

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

var ErrEmptyReport = errors.New("report has no content")

// Report is a statement rendered by the backend. It lives for one request
// and is never cached.
type Report struct {
	CustomerID  ID        `json:"customer_id"`
	Name        string    `json:"name,omitempty"`
	NationalID  string    `json:"national_id,omitempty"`
	Content     string    `json:"content"`
	Format      string    `json:"format"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PDF decodes Content, dropping a "data:...;base64," prefix when present.
func (r Report) PDF() ([]byte, error) {
	content := strings.TrimSpace(r.Content)
	if i := strings.Index(content, ","); i >= 0 {
		content = content[i+1:]
	}
	if content == "" {
		return nil, ErrEmptyReport
	}
	return base64.StdEncoding.DecodeString(content)
}
