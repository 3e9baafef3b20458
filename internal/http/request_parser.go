// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing request bodies into the
// service layer's form inputs. Both form-encoded bodies (HTMX and plain
// forms) and JSON bodies are accepted.

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"obras/internal/services"
)

// maxBodyBytes bounds every parsed request body.
const maxBodyBytes = 1 << 20

// RequestBodyParser reads a body once and serves values from it.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body as JSON when it looks like JSON, else as a form.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns the trimmed value of key, or "".
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(p.formData.Get(key))
	}
	return ""
}

// Values collects the named fields for re-rendering a rejected form.
func (p *RequestBodyParser) Values(keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = p.Get(k)
	}
	return out
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// Form field names, shared by templates and binders.
var (
	projectFields  = []string{"name", "address", "responsible", "start_date", "expected_end_date", "total_budget", "profit_margin"}
	stageFields    = []string{"name", "estimated_cost", "responsible", "deadline"}
	materialFields = []string{"stage_id", "name", "unit", "quantity", "unit_price", "supplier", "purchase_date"}
	laborFields    = []string{"stage_id", "role", "worker_name", "hourly_rate", "hours_worked", "date"}
	expenseFields  = []string{"description", "category", "amount", "date"}
)

func projectInput(p *RequestBodyParser) services.ProjectInput {
	return services.ProjectInput{
		Name:            p.Get("name"),
		Address:         p.Get("address"),
		Responsible:     p.Get("responsible"),
		StartDate:       p.Get("start_date"),
		ExpectedEndDate: p.Get("expected_end_date"),
		TotalBudget:     p.Get("total_budget"),
		ProfitMargin:    p.Get("profit_margin"),
	}
}

func stageInput(p *RequestBodyParser) services.StageInput {
	return services.StageInput{
		Name:          p.Get("name"),
		EstimatedCost: p.Get("estimated_cost"),
		Responsible:   p.Get("responsible"),
		Deadline:      p.Get("deadline"),
	}
}

func materialInput(p *RequestBodyParser) services.MaterialInput {
	return services.MaterialInput{
		StageID:      p.Get("stage_id"),
		Name:         p.Get("name"),
		Unit:         p.Get("unit"),
		Quantity:     p.Get("quantity"),
		UnitPrice:    p.Get("unit_price"),
		Supplier:     p.Get("supplier"),
		PurchaseDate: p.Get("purchase_date"),
	}
}

func laborInput(p *RequestBodyParser) services.LaborInput {
	return services.LaborInput{
		StageID:     p.Get("stage_id"),
		Role:        p.Get("role"),
		WorkerName:  p.Get("worker_name"),
		HourlyRate:  p.Get("hourly_rate"),
		HoursWorked: p.Get("hours_worked"),
		Date:        p.Get("date"),
	}
}

func expenseInput(p *RequestBodyParser) services.ExpenseInput {
	return services.ExpenseInput{
		Description: p.Get("description"),
		Category:    p.Get("category"),
		Amount:      p.Get("amount"),
		Date:        p.Get("date"),
	}
}
