package airtable

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
)

type record[F any] struct {
	ID          string    `json:"id,omitempty"`
	CreatedTime time.Time `json:"createdTime,omitempty"`
	Fields      F         `json:"fields"`
}

type listResponse[F any] struct {
	Records []record[F] `json:"records"`
	Offset  string      `json:"offset,omitempty"`
}

type newRecord[F any] struct {
	Fields F `json:"fields"`
}

type writeRequest[F any] struct {
	Records  []newRecord[F] `json:"records,omitempty"`
	Fields   *F             `json:"fields,omitempty"`
	Typecast bool           `json:"typecast,omitempty"`
}

// Airtable column names. "Customer ID" and "Company ID" are lookup fields
// resolving the linked record id, which formulas can compare against.
type customerFields struct {
	Email       string `json:"Email,omitempty"`
	Name        string `json:"Name,omitempty"`
	Phone       string `json:"Phone,omitempty"`
	CompanyName string `json:"Company Name,omitempty"`
	Status      string `json:"Status,omitempty"`
}

type companyFields struct {
	Customer      []string `json:"Customer,omitempty"`
	Name          string   `json:"Name,omitempty"`
	EIN           string   `json:"EIN,omitempty"`
	Industry      string   `json:"Industry,omitempty"`
	State         string   `json:"State,omitempty"`
	FoundedYear   int      `json:"Founded Year,omitempty"`
	GrossReceipts float64  `json:"Gross Receipts,omitempty"`
}

type expenseFields struct {
	Company     []string `json:"Company,omitempty"`
	TaxYear     int      `json:"Tax Year,omitempty"`
	Category    string   `json:"Category,omitempty"`
	Description string   `json:"Description,omitempty"`
	Amount      float64  `json:"Amount"`
	RDPercent   float64  `json:"R&D Percent"`
}

type wageFields struct {
	Company      []string `json:"Company,omitempty"`
	TaxYear      int      `json:"Tax Year,omitempty"`
	EmployeeName string   `json:"Employee Name,omitempty"`
	Title        string   `json:"Title,omitempty"`
	AnnualWages  float64  `json:"Annual Wages"`
	RDPercent    float64  `json:"R&D Percent"`
}

type documentFields struct {
	Name      string    `json:"Name,omitempty"`
	Status    string    `json:"Status,omitempty"`
	UpdatedAt time.Time `json:"Updated At,omitempty"`
}

func first(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func toCustomer(r record[customerFields]) *model.Customer {
	return &model.Customer{
		ID:          r.ID,
		Email:       r.Fields.Email,
		Name:        r.Fields.Name,
		Phone:       r.Fields.Phone,
		CompanyName: r.Fields.CompanyName,
		Status:      r.Fields.Status,
		CreatedAt:   r.CreatedTime,
	}
}

func toCompany(r record[companyFields]) *model.Company {
	return &model.Company{
		ID:            r.ID,
		CustomerID:    first(r.Fields.Customer),
		Name:          r.Fields.Name,
		EIN:           r.Fields.EIN,
		Industry:      r.Fields.Industry,
		State:         r.Fields.State,
		FoundedYear:   r.Fields.FoundedYear,
		GrossReceipts: r.Fields.GrossReceipts,
	}
}

func toExpense(r record[expenseFields]) model.Expense {
	return model.Expense{
		ID:          r.ID,
		CompanyID:   first(r.Fields.Company),
		TaxYear:     r.Fields.TaxYear,
		Category:    r.Fields.Category,
		Description: r.Fields.Description,
		Amount:      r.Fields.Amount,
		RDPercent:   r.Fields.RDPercent,
	}
}

func toWage(r record[wageFields]) model.Wage {
	return model.Wage{
		ID:           r.ID,
		CompanyID:    first(r.Fields.Company),
		TaxYear:      r.Fields.TaxYear,
		EmployeeName: r.Fields.EmployeeName,
		Title:        r.Fields.Title,
		AnnualWages:  r.Fields.AnnualWages,
		RDPercent:    r.Fields.RDPercent,
	}
}

// quote renders s as an Airtable formula string literal.
func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// list pages through every record of table matching formula, up to limit
// records when limit is positive.
func list[F any](ctx context.Context, c *Client, table, formula string, limit int) ([]record[F], error) {
	var out []record[F]
	offset := ""
	for {
		q := url.Values{}
		if formula != "" {
			q.Set("filterByFormula", formula)
		}
		if limit > 0 {
			q.Set("maxRecords", strconv.Itoa(limit))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse[F]
		if err := c.do(ctx, http.MethodGet, table, "", q, nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Records...)
		if page.Offset == "" || (limit > 0 && len(out) >= limit) {
			return out, nil
		}
		offset = page.Offset
	}
}

func get[F any](ctx context.Context, c *Client, table, id string) (*record[F], error) {
	var r record[F]
	err := c.do(ctx, http.MethodGet, table, id, nil, nil, &r)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func patch[F any](ctx context.Context, c *Client, table, id string, fields F) (*record[F], error) {
	var r record[F]
	err := c.do(ctx, http.MethodPatch, table, id, nil, writeRequest[F]{Fields: &fields, Typecast: true}, &r)
	if isNotFound(err) {
		return nil, fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func create[F any](ctx context.Context, c *Client, table string, fields []F) ([]record[F], error) {
	created := make([]record[F], 0, len(fields))
	for start := 0; start < len(fields); start += maxBatch {
		end := min(start+maxBatch, len(fields))
		batch := make([]newRecord[F], 0, end-start)
		for _, f := range fields[start:end] {
			batch = append(batch, newRecord[F]{Fields: f})
		}

		var resp listResponse[F]
		if err := c.do(ctx, http.MethodPost, table, "", nil, writeRequest[F]{Records: batch, Typecast: true}, &resp); err != nil {
			return nil, err
		}
		created = append(created, resp.Records...)
	}
	return created, nil
}

func (c *Client) deleteRecords(ctx context.Context, table string, ids []string) error {
	for start := 0; start < len(ids); start += maxBatch {
		end := min(start+maxBatch, len(ids))
		q := url.Values{}
		for _, id := range ids[start:end] {
			q.Add("records[]", id)
		}
		if err := c.do(ctx, http.MethodDelete, table, "", q, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

// FindCustomerByEmail returns the customer with the given email, matched
// case-insensitively, or nil when there is none.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	formula := fmt.Sprintf("LOWER({Email}) = %s", quote(strings.ToLower(strings.TrimSpace(email))))
	recs, err := list[customerFields](ctx, c, c.cfg.Tables.Customers, formula, 1)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return toCustomer(recs[0]), nil
}

// FindCustomerByID returns the customer record or nil.
func (c *Client) FindCustomerByID(ctx context.Context, id string) (*model.Customer, error) {
	r, err := get[customerFields](ctx, c, c.cfg.Tables.Customers, id)
	if err != nil || r == nil {
		return nil, err
	}
	return toCustomer(*r), nil
}

// FindCompanyByCustomerID returns the company owned by the customer or nil.
func (c *Client) FindCompanyByCustomerID(ctx context.Context, customerID string) (*model.Company, error) {
	formula := fmt.Sprintf("{Customer ID} = %s", quote(customerID))
	recs, err := list[companyFields](ctx, c, c.cfg.Tables.Companies, formula, 1)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return toCompany(recs[0]), nil
}

// FindCompanyByID returns the company record or nil.
func (c *Client) FindCompanyByID(ctx context.Context, id string) (*model.Company, error) {
	r, err := get[companyFields](ctx, c, c.cfg.Tables.Companies, id)
	if err != nil || r == nil {
		return nil, err
	}
	return toCompany(*r), nil
}

// ListExpenses returns every expense line of a company. The slice is never nil.
func (c *Client) ListExpenses(ctx context.Context, companyID string) ([]model.Expense, error) {
	recs, err := list[expenseFields](ctx, c, c.cfg.Tables.Expenses, fmt.Sprintf("{Company ID} = %s", quote(companyID)), 0)
	if err != nil {
		return nil, err
	}
	out := make([]model.Expense, 0, len(recs))
	for _, r := range recs {
		out = append(out, toExpense(r))
	}
	return out, nil
}

// ListWages returns every wage line of a company. The slice is never nil.
func (c *Client) ListWages(ctx context.Context, companyID string) ([]model.Wage, error) {
	recs, err := list[wageFields](ctx, c, c.cfg.Tables.Wages, fmt.Sprintf("{Company ID} = %s", quote(companyID)), 0)
	if err != nil {
		return nil, err
	}
	out := make([]model.Wage, 0, len(recs))
	for _, r := range recs {
		out = append(out, toWage(r))
	}
	return out, nil
}

// GetDocumentStatus combines the customer's stage with its document
// checklist. It returns nil for an unknown customer.
func (c *Client) GetDocumentStatus(ctx context.Context, customerID string) (*model.DocumentStatus, error) {
	customer, err := c.FindCustomerByID(ctx, customerID)
	if err != nil || customer == nil {
		return nil, err
	}

	recs, err := list[documentFields](ctx, c, c.cfg.Tables.Documents, fmt.Sprintf("{Customer ID} = %s", quote(customerID)), 0)
	if err != nil {
		return nil, err
	}

	status := &model.DocumentStatus{
		CustomerID: customerID,
		Stage:      customer.Status,
		Documents:  make([]model.DocumentItem, 0, len(recs)),
	}
	for _, r := range recs {
		status.Documents = append(status.Documents, model.DocumentItem{
			Name:      r.Fields.Name,
			Status:    r.Fields.Status,
			UpdatedAt: r.Fields.UpdatedAt,
		})
	}
	return status, nil
}

// UpdateCustomer applies patch and returns the updated record. It returns
// ErrNotFound for an unknown id.
func (c *Client) UpdateCustomer(ctx context.Context, id string, p model.CustomerPatch) (*model.Customer, error) {
	r, err := patch(ctx, c, c.cfg.Tables.Customers, id, customerFields{
		Name:        p.Name,
		Phone:       p.Phone,
		CompanyName: p.CompanyName,
	})
	if err != nil {
		return nil, err
	}
	return toCustomer(*r), nil
}

// UpdateCompany applies patch and returns the updated record.
func (c *Client) UpdateCompany(ctx context.Context, id string, p model.CompanyPatch) (*model.Company, error) {
	r, err := patch(ctx, c, c.cfg.Tables.Companies, id, companyFields{
		Name:          p.Name,
		EIN:           p.EIN,
		Industry:      p.Industry,
		State:         p.State,
		FoundedYear:   p.FoundedYear,
		GrossReceipts: p.GrossReceipts,
	})
	if err != nil {
		return nil, err
	}
	return toCompany(*r), nil
}

// ReplaceExpenses deletes the company's expense lines and creates the given
// ones. Airtable has no transactions, so a failure once deletion has begun
// leaves the table partially written; such errors wrap ErrPartialWrite.
func (c *Client) ReplaceExpenses(ctx context.Context, companyID string, expenses []model.Expense) ([]model.Expense, error) {
	existing, err := c.ListExpenses(ctx, companyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.ID)
	}
	if err := c.deleteRecords(ctx, c.cfg.Tables.Expenses, ids); err != nil {
		return nil, fmt.Errorf("delete expenses: %w: %w", ErrPartialWrite, err)
	}

	fields := make([]expenseFields, 0, len(expenses))
	for _, e := range expenses {
		fields = append(fields, expenseFields{
			Company:     []string{companyID},
			TaxYear:     e.TaxYear,
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount,
			RDPercent:   e.RDPercent,
		})
	}
	created, err := create(ctx, c, c.cfg.Tables.Expenses, fields)
	if err != nil {
		return nil, fmt.Errorf("create expenses: %w: %w", ErrPartialWrite, err)
	}

	out := make([]model.Expense, 0, len(created))
	for _, r := range created {
		out = append(out, toExpense(r))
	}
	return out, nil
}

// ReplaceWages deletes the company's wage lines and creates the given ones.
func (c *Client) ReplaceWages(ctx context.Context, companyID string, wages []model.Wage) ([]model.Wage, error) {
	existing, err := c.ListWages(ctx, companyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(existing))
	for _, w := range existing {
		ids = append(ids, w.ID)
	}
	if err := c.deleteRecords(ctx, c.cfg.Tables.Wages, ids); err != nil {
		return nil, fmt.Errorf("delete wages: %w: %w", ErrPartialWrite, err)
	}

	fields := make([]wageFields, 0, len(wages))
	for _, w := range wages {
		fields = append(fields, wageFields{
			Company:      []string{companyID},
			TaxYear:      w.TaxYear,
			EmployeeName: w.EmployeeName,
			Title:        w.Title,
			AnnualWages:  w.AnnualWages,
			RDPercent:    w.RDPercent,
		})
	}
	created, err := create(ctx, c, c.cfg.Tables.Wages, fields)
	if err != nil {
		return nil, fmt.Errorf("create wages: %w: %w", ErrPartialWrite, err)
	}

	out := make([]model.Wage, 0, len(created))
	for _, r := range created {
		out = append(out, toWage(r))
	}
	return out, nil
}

// IsUnavailable reports whether err means the record store is down.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
