// Package cache provides the response and record caching layer for the service.
//
// Keys are built in one place (this file) so every caller composes them the same
// way. Values are stored as JSON through a Store, and the Manager turns every
// store failure into a miss or a no-op.
package cache

import (
	"strings"
	"time"
)

// KeyDelimiter separates the namespace and the identifying parts of a key.
const KeyDelimiter = ":"

// TTL tiers. The tier for a namespace follows the volatility of the record
// behind it: session-like data is short, raw records are medium, derived
// results are long.
const (
	TTLShort  = 5 * time.Minute
	TTLMedium = 15 * time.Minute
	TTLLong   = 30 * time.Minute
	TTLHour   = time.Hour
	TTLDay    = 24 * time.Hour
	TTLWeek   = 7 * 24 * time.Hour
)

// Key namespaces.
const (
	NamespaceCustomerEmail   = "customer:email"
	NamespaceCustomerID      = "customer:id"
	NamespaceCompanyCustomer = "company:customer"
	NamespaceCompanyID       = "company:id"
	NamespaceExpensesCompany = "expenses:company"
	NamespaceWagesCompany    = "wages:company"
	NamespaceDocsStatus      = "docs:status"
	NamespaceCalcResult      = "calc:result"
	NamespaceAPI             = "api"
)

// KeyFor joins a namespace and its parts with KeyDelimiter.
func KeyFor(namespace string, parts ...string) string {
	if len(parts) == 0 {
		return namespace
	}
	var b strings.Builder
	b.WriteString(namespace)
	for _, p := range parts {
		b.WriteString(KeyDelimiter)
		b.WriteString(p)
	}
	return b.String()
}

// NormalizeEmail lower-cases and trims an email address. Emails are
// case-insensitive upstream, so keys must not depend on input casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CustomerEmailKey returns the key of a customer looked up by email.
func CustomerEmailKey(email string) string {
	return KeyFor(NamespaceCustomerEmail, NormalizeEmail(email))
}

// CustomerIDKey returns the key of a customer looked up by record id.
func CustomerIDKey(id string) string {
	return KeyFor(NamespaceCustomerID, id)
}

// CompanyByCustomerKey returns the key of the company owned by a customer.
func CompanyByCustomerKey(customerID string) string {
	return KeyFor(NamespaceCompanyCustomer, customerID)
}

// CompanyIDKey returns the key of a company looked up by record id.
func CompanyIDKey(id string) string {
	return KeyFor(NamespaceCompanyID, id)
}

// ExpensesByCompanyKey returns the key of a company's expense list.
func ExpensesByCompanyKey(companyID string) string {
	return KeyFor(NamespaceExpensesCompany, companyID)
}

// WagesByCompanyKey returns the key of a company's wage list.
func WagesByCompanyKey(companyID string) string {
	return KeyFor(NamespaceWagesCompany, companyID)
}

// DocsStatusKey returns the key of a customer's document checklist.
func DocsStatusKey(customerID string) string {
	return KeyFor(NamespaceDocsStatus, customerID)
}

// CalcResultKey returns the key of a memoized credit estimate. pricingVersion
// identifies the pricing table the estimate was computed with.
func CalcResultKey(pricingVersion, inputHash string) string {
	return KeyFor(NamespaceCalcResult, pricingVersion, inputHash)
}

// APIResponseKey returns the key of a cached HTTP response.
func APIResponseKey(path, requestHash string) string {
	return KeyFor(NamespaceAPI, path, requestHash)
}
