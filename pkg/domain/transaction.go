package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// DateLayout is the wire format for transaction dates and date-range filters.
const DateLayout = "2006-01-02"

// TransactionType is either income or expense.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// PaymentMethod is how a transaction was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
	PaymentUPI    PaymentMethod = "upi"
	PaymentOther  PaymentMethod = "other"
)

// PaymentMethods lists the accepted payment methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentOnline, PaymentUPI, PaymentOther}

// ValidPaymentMethod reports whether m is accepted. Empty is accepted and left to the server default.
func ValidPaymentMethod(m PaymentMethod) bool {
	if m == "" {
		return true
	}
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

var (
	ErrInvalidType          = errors.New("type must be income or expense")
	ErrEmptyCategory        = errors.New("category is required")
	ErrInvalidDate          = errors.New("date must be YYYY-MM-DD")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrDescriptionTooLong   = errors.New("description too long (max 200 characters)")
	ErrInvalidDateRange     = errors.New("start date is after end date")
)

// Transaction is a server-owned income or expense record.
type Transaction struct {
	ID            string          `json:"_id"`
	Type          TransactionType `json:"type"`
	Amount        Money           `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description,omitempty"`
	Date          time.Time       `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
	CreatedAt     *time.Time      `json:"createdAt,omitempty"`
}

// Signed returns the amount with a negative sign for expenses.
func (t Transaction) Signed() Money {
	if t.Type == Expense {
		return Money{t.Amount.Neg()}
	}
	return t.Amount
}

// Input converts a stored transaction back into an editable payload.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Type:          t.Type,
		Amount:        t.Amount,
		Category:      t.Category,
		Description:   t.Description,
		Date:          t.Date.UTC().Format(DateLayout),
		PaymentMethod: t.PaymentMethod,
	}
}

// TransactionInput is the create/update payload.
type TransactionInput struct {
	Type          TransactionType `json:"type"`
	Amount        Money           `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
}

// Validate checks the payload before it is sent.
func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return ErrInvalidDate
	}
	if len(in.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if !ValidPaymentMethod(in.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// TransactionFilter narrows a transaction listing. Zero fields are not sent.
type TransactionFilter struct {
	Type      TransactionType
	Category  string
	StartDate time.Time
	EndDate   time.Time
}

// Validate rejects unknown types and inverted date ranges.
func (f TransactionFilter) Validate() error {
	if f.Type != "" && !f.Type.Valid() {
		return ErrInvalidType
	}
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() && f.StartDate.After(f.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Values encodes the filter as query parameters.
func (f TransactionFilter) Values() url.Values {
	v := url.Values{}
	if f.Type != "" {
		v.Set("type", string(f.Type))
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if !f.StartDate.IsZero() {
		v.Set("startDate", f.StartDate.Format(DateLayout))
	}
	if !f.EndDate.IsZero() {
		v.Set("endDate", f.EndDate.Format(DateLayout))
	}
	return v
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
