package customer

import (
	"context"
	"strings"

	ierr "github.com/anchorbill/anchorbill/internal/errors"
	"github.com/anchorbill/anchorbill/internal/types"
	"github.com/shopspring/decimal"
)

// Customer represents a billable customer in the system
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `db:"id" json:"id"`

	// Name is the name of the customer
	Name string `db:"name" json:"name"`

	// Email is the billing email of the customer
	Email string `db:"email" json:"email"`

	// Balance is running credit in the billing currency. It is applied
	// to invoices during assembly and replenished by payment-method
	// verification flows.
	Balance decimal.Decimal `db:"balance" json:"balance"`

	// PaymentMethodID references the verified payment method (mandate)
	// at the payment provider. Nil until verification completes.
	PaymentMethodID *string `db:"payment_method_id" json:"payment_method_id,omitempty"`

	// ProviderCustomerID is the customer's identifier at the payment
	// provider
	ProviderCustomerID *string `db:"provider_customer_id" json:"provider_customer_id,omitempty"`

	types.BaseModel
}

// New creates a customer, validating required fields up front so no
// partially-initialized customer ever reaches a repository.
func New(ctx context.Context, name, email string) (*Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ierr.NewError("valid email is required").
			WithHint("Please provide a valid billing email address").
			Mark(ierr.ErrValidation)
	}
	if name == "" {
		return nil, ierr.NewError("name is required").
			WithHint("Please provide the customer name").
			Mark(ierr.ErrValidation)
	}

	return &Customer{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:      name,
		Email:     email,
		Balance:   decimal.Zero,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}, nil
}

// HasPaymentMethod reports whether the customer can be charged
func (c *Customer) HasPaymentMethod() bool {
	return c.PaymentMethodID != nil && *c.PaymentMethodID != ""
}
