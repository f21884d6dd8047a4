package intake

import "strings"

// GatewayKindBraintree tags payment methods backed by the Braintree gateway.
const GatewayKindBraintree = "braintree"

// MethodRef identifies a configured payment-method instance. Implementations
// report which gateway integration they belong to.
type MethodRef interface {
	GatewayKind() string
}

// Transaction is a proposed checkout attempt: a client-side payment nonce plus
// the billing data collected alongside it. It is built fresh per attempt,
// validated once and then either turned into a Source or discarded.
type Transaction struct {
	Nonce               string
	PaymentMethod       MethodRef
	PaymentType         string
	Email               string
	Phone               string
	DeviceData          string
	PaypalFundingSource string
	Address             *Address
}

// SetAddressAttributes constructs the nested billing address from a flat
// attribute mapping.
func (t *Transaction) SetAddressAttributes(attrs map[string]string) {
	t.Address = NewAddressFromAttributes(attrs)
}

// Validate checks the transaction and returns field-keyed errors. All checks
// run independently; nothing short-circuits, so a response can surface every
// problem at once. Performs no I/O.
func (t *Transaction) Validate() *FieldErrors {
	errs := NewFieldErrors()

	if strings.TrimSpace(t.Nonce) == "" {
		errs.Add("nonce", "can't be blank")
	}
	if t.PaymentMethod == nil {
		errs.Add("payment_method", "can't be blank")
	}
	if strings.TrimSpace(t.PaymentType) == "" {
		errs.Add("payment_type", "can't be blank")
	}
	if strings.TrimSpace(t.Email) == "" {
		errs.Add("email", "can't be blank")
	}

	if t.PaymentMethod != nil && t.PaymentMethod.GatewayKind() != GatewayKindBraintree {
		errs.Add("payment_method", "must be braintree")
	}

	if t.Address != nil {
		if addrErrs := t.Address.Validate(); !addrErrs.Valid() {
			for _, field := range addrErrs.Fields() {
				for _, msg := range addrErrs.On(field) {
					errs.Add("address", msg)
				}
			}
		}
	}

	return errs
}

// Source derives the payment source handed to the gateway once validation has
// passed.
func (t *Transaction) Source() Source {
	return Source{
		Nonce:               t.Nonce,
		PaymentType:         t.PaymentType,
		PaypalFundingSource: t.PaypalFundingSource,
		DeviceData:          t.DeviceData,
		Email:               t.Email,
	}
}
