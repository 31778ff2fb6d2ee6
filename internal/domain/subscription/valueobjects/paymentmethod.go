package valueobjects

import "fmt"

// PaymentMethod records how a subscription payment was made.
type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodPaystack     PaymentMethod = "paystack"
	MethodFlutterwave  PaymentMethod = "flutterwave"
	MethodStripe       PaymentMethod = "stripe"
	MethodCash         PaymentMethod = "cash"
	MethodOther        PaymentMethod = "other"
)

var validMethods = map[PaymentMethod]bool{
	MethodCreditCard:   true,
	MethodBankTransfer: true,
	MethodPaystack:     true,
	MethodFlutterwave:  true,
	MethodStripe:       true,
	MethodCash:         true,
	MethodOther:        true,
}

// NewPaymentMethod parses a payment method name.
func NewPaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !validMethods[m] {
		return "", fmt.Errorf("invalid payment method: %s", s)
	}
	return m, nil
}

func (m PaymentMethod) String() string {
	return string(m)
}

// IsGateway reports whether the method settles through an online gateway.
func (m PaymentMethod) IsGateway() bool {
	return m == MethodPaystack || m == MethodFlutterwave || m == MethodStripe
}
