package valueobjects

// PaymentStatus is the state of a single subscription payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) IsPending() bool   { return s == PaymentStatusPending }
func (s PaymentStatus) IsCompleted() bool { return s == PaymentStatusCompleted }
func (s PaymentStatus) IsFailed() bool    { return s == PaymentStatusFailed }
