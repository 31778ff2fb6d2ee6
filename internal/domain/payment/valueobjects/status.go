package valueobjects

// TransactionStatus is the state of one external charge attempt.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "pending"
	StatusSuccess TransactionStatus = "success"
	StatusFailed  TransactionStatus = "failed"
)

func (s TransactionStatus) String() string {
	return string(s)
}

func (s TransactionStatus) IsValid() bool {
	return s == StatusPending || s == StatusSuccess || s == StatusFailed
}

func (s TransactionStatus) IsPending() bool { return s == StatusPending }
func (s TransactionStatus) IsSuccess() bool { return s == StatusSuccess }
func (s TransactionStatus) IsFailed() bool  { return s == StatusFailed }

// IsFinal reports whether the status can no longer change. A failed charge
// can still turn into a success when the payer retries on the same reference.
func (s TransactionStatus) IsFinal() bool {
	return s == StatusSuccess
}

// PriorStatuses lists the stored statuses a transaction may move from to
// reach s.
func (s TransactionStatus) PriorStatuses() []TransactionStatus {
	switch s {
	case StatusSuccess:
		return []TransactionStatus{StatusPending, StatusFailed}
	case StatusFailed:
		return []TransactionStatus{StatusPending}
	}
	return nil
}

// CanFollow reports whether a transaction in status from may move to s.
func (s TransactionStatus) CanFollow(from TransactionStatus) bool {
	for _, prior := range s.PriorStatuses() {
		if prior == from {
			return true
		}
	}
	return false
}
