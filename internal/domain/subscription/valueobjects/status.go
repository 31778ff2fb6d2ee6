package valueobjects

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	StatusPending   SubscriptionStatus = "pending"
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusPending:   {StatusActive, StatusCancelled},
	StatusActive:    {StatusActive, StatusExpired, StatusCancelled},
	StatusExpired:   {},
	StatusCancelled: {},
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	_, ok := subscriptionTransitions[s]
	return ok
}

// IsFinal reports whether no transition leaves s.
func (s SubscriptionStatus) IsFinal() bool {
	return s == StatusExpired || s == StatusCancelled
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	for _, allowed := range subscriptionTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
