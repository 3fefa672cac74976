package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"
)

// SuspensionGracePeriod is how long an active subscription survives
// nonpayment before it is suspended.
const SuspensionGracePeriod = 7 * 24 * time.Hour

// CanTransitionTo reports whether the business state machine allows moving
// from s to next. Pending subscriptions activate on first payment; active
// ones expire, get cancelled, or get suspended for nonpayment; suspended
// ones reactivate or get cancelled.
func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	for _, n := range subscriptionTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionStatusPending:   {SubscriptionStatusActive, SubscriptionStatusCancelled},
	SubscriptionStatusActive:    {SubscriptionStatusExpired, SubscriptionStatusCancelled, SubscriptionStatusSuspended},
	SubscriptionStatusSuspended: {SubscriptionStatusActive, SubscriptionStatusCancelled},
	SubscriptionStatusExpired:   nil,
	SubscriptionStatusCancelled: nil,
}

// Subscription links a user to a subscription type. The user_id column is
// unique, so a user holds at most one subscription row; historical states
// are preserved by change-data-capture downstream, not by extra rows here.
type Subscription struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	SubscriptionTypeID uuid.UUID          `json:"subscription_type_id"`
	Status             SubscriptionStatus `json:"status"`
	AutoRenew          bool               `json:"auto_renew"`
	ValidUntil         time.Time          `json:"valid_until"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Expired reports whether the subscription's paid period is over at now.
func (s *Subscription) Expired(now time.Time) bool {
	return now.After(s.ValidUntil)
}
