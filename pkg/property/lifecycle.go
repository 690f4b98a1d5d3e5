package property

import (
	"imovelhub/pkg/customerror"
	"time"
)

// IsExpired is true once the expiry instant has passed. A listing without expiry never expires.
func (property *Property) IsExpired(now time.Time) bool {
	return property.ExpiresAt != nil && property.ExpiresAt.Before(now)
}

func (property *Property) IsPubliclyVisible(now time.Time) bool {
	return property.Status == StatusActive && !property.IsExpired(now)
}

// CanOwnerModify is false while the listing is under review.
func (property *Property) CanOwnerModify() bool {
	return property.Status != StatusPendingApproval
}

func (property *Property) CountsViews() bool {
	return property.Status == StatusActive
}

// Pay moves a listing awaiting payment into review. Any other status is left alone.
func (property *Property) Pay() bool {
	if property.Status != StatusPendingPayment {
		return false
	}
	property.Status = StatusPendingApproval
	return true
}

func (property *Property) Approve() error {
	if property.Status != StatusPendingApproval {
		return customerror.ErrInvalidTransition
	}
	if len(property.Images) == 0 {
		return customerror.ValidationErrors{"images": "at least one image is required before publishing"}
	}
	property.Status = StatusActive
	return nil
}

func (property *Property) Reject() error {
	if property.Status != StatusPendingApproval {
		return customerror.ErrInvalidTransition
	}
	property.Status = StatusRejected
	return nil
}

// Resubmit sends a rejected listing back to payment after the owner edits it.
func (property *Property) Resubmit() bool {
	if property.Status != StatusRejected {
		return false
	}
	property.Status = StatusPendingPayment
	return true
}
