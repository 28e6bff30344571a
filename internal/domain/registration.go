package domain

import "time"

const RegistrationStatusConfirmed = "confirmed"

// Outcomes of a register call.
const (
	OutcomeRegistered = "registered"
	OutcomeWaitlisted = "waitlisted"
)

// Registration is a confirmed seat for one (user, event) pair.
type Registration struct {
	RegistrationID string    `json:"registrationId" dynamodbav:"registrationId"`
	UserID         string    `json:"userId" dynamodbav:"userId"`
	EventID        string    `json:"eventId" dynamodbav:"eventId"`
	RegisteredAt   time.Time `json:"registeredAt" dynamodbav:"registeredAt"`
	Status         string    `json:"status" dynamodbav:"status"`
}

// WaitlistEntry is a queued registrant. AddedAt alone determines promotion
// order; Position is the queue depth observed at insertion and is advisory.
type WaitlistEntry struct {
	WaitlistID string    `json:"waitlistId" dynamodbav:"waitlistId"`
	UserID     string    `json:"userId" dynamodbav:"userId"`
	EventID    string    `json:"eventId" dynamodbav:"eventId"`
	AddedAt    time.Time `json:"addedAt" dynamodbav:"addedAt"`
	Position   int       `json:"position" dynamodbav:"position"`
}

type RegisterRequest struct {
	UserID string `json:"userId" validate:"required,min=1"`
}

// RegisterResult holds exactly one of Registration or WaitlistEntry,
// matching Outcome.
type RegisterResult struct {
	Outcome       string
	Registration  *Registration
	WaitlistEntry *WaitlistEntry
}

// UnregisterResult reports a committed unregistration. PromotionErr is set
// when the freed seat could not be handed to the waitlist; the seat stays
// free and the queue is untouched unless the failure was logged as a lost
// promotion.
type UnregisterResult struct {
	Unregistered bool
	Promoted     *Registration
	PromotionErr error
}
