package domain

// Event statuses.
const (
	EventStatusActive    = "active"
	EventStatusInactive  = "inactive"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

// Event is a capacity-limited event. CurrentRegistrations and Version are
// only ever changed through atomic increments on the store.
type Event struct {
	EventID              string `json:"eventId" dynamodbav:"eventId"`
	Title                string `json:"title" dynamodbav:"title"`
	Description          string `json:"description" dynamodbav:"description"`
	Date                 string `json:"date" dynamodbav:"date"`
	Location             string `json:"location" dynamodbav:"location"`
	Organizer            string `json:"organizer" dynamodbav:"organizer"`
	Status               string `json:"status" dynamodbav:"status"`
	Capacity             int    `json:"capacity" dynamodbav:"capacity"`
	CurrentRegistrations int    `json:"currentRegistrations" dynamodbav:"currentRegistrations"`
	WaitlistEnabled      bool   `json:"waitlistEnabled" dynamodbav:"waitlistEnabled"`
	Version              int    `json:"version" dynamodbav:"version"`
}

// AvailableCapacity is the number of seats left according to this snapshot.
func (e *Event) AvailableCapacity() int {
	if n := e.Capacity - e.CurrentRegistrations; n > 0 {
		return n
	}
	return 0
}

type CreateEventRequest struct {
	EventID         string `json:"eventId" validate:"omitempty,max=100"`
	Title           string `json:"title" validate:"required,min=1,max=200"`
	Description     string `json:"description" validate:"required,min=1"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Location        string `json:"location" validate:"required,min=1"`
	Capacity        int    `json:"capacity" validate:"required,gt=0"`
	Organizer       string `json:"organizer" validate:"required,min=1"`
	Status          string `json:"status" validate:"required,oneof=active inactive cancelled completed"`
	WaitlistEnabled bool   `json:"waitlistEnabled"`
}

// UpdateEventRequest carries the descriptive fields that may change after
// creation. Capacity and the registration counter are not updatable.
type UpdateEventRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string `json:"description" validate:"omitempty,min=1"`
	Date            *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Location        *string `json:"location" validate:"omitempty,min=1"`
	Organizer       *string `json:"organizer" validate:"omitempty,min=1"`
	Status          *string `json:"status" validate:"omitempty,oneof=active inactive cancelled completed"`
	WaitlistEnabled *bool   `json:"waitlistEnabled"`
}
