package domain

import "time"

// User is created once and never modified.
type User struct {
	UserID    string    `json:"userId" dynamodbav:"userId"`
	Name      string    `json:"name" dynamodbav:"name"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

type CreateUserRequest struct {
	UserID string `json:"userId" validate:"required,min=1,max=100"`
	Name   string `json:"name" validate:"required,min=1,max=200"`
}
