package validate

import (
	"testing"

	"github.com/go-event-registration/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_ReportsJSONNames(t *testing.T) {
	err := Struct(&domain.CreateEventRequest{
		Title: "Meetup", Description: "d", Date: "2025-13-01", Location: "l",
		Capacity: 5, Organizer: "o", Status: "active",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'date' failed 'datetime=2006-01-02'")
}

func TestStruct_UpdateSkipsNilFields(t *testing.T) {
	assert.NoError(t, Struct(&domain.UpdateEventRequest{}))
	bad := "postponed"
	err := Struct(&domain.UpdateEventRequest{Status: &bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'status'")
}

func TestStruct_RegisterRequiresUser(t *testing.T) {
	err := Struct(&domain.RegisterRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'userId' failed 'required'")
}
