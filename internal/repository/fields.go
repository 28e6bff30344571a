package repository

// Attribute names used in counters, conditions and filters.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldCapacity             = "capacity"
	fieldCurrentRegistrations = "currentRegistrations"
	fieldVersion              = "version"
	fieldStatus               = "status"
)
