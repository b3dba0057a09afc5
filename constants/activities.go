package constants

// Activity names from seed data
// These constants ensure consistency across the codebase when referencing
// specific activities that have special meaning in the system.
const (
	// SchulhofActivityName is the name of the permanent Schulhof (playground) activity
	// created during database seeding. This activity is used for deviceless claiming
	// of playground supervision sessions.
	SchulhofActivityName = "Schulhof Freispiel"
)
