package domain

// Station is a fixed cargo intake/drop-off point on the network.
// Stations referenced by a persisted Plan are treated as immutable.
type Station struct {
	ID       string
	Name     string
	Location Coordinates
	IsHub    bool
	Active   bool
}
