package domain

type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "available"
	VehicleOnRoute   VehicleStatus = "on_route"
)

// Vehicle is a fleet unit that can be assigned to at most one route at a time.
type Vehicle struct {
	ID         string
	Plate      string
	CapacityKg float64
	Active     bool
	Status     VehicleStatus
}
