package domain

import "time"

type CargoStatus string

const (
	CargoPending   CargoStatus = "pending"
	CargoAssigned  CargoStatus = "assigned"
	CargoInTransit CargoStatus = "in_transit"
	CargoDelivered CargoStatus = "delivered"
	CargoCancelled CargoStatus = "cancelled"
)

// Cargo is a single shipment waiting at a station for a scheduled date.
// Plan building and trip execution only ever advance its status forward:
// pending -> assigned -> in_transit -> delivered.
type Cargo struct {
	ID            string
	StationID     string
	WeightKg      float64
	ScheduledDate time.Time
	Status        CargoStatus
}
