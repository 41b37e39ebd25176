package skyship

// InteractResult is the outcome of a player using a vehicle.
type InteractResult int

const (
	// InteractPass lets the interaction fall through to other handlers.
	InteractPass InteractResult = iota
	// InteractConsume means the server handled it.
	InteractConsume
	// InteractSuccess means the client accepted it and awaits the server.
	InteractSuccess
)

func (r InteractResult) String() string {
	switch r {
	case InteractConsume:
		return "consume"
	case InteractSuccess:
		return "success"
	default:
		return "pass"
	}
}

// Vehicle is what the host loop drives each tick.
type Vehicle interface {
	Occupant
	Tick()
	Interact(player Occupant, sneaking bool) InteractResult
	ApplyHit(src DamageSource, amount float32) bool
	PositionOccupant(o Occupant)
	RemovePassenger(o Occupant) bool
	Alive() bool
}

var _ Vehicle = (*Ship)(nil)
