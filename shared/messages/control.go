package messages

// ShipControl is sent by the client every tick while its pilot drives a ship.
// Raw turn/thrust flags stay on the client; only the derived paddle state and
// the vertical intent cross the wire.
type ShipControl struct {
	Sequence    uint32 // Incrementing ID for reconciliation
	ShipID      int32
	PaddleLeft  bool
	PaddleRight bool
	Vertical    int // netconfig.VerticalDown/None/Up
}

// BoardRequest asks the server to seat the client's pilot on a ship.
type BoardRequest struct {
	ShipID   int32
	Sneaking bool
}

// DismountRequest asks the server to take the pilot off its ship.
type DismountRequest struct{}

// HitRequest is a melee hit against a ship by the client's pilot.
type HitRequest struct {
	ShipID int32
	Amount float32
}

// ShipMove reports the transform of a ship driven by the sending client's
// pilot. The piloting client owns the motion; the server adopts it and
// rebroadcasts it through the synced transform.
type ShipMove struct {
	ShipID     int32
	X, Y, Z    float64
	Yaw, Pitch float64
}
