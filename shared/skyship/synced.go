package skyship

import "github.com/automoto/skyships/shared/netcomponents"

// FieldMask records which replicated fields changed since the last flush.
type FieldMask uint8

const (
	FieldHurtTime FieldMask = 1 << iota
	FieldHurtDir
	FieldDamage
	FieldPaddleLeft
	FieldPaddleRight
	FieldVertical
	FieldBubbleTime
)

// Synced holds the fields replicated between the authoritative ship and its
// predicting copies. Every setter marks the field dirty and bumps the
// generation only when the value actually changes; the server diffs on
// Dirty() when writing net components.
type Synced struct {
	data       netcomponents.NetShipStateData
	dirty      FieldMask
	generation uint64
}

// NewSynced returns the spawn state: everything zero, hurt direction +1.
func NewSynced() *Synced {
	return &Synced{data: netcomponents.DefaultNetShipState()}
}

func (s *Synced) HurtTime() int     { return s.data.HurtTime }
func (s *Synced) HurtDir() int      { return s.data.HurtDir }
func (s *Synced) Damage() float32   { return s.data.Damage }
func (s *Synced) PaddleLeft() bool  { return s.data.PaddleLeft }
func (s *Synced) PaddleRight() bool { return s.data.PaddleRight }
func (s *Synced) Vertical() int     { return s.data.Vertical }
func (s *Synced) BubbleTime() int   { return s.data.BubbleTime }

func (s *Synced) SetHurtTime(v int) {
	if s.data.HurtTime != v {
		s.data.HurtTime = v
		s.mark(FieldHurtTime)
	}
}

func (s *Synced) SetHurtDir(v int) {
	if s.data.HurtDir != v {
		s.data.HurtDir = v
		s.mark(FieldHurtDir)
	}
}

func (s *Synced) SetDamage(v float32) {
	if s.data.Damage != v {
		s.data.Damage = v
		s.mark(FieldDamage)
	}
}

func (s *Synced) SetPaddleLeft(v bool) {
	if s.data.PaddleLeft != v {
		s.data.PaddleLeft = v
		s.mark(FieldPaddleLeft)
	}
}

func (s *Synced) SetPaddleRight(v bool) {
	if s.data.PaddleRight != v {
		s.data.PaddleRight = v
		s.mark(FieldPaddleRight)
	}
}

func (s *Synced) SetVertical(v int) {
	if s.data.Vertical != v {
		s.data.Vertical = v
		s.mark(FieldVertical)
	}
}

func (s *Synced) SetBubbleTime(v int) {
	if s.data.BubbleTime != v {
		s.data.BubbleTime = v
		s.mark(FieldBubbleTime)
	}
}

// SetPaddleState writes both paddle flags and the vertical intent.
func (s *Synced) SetPaddleState(left, right bool, vertical int) {
	s.SetPaddleLeft(left)
	s.SetPaddleRight(right)
	s.SetVertical(vertical)
}

func (s *Synced) mark(f FieldMask) {
	s.dirty |= f
	s.generation++
}

// Dirty returns the fields changed since the last ClearDirty.
func (s *Synced) Dirty() FieldMask { return s.dirty }

// Generation increases by one for every effective change.
func (s *Synced) Generation() uint64 { return s.generation }

func (s *Synced) ClearDirty() { s.dirty = 0 }

// Snapshot returns a copy of every field in wire order.
func (s *Synced) Snapshot() netcomponents.NetShipStateData { return s.data }

// Replace overwrites the whole field set with an authoritative snapshot.
// Local provisional writes are discarded; fields that differ are marked dirty.
func (s *Synced) Replace(snap netcomponents.NetShipStateData) {
	s.SetHurtTime(snap.HurtTime)
	s.SetHurtDir(snap.HurtDir)
	s.SetDamage(snap.Damage)
	s.SetPaddleLeft(snap.PaddleLeft)
	s.SetPaddleRight(snap.PaddleRight)
	s.SetVertical(snap.Vertical)
	s.SetBubbleTime(snap.BubbleTime)
}
