package components

import (
	"github.com/automoto/skyships/shared/skyship"
	"github.com/yohamta/donburi"
)

// BodyData is a pilot or creature walking the world when not seated.
type BodyData struct {
	*skyship.Body
	OnGround bool
}

var Body = donburi.NewComponentType[BodyData]()
