package main

import (
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/skyship"
)

// leg holds a set of pilot actions for a number of ticks.
type leg struct {
	ticks   int
	actions []netconfig.ActionID
}

// harborLoop rows out, turns about and rows back, lifting off the water on
// the way home.
var harborLoop = []leg{
	{ticks: 40, actions: []netconfig.ActionID{netconfig.ActionForward}},
	{ticks: 30, actions: []netconfig.ActionID{netconfig.ActionForward, netconfig.ActionTurnRight}},
	{ticks: 20, actions: nil},
	{ticks: 45, actions: []netconfig.ActionID{netconfig.ActionTurnLeft}},
	{ticks: 30, actions: []netconfig.ActionID{netconfig.ActionForward, netconfig.ActionAscend}},
	{ticks: 20, actions: []netconfig.ActionID{netconfig.ActionBack}},
}

// course replays its legs in a loop.
type course struct {
	legs []leg
	len  int
}

func newCourse(legs []leg) *course {
	c := &course{legs: legs}
	for _, l := range legs {
		c.len += l.ticks
	}
	return c
}

// Input returns the pilot input for a tick.
func (c *course) Input(tick int) skyship.Input {
	if c.len == 0 {
		return skyship.Input{}
	}
	t := tick % c.len
	for _, l := range c.legs {
		if t < l.ticks {
			var held [netconfig.ActionCount]bool
			for _, a := range l.actions {
				held[a] = true
			}
			return skyship.InputFromActions(held)
		}
		t -= l.ticks
	}
	return skyship.Input{}
}
