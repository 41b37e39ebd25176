package main

import (
	"testing"

	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/stretchr/testify/assert"
)

func TestCourseReplaysLegs(t *testing.T) {
	c := newCourse([]leg{
		{ticks: 2, actions: []netconfig.ActionID{netconfig.ActionForward}},
		{ticks: 1, actions: []netconfig.ActionID{netconfig.ActionTurnLeft, netconfig.ActionAscend}},
	})

	assert.Equal(t, skyship.Input{Forward: true}, c.Input(0))
	assert.Equal(t, skyship.Input{Forward: true}, c.Input(1))
	assert.Equal(t, skyship.Input{Left: true, Vertical: netconfig.VerticalUp}, c.Input(2))
	assert.Equal(t, skyship.Input{Forward: true}, c.Input(3), "wraps around")
}

func TestEmptyCourseIdles(t *testing.T) {
	assert.Equal(t, skyship.Input{}, newCourse(nil).Input(12))
}

func TestHarborLoopHasEveryLeg(t *testing.T) {
	c := newCourse(harborLoop)
	assert.Equal(t, 185, c.len)
	assert.Equal(t, skyship.Input{Back: true}, c.Input(184))
}
