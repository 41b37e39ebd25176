package config

import "github.com/yohamta/donburi/ecs"

// Default is the layer every server entity lives on.
const Default ecs.LayerID = 0
