// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"github.com/jeranaias/nexa-tui/internal/router"
)

// Tile is a module shortcut on the dashboard.
type Tile struct {
	Screen      router.Screen
	Title       string
	Description string
}

// DashboardTiles lists the module shortcuts in display order.
var DashboardTiles = []Tile{
	{Screen: router.ScreenEducation, Title: "Edu.Sync", Description: "NEB lessons for grades 8 to 10"},
	{Screen: router.ScreenTravel, Title: "Travel.OTA", Description: "Itineraries, hotels and rentals"},
	{Screen: router.ScreenHealth, Title: "Health.Hub", Description: "Symptom check and specialists"},
	{Screen: router.ScreenAgriculture, Title: "Agri.Climate", Description: "Crop suitability and markets"},
	{Screen: router.ScreenChat, Title: "AI.Chat", Description: "Ask the assistant anything"},
}
