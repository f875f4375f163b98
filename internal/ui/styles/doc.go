// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the NEXA terminal UI.

Colors are Lip Gloss AdaptiveColors so light and dark terminals both read
well. A Theme bundles the styles used by the components and screens.

# Modes

	auto   - detect the background with termenv
	dark   - force the dark palette
	light  - force the light palette
	plain  - no color at all (also used when NO_COLOR is set)
*/
package styles
