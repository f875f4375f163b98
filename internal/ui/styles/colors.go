// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Saffron is the brand accent: selections, the active screen, the logo.
var Saffron = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}

// SaffronDeep is a darker saffron for filled backgrounds.
var SaffronDeep = lipgloss.AdaptiveColor{Light: "#9A3412", Dark: "#7C2D12"}

// Lavender marks the assistant and secondary highlights.
var Lavender = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#C4B5FD"}

// Emerald marks success and the online status.
var Emerald = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}

// Rose marks errors and emergencies.
var Rose = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}

// Amber marks warnings and urgent items.
var Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// Sky marks informational text.
var Sky = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#7DD3FC"}

// =============================================================================
// SURFACES
// =============================================================================

// Surface is the main background.
var Surface = lipgloss.AdaptiveColor{Light: "#F5F2EB", Dark: "#1C1917"}

// SurfaceDim is used for the header and sidebar.
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#EDE8DD", Dark: "#171412"}

// SurfaceBright is used for cards.
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#292524"}

// Overlay is used for borders and separators.
var Overlay = lipgloss.AdaptiveColor{Light: "#D6D3D1", Dark: "#44403C"}

// =============================================================================
// TEXT
// =============================================================================

// TextPrimary is body text.
var TextPrimary = lipgloss.AdaptiveColor{Light: "#2A1B18", Dark: "#F5F5F4"}

// TextSecondary is for labels.
var TextSecondary = lipgloss.AdaptiveColor{Light: "#57534E", Dark: "#D6D3D1"}

// TextMuted is for hints.
var TextMuted = lipgloss.AdaptiveColor{Light: "#A8A29E", Dark: "#78716C"}

// TextInverse is text on filled accents.
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}
