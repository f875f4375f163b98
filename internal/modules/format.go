// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var nprPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatNPR renders a rupee amount rounded to whole rupees, e.g. "Rs. 4,500".
func FormatNPR(amount float64) string {
	return nprPrinter.Sprintf("Rs. %d", int64(math.Round(amount)))
}

// Greeting returns the dashboard salutation for the local hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good Morning"
	case h < 17:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}
