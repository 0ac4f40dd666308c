// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sanitize strips markup from user- and vendor-supplied text before
// it is stored.
//
// Review comments and ingested book descriptions are rendered by clients as
// plain text, so every tag is removed and the inner text kept.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict is safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// Text removes all HTML elements from input, decodes the entities bluemonday
// escapes, and trims surrounding whitespace.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
}
