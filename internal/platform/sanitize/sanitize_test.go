// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookshelf/internal/platform/sanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "  A gripping read.  ", "A gripping read."},
		{"script_removed", `Great<script>alert(1)</script> book`, "Great book"},
		{"tags_unwrapped", "<p>Loved <b>every</b> page</p>", "Loved every page"},
		{"ampersand_kept", "Pride & Prejudice", "Pride & Prejudice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize.Text(tt.input))
		})
	}
}
