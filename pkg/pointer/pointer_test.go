// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookshelf/pkg/pointer"
)

func TestToAndVal(t *testing.T) {
	year := pointer.To(1984)
	assert.Equal(t, 1984, *year)
	assert.Equal(t, 1984, pointer.Val(year))

	var missing *int
	assert.Zero(t, pointer.Val(missing))
	assert.Empty(t, pointer.Val[string](nil))
}
