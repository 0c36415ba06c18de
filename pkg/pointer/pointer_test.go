// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tradepost/pkg/pointer"
)

/*
TestClone copies the pointee and keeps nil as nil.
*/
func TestClone(t *testing.T) {
	original := pointer.To(1.25)
	cloned := pointer.Clone(original)

	assert.Equal(t, original, cloned)
	*original = 9
	assert.InDelta(t, 1.25, *cloned, 1e-9)

	assert.Nil(t, pointer.Clone[float64](nil))
}
