package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Status string `json:"status" validate:"required,oneof=processing completed"`
	Sort   string `json:"sort,omitempty" validate:"omitempty,oneof=recent priority risk"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(sample{Status: "completed"}))
	require.NoError(t, v.Validate(&sample{Status: "processing", Sort: "risk"}))

	err := v.Validate(sample{Status: "done"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample.status failed oneof=processing completed")

	err = v.Validate(sample{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status failed required")

	err = v.Validate(sample{Status: "completed", Sort: "alpha"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort failed oneof")
}
