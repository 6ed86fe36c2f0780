package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypePath(t *testing.T) {
	p1 := NewTypePath("Shape")
	assert.Equal(t, "Shape", p1.String())

	p2 := p1.Field("Circle")
	assert.Equal(t, "Shape.Circle", p2.String())

	p3 := p2.Field("Radius")
	assert.Equal(t, "Shape.Circle.Radius", p3.String())

	// Parents are not modified by Field.
	assert.Equal(t, "Shape.Circle", p2.String())
	assert.Equal(t, "Meters.0", NewTypePath("Meters").Field("0").String())
}
