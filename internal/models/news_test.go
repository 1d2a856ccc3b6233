package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistribution(t *testing.T) {
	d := CountLabels([]string{"verdadera", "falsa", "verdadera", "dudosa"})

	assert.Equal(t, 2, d["verdadera"])
	assert.Equal(t, 4, d.Total())
	assert.Equal(t, []string{"dudosa", "falsa", "verdadera"}, d.Sorted())
	assert.Equal(t, `{"dudosa": 1, "falsa": 1, "verdadera": 2}`, d.String())
}

func TestExampleColumns(t *testing.T) {
	examples := []Example{{Text: "a", Label: "falsa"}, {Text: "b", Label: "verdadera"}}

	assert.Equal(t, []string{"a", "b"}, Texts(examples))
	assert.Equal(t, []string{"falsa", "verdadera"}, Labels(examples))
}

func TestLabelClass(t *testing.T) {
	assert.Equal(t, "verdadera", LabelTrue.String())
	assert.Equal(t, "falsa", LabelFalse.String())
	assert.True(t, Label{Name: "falsa", Class: LabelFalse}.IsCanonical())
	assert.False(t, Label{Name: "dudosa", Class: LabelUnrecognized}.IsCanonical())
}
