package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacrosAdd(t *testing.T) {
	a := Macros{Calories: 200, Protein: 10, Carbs: 25, Fat: 5}
	b := Macros{Calories: 150, Protein: 20, Carbs: 5, Fat: 8}

	sum := a.Add(b)

	assert.Equal(t, Macros{Calories: 350, Protein: 30, Carbs: 30, Fat: 13}, sum)
}

func TestMacrosScale(t *testing.T) {
	m := Macros{Calories: 100, Protein: 10, Carbs: 20, Fat: 4}

	assert.Equal(t, Macros{Calories: 50, Protein: 5, Carbs: 10, Fat: 2}, m.Scale(0.5))
	assert.Equal(t, Macros{}, m.Scale(0))
}

func TestCategoryNormalize(t *testing.T) {
	tests := []struct {
		in   Category
		want Category
	}{
		{CategoryProtein, CategoryProtein},
		{CategoryFrozen, CategoryFrozen},
		{Category("snacks"), CategoryOther},
		{Category(""), CategoryOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize(), string(tt.in))
	}
}
