package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextColumn(t *testing.T) {
	c := TextColumn()
	assert.Equal(t, "abc", c.ApplyCopy("abc", 0))

	v, err := c.ApplyDelete("abc", 0)
	assert.NoError(t, err)
	assert.Equal(t, "", v)

	tests := []struct {
		pasted any
		want   string
		ok     bool
	}{
		{"hello", "hello", true},
		{12, "12", true},
		{true, "true", true},
		{nil, "", false},
	}
	for _, tt := range tests {
		got, ok := c.ApplyPaste("old", tt.pasted, 0)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}

	assert.True(t, c.IsCellEmpty.Resolve(CellContext[string]{Value: ""}))
	assert.Equal(t, "x", c.Component.Render(CellProps[string]{Value: "x"}))
}

func TestNumberColumn(t *testing.T) {
	c := NumberColumn()
	tests := []struct {
		pasted any
		want   float64
		ok     bool
	}{
		{"12.5", 12.5, true},
		{"1,234", 1234, true},
		{7, 7, true},
		{"abc", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := c.ApplyPaste(1, tt.pasted, 0)
		assert.Equal(t, tt.ok, ok, "paste %v", tt.pasted)
		assert.Equal(t, tt.want, got, "paste %v", tt.pasted)
	}

	v, err := c.ApplyDelete(3, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, "12.5", c.Component.Render(CellProps[float64]{Value: 12.5}))
	assert.True(t, c.IsCellEmpty.Resolve(CellContext[float64]{}))
}

func TestCheckboxColumn(t *testing.T) {
	c := CheckboxColumn()
	tests := []struct {
		pasted any
		want   bool
		ok     bool
	}{
		{true, true, true},
		{"YES", true, true},
		{"x", true, true},
		{"0", false, true},
		{"off", false, true},
		{1, true, true},
		{0.0, false, true},
		{"maybe", false, false},
		{nil, false, false},
	}
	for _, tt := range tests {
		got, ok := c.ApplyPaste(false, tt.pasted, 0)
		assert.Equal(t, tt.ok, ok, "paste %v", tt.pasted)
		assert.Equal(t, tt.want, got, "paste %v", tt.pasted)
	}
	assert.Equal(t, "[x]", c.Component.Render(CellProps[bool]{Value: true}))
	assert.Equal(t, "[ ]", c.Component.Render(CellProps[bool]{Value: false}))
	assert.False(t, c.IsCellEmpty.Resolve(CellContext[bool]{}))
}

func TestDateColumn(t *testing.T) {
	c := DateColumn()

	got, ok := c.ApplyPaste("", "2024-01-05T23:00:00Z", 0)
	assert.True(t, ok)
	assert.Equal(t, "2024-01-05", got)

	_, ok = c.ApplyPaste("2024-01-01", "not-a-date", 0)
	assert.False(t, ok)
}

func TestSelectColumn(t *testing.T) {
	c := SelectColumn("draft", "sent", "paid")
	assert.Equal(t, []string{"draft", "sent", "paid"}, c.Payload)

	got, ok := c.ApplyPaste("draft", " paid ", 0)
	assert.True(t, ok)
	assert.Equal(t, "paid", got)

	_, ok = c.ApplyPaste("draft", "void", 0)
	assert.False(t, ok)
	_, ok = c.ApplyPaste("draft", 1, 0)
	assert.False(t, ok)
}

func TestApplyWithoutFunctions(t *testing.T) {
	var c Column[string]
	assert.Nil(t, c.ApplyCopy("x", 0))
	v, err := c.ApplyDelete("x", 0)
	assert.NoError(t, err)
	assert.Equal(t, "x", v)
	v, ok := c.ApplyPaste("x", "y", 0)
	assert.False(t, ok)
	assert.Equal(t, "x", v)
}
