package slug

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple", title: "Hello World", want: "hello-world"},
		{name: "accents", title: "Crème Brûlée à la Café", want: "creme-brulee-a-la-cafe"},
		{name: "german", title: "Große Übung", want: "grosse-ubung"},
		{name: "punctuation collapses", title: "  Goals, Habits & Metrics!! ", want: "goals-habits-metrics"},
		{name: "digits kept", title: "10 Ideas for 2026", want: "10-ideas-for-2026"},
		{name: "only symbols", title: "???", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestMakeTruncates(t *testing.T) {
	long := Make("a very long title that keeps going and going well beyond any reasonable slug length for a url")
	assert.LessOrEqual(t, len(long), maxLength)
	assert.NotEqual(t, '-', rune(long[len(long)-1]))
}

func TestStable(t *testing.T) {
	assert.Equal(t, "hello-world", Stable("Hello World"))
	assert.Empty(t, Stable("   "))

	tokyo := Stable("東京")
	assert.Regexp(t, `^a-[0-9a-f]{10}$`, tokyo)
	assert.Equal(t, tokyo, Stable(" 東京 "))
	assert.NotEqual(t, tokyo, Stable("大阪"))
	assert.Equal(t, tokyo, Make(tokyo))
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"focus": true, "focus-2": true}
	exists := func(s string) (bool, error) { return taken[s], nil }

	got, err := Unique("focus", exists)
	require.NoError(t, err)
	assert.Equal(t, "focus-3", got)

	got, err = Unique("fresh", exists)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)

	got, err = Unique("", exists)
	require.NoError(t, err)
	assert.Equal(t, "untitled", got)
}

func TestUniquePropagatesError(t *testing.T) {
	boom := errors.New("db down")
	_, err := Unique("x", func(string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Deep Work", Title(" deep work "))
	assert.Equal(t, "The NASA Way", Title("the NASA way"))
}
