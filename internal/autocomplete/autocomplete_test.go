package autocomplete

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterCaseInsensitiveInOrder(t *testing.T) {
	history := []string{"Milk", "milk powder", "Lime"}
	assert.Equal(t, []string{"Milk", "milk powder"}, Filter(history, "mil"))
	assert.Equal(t, []string{"Milk", "milk powder"}, Filter(history, "MIL"))
}

func TestFilterEmptyQuery(t *testing.T) {
	assert.Empty(t, Filter([]string{"Milk"}, ""))
}

func TestFilterDevanagariIsExact(t *testing.T) {
	history := []string{"दूध", "दूध पावडर", "टोमॅटो", "Tomato"}
	assert.Equal(t, []string{"दूध", "दूध पावडर"}, Filter(history, "दूध"))
	assert.Equal(t, []string{"टोमॅटो"}, Filter(history, "टोम"))
	// Latin query against a Devanagari candidate is a plain substring test.
	assert.Equal(t, []string{"Tomato"}, Filter(history, "tom"))
}

func TestFilterMixedScriptCandidateUsesExactMatch(t *testing.T) {
	history := []string{"Tomato टोमॅटो"}
	assert.Empty(t, Filter(history, "tomato"))
	assert.Equal(t, history, Filter(history, "Tomato"))
}

func TestFilterBounded(t *testing.T) {
	var history []string
	for i := 0; i < 20; i++ {
		history = append(history, fmt.Sprintf("rice %d", i))
	}
	got := Filter(history, "rice")
	assert.Len(t, got, MaxSuggestions)
	assert.Equal(t, "rice 0", got[0])
	assert.Equal(t, "rice 7", got[7])

	assert.Len(t, FilterN(history, "rice", 3), 3)
	assert.Empty(t, FilterN(history, "rice", 0))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	history := []string{"Milk", "Lime"}
	_ = Filter(history, "l")
	assert.Equal(t, []string{"Milk", "Lime"}, history)
}
