package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredict(t *testing.T) {
	t.Run("RecyclableLabels", func(t *testing.T) {
		p := Predict([]string{"plastic bottle", "glass"})
		assert.Equal(t, CategoryRecyclable, p.Category)
		assert.Equal(t, "clean", p.Adjective)
		assert.InDelta(t, 1.0, p.Confidence, 0.06) // capped at 0.95
	})

	t.Run("BiodegradableBeatsSingleRecyclable", func(t *testing.T) {
		p := Predict([]string{"banana", "fruit", "paper"})
		assert.Equal(t, CategoryBiodegradable, p.Category)
	})

	t.Run("HazardousLabels", func(t *testing.T) {
		p := Predict([]string{"chemical drum", "oil"})
		assert.Equal(t, CategoryHazardous, p.Category)
		assert.Equal(t, "toxic", p.Adjective)
	})

	t.Run("NoLabels", func(t *testing.T) {
		p := Predict(nil)
		assert.Equal(t, CategoryMixed, p.Category)
		assert.Equal(t, 0.5, p.Confidence)
	})

	t.Run("UnknownLabels", func(t *testing.T) {
		p := Predict([]string{"zzzz", "qqqq"})
		assert.Equal(t, CategoryMixed, p.Category)
		assert.Equal(t, 0.5, p.Confidence)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		p := Predict([]string{"BATTERY"})
		assert.Equal(t, CategorySpecial, p.Category)
	})
}
