package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Goals",
		Headers: []string{"Goal", "Saved", "Progress"},
		Rows: [][]string{
			{"Emergency fund", "$6,500", "65%"},
			{"---"},
			{"Vacation", "$0", "0%"},
		},
	})
	assert.Contains(t, out, "Goals")
	assert.Contains(t, out, "Emergency fund")
	assert.Contains(t, out, "$6,500")
	assert.Equal(t, 8, strings.Count(out, "\n"))
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, isNumeric("$1,000"))
	assert.True(t, isNumeric("65%"))
	assert.True(t, isNumeric("-$40"))
	assert.False(t, isNumeric("Vacation"))
	assert.False(t, isNumeric(""))
}

func TestRenderProgressBarClamps(t *testing.T) {
	assert.Contains(t, RenderProgressBar(150, 10), "100%")
	assert.Contains(t, RenderProgressBar(-3, 10), "0%")
	assert.Empty(t, RenderProgressBar(50, 0))
}
