package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr, prevNoColor := Out, ErrOut, color.NoColor
	Out, ErrOut, color.NoColor = out, errOut, true
	t.Cleanup(func() { Out, ErrOut, color.NoColor = prevOut, prevErr, prevNoColor })
	return out, errOut
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		_, errOut := capture(t)
		err := Error("Batch not completed", "Not enough flour", nil)
		require.Error(t, err)
		require.Equal(t, "Batch not completed", err.Error())
		require.Contains(t, errOut.String(), "Not enough flour")
	})

	t.Run("numbers multiple suggestions", func(t *testing.T) {
		_, errOut := capture(t)
		err := Error("Batch not completed", "Explanation", []string{
			"Buy more flour",
			"Reduce the batch quantity",
		})
		require.Equal(t, "Batch not completed", err.Error())
		require.Contains(t, errOut.String(), "Either:")
		require.Contains(t, errOut.String(), "2. Reduce the batch quantity")
	})
}

func TestPrefixes(t *testing.T) {
	out, _ := capture(t)

	Success("seeded\n")
	Warning("low stock\n")
	Step("loading\n")

	require.Contains(t, out.String(), "✓ seeded")
	require.Contains(t, out.String(), "⚠️  low stock")
	require.Contains(t, out.String(), "→ loading")
}

func TestTable(t *testing.T) {
	out, _ := capture(t)

	require.NoError(t, Table([]string{"Name", "Stock"}, [][]string{{"Flour", "44"}, {"Sugar", "25"}}))

	require.Contains(t, out.String(), "Flour")
	require.Contains(t, out.String(), "44")
	require.Contains(t, out.String(), "Sugar")
}
