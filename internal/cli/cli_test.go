package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(&buf)

	n.Success("income.add", "Income added")
	n.Failure("income.add", "Failed to add income", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "Income added")
	assert.Contains(t, out, "Failed to add income: boom")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "ID", "Name")
	tbl.Row(1, "Cash")
	tbl.Row(2)
	require.NoError(t, tbl.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "Cash")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "15740.00", Money(decimal.NewFromInt(15740)))
	assert.Equal(t, "12.5%", Percent(decimal.RequireFromString("12.49")))
}
