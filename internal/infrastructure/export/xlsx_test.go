package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestExport(t *testing.T) {
	turns := []entity.Turn{
		entity.UserTurn("hello"),
		entity.AssistantTurn("Hi! How can I help?"),
	}

	data, err := NewXLSXExporter().Export(context.Background(), "42", turns)
	require.NoError(t, err)

	rows := readRows(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"#", "Role", "Message"}, rows[0])
	assert.Equal(t, []string{"1", "user", "hello"}, rows[1])
	assert.Equal(t, []string{"2", "assistant", "Hi! How can I help?"}, rows[2])
}

func TestExport_ColumnWidths(t *testing.T) {
	data, err := NewXLSXExporter().Export(context.Background(), "42", []entity.Turn{entity.UserTurn("hi")})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	for col, want := range map[string]float64{"A": 6, "B": 12, "C": 100} {
		got, err := f.GetColWidth(SheetName, col)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.01, "column %s", col)
	}
}

func TestExport_Empty(t *testing.T) {
	data, err := NewXLSXExporter().Export(context.Background(), "42", nil)
	require.NoError(t, err)

	assert.Len(t, readRows(t, data), 1)
}

func TestExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewXLSXExporter().Export(ctx, "42", []entity.Turn{entity.UserTurn("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "conversation_42.xlsx", NewXLSXExporter().FileName("42"))
}
