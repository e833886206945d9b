package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"github.com/yourusername/gemini-chat-bot/internal/domain/repository"
)

// SheetName transcript varag'i nomi
const SheetName = "Conversation"

var header = []interface{}{"#", "Role", "Message"}

var columnWidths = []struct {
	col   string
	width float64
}{
	{"A", 6},
	{"B", 12},
	{"C", 100},
}

type xlsxExporter struct{}

// NewXLSXExporter yangi Excel eksportchi yaratish
func NewXLSXExporter() repository.TranscriptExporter {
	return &xlsxExporter{}
}

func (e *xlsxExporter) FileName(identity string) string {
	return fmt.Sprintf("conversation_%s.xlsx", identity)
}

// Export one row per turn under a bold header row
func (e *xlsxExporter) Export(ctx context.Context, identity string, turns []entity.Turn) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	for i, turn := range turns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{i + 1, string(turn.Role), turn.Text}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(turns) > 0 {
		last := fmt.Sprintf("C%d", len(turns)+1)
		if err := f.SetCellStyle(SheetName, "C2", last, wrap); err != nil {
			return nil, fmt.Errorf("failed to style rows: %w", err)
		}
	}

	for _, w := range columnWidths {
		if err := f.SetColWidth(SheetName, w.col, w.col, w.width); err != nil {
			return nil, fmt.Errorf("failed to set width of column %s: %w", w.col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
