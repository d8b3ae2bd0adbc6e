package google

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"saas-agent/internal/model"
)

// CreateSpreadsheet sheetName 为空时使用默认工作表
func (c *Client) CreateSpreadsheet(ctx context.Context, title, sheetName string) (*model.Spreadsheet, error) {
	ss := &sheets.Spreadsheet{Properties: &sheets.SpreadsheetProperties{Title: title}}
	if sheetName != "" {
		ss.Sheets = []*sheets.Sheet{{Properties: &sheets.SheetProperties{Title: sheetName}}}
	}
	res, err := c.sheets.Spreadsheets.Create(ss).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets create: %w", err)
	}
	return &model.Spreadsheet{SpreadsheetID: res.SpreadsheetId, SpreadsheetURL: res.SpreadsheetUrl}, nil
}

// ReadRange 读取区域，单元格统一转为字符串
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, rng string) ([]model.SheetRow, error) {
	res, err := c.sheets.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets read %s: %w", rng, err)
	}
	rows := make([]model.SheetRow, 0, len(res.Values))
	for i, r := range res.Values {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = model.CellString(v)
		}
		rows = append(rows, model.SheetRow{RowNumber: i + 1, Values: cells})
	}
	return rows, nil
}

// UpdateRange 按用户输入方式写入（公式、数字会被解析）
func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, rng string, values model.Rows) error {
	vals := make([][]interface{}, len(values))
	for i, r := range values {
		row := make([]interface{}, len(r))
		for j, v := range r {
			row[j] = v
		}
		vals[i] = row
	}
	_, err := c.sheets.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: vals}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets update %s: %w", rng, err)
	}
	return nil
}
