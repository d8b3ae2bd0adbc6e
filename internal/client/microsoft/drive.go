package microsoft

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"saas-agent/internal/model"
)

const (
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type driveItem struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	WebURL               string `json:"webUrl"`
	Size                 int64  `json:"size"`
	LastModifiedDateTime string `json:"lastModifiedDateTime"`
	File                 *struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`
	Folder *struct{} `json:"folder"`
}

func (d driveItem) toModel() model.OneDriveFile {
	f := model.OneDriveFile{
		ID:                   d.ID,
		Name:                 d.Name,
		WebURL:               d.WebURL,
		Size:                 d.Size,
		LastModifiedDateTime: d.LastModifiedDateTime,
		IsFolder:             d.Folder != nil,
	}
	if d.File != nil {
		f.MimeType = d.File.MimeType
	}
	return f
}

func toFiles(items []driveItem) []model.OneDriveFile {
	out := make([]model.OneDriveFile, 0, len(items))
	for _, it := range items {
		out = append(out, it.toModel())
	}
	return out
}

// RootFiles OneDrive 根目录
func (c *Client) RootFiles(ctx context.Context, top int) ([]model.OneDriveFile, error) {
	var out list[driveItem]
	err := c.do(ctx, http.MethodGet, "/me/drive/root/children", map[string]string{
		"$top":    strconv.Itoa(top),
		"$select": "id,name,webUrl,size,lastModifiedDateTime,file,folder",
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return toFiles(out.Value), nil
}

var officeExt = regexp.MustCompile(`(?i)\.(docx|xlsx)$`)

// SearchFiles 按名称搜索，扩展名不参与搜索
func (c *Client) SearchFiles(ctx context.Context, name string, top int) ([]model.OneDriveFile, error) {
	q := strings.ReplaceAll(officeExt.ReplaceAllString(name, ""), "'", "''")
	var out list[driveItem]
	path := fmt.Sprintf("/me/drive/root/search(q='%s')", escape(q))
	if err := c.do(ctx, http.MethodGet, path, map[string]string{"$top": strconv.Itoa(top)}, nil, &out); err != nil {
		return nil, err
	}
	return toFiles(out.Value), nil
}

// Item 文件元数据
func (c *Client) Item(ctx context.Context, id string) (*model.OneDriveFile, error) {
	var it driveItem
	if err := c.do(ctx, http.MethodGet, "/me/drive/items/"+escape(id), nil, nil, &it); err != nil {
		return nil, err
	}
	f := it.toModel()
	return &f, nil
}

// CreateWordDoc 在根目录创建空白 .docx，重名时自动改名
func (c *Client) CreateWordDoc(ctx context.Context, title string) (*model.OneDriveFile, error) {
	name := withExt(title, ".docx")
	var it driveItem
	err := c.do(ctx, http.MethodPost, "/me/drive/root/children", nil, map[string]any{
		"name":                              name,
		"file":                              map[string]any{},
		"@microsoft.graph.conflictBehavior": "rename",
	}, &it)
	if err != nil {
		return nil, err
	}
	f := it.toModel()
	f.MimeType = mimeDocx
	return &f, nil
}

// CreateWorkbook 上传空内容创建 .xlsx，首次在 Excel Online 打开时初始化
func (c *Client) CreateWorkbook(ctx context.Context, title string) (*model.OneDriveFile, error) {
	name := withExt(title, ".xlsx")
	var it driveItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", mimeXlsx).
		SetBody([]byte{}).
		SetResult(&it).
		SetError(&errorBody{}).
		Put("/me/drive/root:/" + escape(name) + ":/content")
	if err != nil {
		return nil, fmt.Errorf("graph create workbook: %w", err)
	}
	if resp.IsError() {
		ge := &GraphError{Status: resp.StatusCode(), Message: resp.String()}
		if eb, ok := resp.Error().(*errorBody); ok && eb.Error.Code != "" {
			ge.Code, ge.Message = eb.Error.Code, eb.Error.Message
		}
		return nil, ge
	}
	f := it.toModel()
	f.MimeType = mimeXlsx
	return &f, nil
}

func withExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

type worksheet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type table struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// 新建或未初始化的工作簿读取时返回这些错误码，按空表处理
var emptyWorkbookCodes = map[string]bool{
	"ItemNotFound":     true,
	"ResourceNotFound": true,
	"InvalidWorkbook":  true,
}

func isEmptyWorkbook(err error) bool {
	ge, ok := err.(*GraphError)
	return ok && emptyWorkbookCodes[ge.Code]
}

func (c *Client) firstWorksheet(ctx context.Context, itemID string) (*worksheet, error) {
	var out list[worksheet]
	if err := c.do(ctx, http.MethodGet, "/me/drive/items/"+escape(itemID)+"/workbook/worksheets", nil, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Value) == 0 {
		return nil, &GraphError{Status: http.StatusNotFound, Code: "ItemNotFound", Message: "workbook has no worksheets"}
	}
	return &out.Value[0], nil
}

// UsedRange 第一个工作表中有数据的区域，单元格统一转成字符串
func (c *Client) UsedRange(ctx context.Context, itemID string) ([]model.SheetRow, error) {
	ws, err := c.firstWorksheet(ctx, itemID)
	if err != nil {
		if isEmptyWorkbook(err) {
			return []model.SheetRow{}, nil
		}
		return nil, err
	}
	var rng struct {
		Values [][]any `json:"values"`
	}
	path := fmt.Sprintf("/me/drive/items/%s/workbook/worksheets/%s/usedRange(valuesOnly=true)", escape(itemID), escape(ws.ID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &rng); err != nil {
		if isEmptyWorkbook(err) {
			return []model.SheetRow{}, nil
		}
		return nil, err
	}
	rows := make([]model.SheetRow, 0, len(rng.Values))
	for i, r := range rng.Values {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = model.CellString(v)
		}
		rows = append(rows, model.SheetRow{RowNumber: i + 1, Values: cells})
	}
	return rows, nil
}

// AppendRow 追加到第一个工作表的第一张表，没有表时按行宽新建
func (c *Client) AppendRow(ctx context.Context, itemID string, values []string) error {
	ws, err := c.firstWorksheet(ctx, itemID)
	if err != nil {
		return err
	}
	base := fmt.Sprintf("/me/drive/items/%s/workbook", escape(itemID))

	var tables list[table]
	if err := c.do(ctx, http.MethodGet, base+"/worksheets/"+escape(ws.ID)+"/tables", nil, nil, &tables); err != nil && !isEmptyWorkbook(err) {
		return err
	}
	tableID := ""
	if len(tables.Value) > 0 {
		tableID = tables.Value[0].ID
	} else {
		var created table
		err := c.do(ctx, http.MethodPost, base+"/worksheets/"+escape(ws.ID)+"/tables/add", nil, map[string]any{
			"address":    "A1:" + ColumnName(len(values)) + "1",
			"hasHeaders": true,
		}, &created)
		if err != nil {
			return err
		}
		tableID = created.ID
	}

	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return c.do(ctx, http.MethodPost, base+"/tables/"+escape(tableID)+"/rows", nil,
		map[string]any{"values": [][]any{row}}, nil)
}

// ColumnName 列序号（从 1 开始）转 Excel 列名：1 -> A，27 -> AA
func ColumnName(n int) string {
	if n < 1 {
		n = 1
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
