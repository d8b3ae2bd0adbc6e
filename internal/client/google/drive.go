package google

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"saas-agent/internal/model"
)

// Drive 中各类原生文档的 MIME
const (
	MimeDocument    = "application/vnd.google-apps.document"
	MimeSpreadsheet = "application/vnd.google-apps.spreadsheet"
	MimeForm        = "application/vnd.google-apps.form"
)

const driveFileFields = "files(id, name, mimeType, modifiedTime, size, webViewLink)"

// RecentFiles 最近修改的文件，排除回收站
func (c *Client) RecentFiles(ctx context.Context, limit int) ([]model.DriveFile, error) {
	res, err := c.drive.Files.List().
		PageSize(int64(limit)).
		Fields(googleapi.Field(driveFileFields)).
		OrderBy("modifiedTime desc").
		Q("trashed = false").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive list: %w", err)
	}
	return toDriveFiles(res.Files), nil
}

// SearchFiles 名称包含 name 的文件，mimeType 为空时不限类型
func (c *Client) SearchFiles(ctx context.Context, name, mimeType string, limit int) ([]model.DriveFile, error) {
	q := fmt.Sprintf("name contains '%s' and trashed = false", escapeQuery(name))
	if mimeType != "" {
		q += fmt.Sprintf(" and mimeType = '%s'", mimeType)
	}
	res, err := c.drive.Files.List().
		PageSize(int64(limit)).
		Fields(googleapi.Field(driveFileFields)).
		OrderBy("modifiedTime desc").
		Q(q).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive search: %w", err)
	}
	return toDriveFiles(res.Files), nil
}

// escapeQuery Drive 查询字符串中的反斜杠与单引号需要转义
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func toDriveFiles(files []*drive.File) []model.DriveFile {
	out := make([]model.DriveFile, 0, len(files))
	for _, f := range files {
		name := f.Name
		if name == "" {
			name = "Untitled"
		}
		out = append(out, model.DriveFile{
			ID:           f.Id,
			Name:         name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			Size:         f.Size,
			WebViewLink:  f.WebViewLink,
		})
	}
	return out
}
