package executor

import (
	"context"
	"fmt"
	"strings"

	"saas-agent/internal/model"
	"saas-agent/internal/service/match"
	"saas-agent/internal/timeutil"
)

func (e *Executor) fetchOutlookEmails(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.FetchEmailParams](req.Intent)
	emails, err := m.Messages(ctx, e.limit(p.LimitOr(5)), p.Search)
	if err != nil {
		return vendorFailed(action, "Failed to fetch Outlook emails.", err)
	}
	return done(action, fmt.Sprintf("Found %d Outlook emails.", len(emails)), emails)
}

func (e *Executor) sendOutlookEmail(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.SendEmailParams](req.Intent)
	to := strings.TrimSpace(p.To)
	if to == "" {
		return missing(action, "Who should I email?")
	}
	subject := p.Subject
	if subject == "" {
		subject = "No Subject"
	}
	if err := m.SendMail(ctx, to, subject, p.Body); err != nil {
		return vendorFailed(action, "Failed to send Outlook email.", err)
	}
	return done(action, "Outlook email sent successfully.", nil)
}

func (e *Executor) createOutlookEvent(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.MeetingParams](req.Intent)
	if p.Time == "" {
		return missing(action, "Please provide a time for the event.")
	}
	hm, err := timeutil.NormalizeTo24h(p.Time)
	if err != nil {
		return timeProblem(action, err)
	}
	now := e.now()
	date := p.Date
	if date == "" {
		date = timeutil.DateOf(now, e.opts.Location)
	}
	start, end, err := timeutil.WallClock(date, hm, timeutil.DefaultMeetingLength, now)
	if err != nil {
		return timeProblem(action, err)
	}
	subject := p.Subject
	if subject == "" {
		subject = "Meeting"
	}
	tz := e.opts.OutlookTimeZone
	ev, err := m.CreateEvent(ctx, subject, p.Body, start, end, tz)
	if err != nil {
		return vendorFailed(action, "Failed to create Outlook event.", err)
	}
	return done(action, fmt.Sprintf("Outlook Calendar event created: %q at %s (%s)", subject, hm, tz), ev)
}

func (e *Executor) fetchOneDriveFiles(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.FetchFileParams](req.Intent)
	n := e.limit(p.LimitOr(5))
	var (
		files []model.OneDriveFile
		err   error
	)
	if p.Search != "" {
		files, err = m.SearchFiles(ctx, p.Search, n)
	} else {
		files, err = m.RootFiles(ctx, n)
	}
	if err != nil {
		return vendorFailed(action, "Failed to fetch OneDrive files.", err)
	}
	return done(action, fmt.Sprintf("Found %d OneDrive files.", len(files)), files)
}

func (e *Executor) createWordDoc(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.OfficeFileParams](req.Intent)
	if strings.TrimSpace(p.Title) == "" {
		return missing(action, "Please provide a title.")
	}
	f, err := m.CreateWordDoc(ctx, p.Title)
	if err != nil {
		return vendorFailed(action, "Failed to create Word document.", err)
	}
	return done(action, fmt.Sprintf("Word document created: %q\nClick to Open: %s", f.Name, f.WebURL), f)
}

func (e *Executor) createExcelSheet(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.OfficeFileParams](req.Intent)
	if strings.TrimSpace(p.Title) == "" {
		return missing(action, "Please provide a title.")
	}
	f, err := m.CreateWorkbook(ctx, p.Title)
	if err != nil {
		return vendorFailed(action, "Failed to create Excel workbook.", err)
	}
	return done(action, fmt.Sprintf("Excel workbook created: %q\nClick to Open: %s", f.Name, f.WebURL), f)
}

// oneDriveFile 按 ID 或名称定位 OneDrive 文件
func oneDriveFile(ctx context.Context, m MicrosoftAPI, id, title string) (*model.OneDriveFile, error) {
	if id != "" {
		return m.Item(ctx, id)
	}
	files, err := m.SearchFiles(ctx, title, 25)
	if err != nil {
		return nil, err
	}
	f, ok := match.Name(files, title, func(f model.OneDriveFile) string { return f.Name })
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (e *Executor) readWordDoc(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.OfficeFileParams](req.Intent)
	if p.DocumentID == "" && p.Title == "" {
		return missing(action, "Which Word document? Please provide its name.")
	}
	f, err := oneDriveFile(ctx, m, p.DocumentID, p.Title)
	if err != nil {
		return vendorFailed(action, "Failed to read Word document.", err)
	}
	if f == nil {
		return notFound(action, fmt.Sprintf("Could not find Word doc %q.", p.Title))
	}
	msg := fmt.Sprintf("Word Document found: %q\n\nPreview is not supported for .docx files via API.\nOpen in Word Online: %s", f.Name, f.WebURL)
	return done(action, msg, f)
}

func (e *Executor) readExcelSheet(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.OfficeFileParams](req.Intent)
	if p.SpreadsheetID == "" && p.Title == "" {
		return missing(action, "Which Excel workbook? Please provide its name.")
	}
	f, err := oneDriveFile(ctx, m, p.SpreadsheetID, p.Title)
	if err != nil {
		return vendorFailed(action, "Failed to read Excel workbook.", err)
	}
	if f == nil {
		return notFound(action, fmt.Sprintf("Could not find Excel file %q.", p.Title))
	}
	rows, err := m.UsedRange(ctx, f.ID)
	if err != nil {
		return vendorFailed(action, "Failed to read Excel workbook.", err)
	}
	return done(action, fmt.Sprintf("Read %d rows from %q.", len(rows), f.Name), rows)
}

func (e *Executor) updateExcelSheet(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.OfficeFileParams](req.Intent)
	if p.SpreadsheetID == "" && p.Title == "" {
		return missing(action, "Which Excel workbook? Please provide its name.")
	}
	if len(p.Values) == 0 || len(p.Values[0]) == 0 {
		return missing(action, "Please provide values to append (row data).")
	}
	f, err := oneDriveFile(ctx, m, p.SpreadsheetID, p.Title)
	if err != nil {
		return vendorFailed(action, "Failed to update Excel workbook.", err)
	}
	if f == nil {
		return notFound(action, fmt.Sprintf("Could not find Excel file %q.", p.Title))
	}
	if err := m.AppendRow(ctx, f.ID, p.Values[0]); err != nil {
		return vendorFailed(action, "Failed to update Excel workbook.", err)
	}
	return done(action, fmt.Sprintf("Added row to %q.", f.Name), nil)
}

func (e *Executor) fetchTeamsMessages(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.TeamsParams](req.Intent)
	msgs, err := m.TeamsMessages(ctx, e.limit(p.LimitOr(5)))
	if err != nil {
		return vendorFailed(action, "Failed to fetch Teams messages.", err)
	}
	if p.Search != "" {
		q := strings.ToLower(p.Search)
		kept := msgs[:0]
		for _, msg := range msgs {
			if strings.Contains(strings.ToLower(msg.Body), q) || strings.Contains(strings.ToLower(msg.Subject), q) {
				kept = append(kept, msg)
			}
		}
		msgs = kept
	}
	return done(action, fmt.Sprintf("Found %d recent Teams messages.", len(msgs)), msgs)
}

func (e *Executor) fetchTeamsChannels(ctx context.Context, req Request, m MicrosoftAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.TeamsParams](req.Intent)
	channels, err := m.TeamsChannels(ctx, e.limit(p.LimitOr(10)))
	if err != nil {
		return vendorFailed(action, "Failed to fetch Teams channels.", err)
	}
	return done(action, fmt.Sprintf("Found %d channels.", len(channels)), channels)
}
