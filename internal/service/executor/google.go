package executor

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/go-openapi/strfmt"

	"saas-agent/internal/client/google"
	"saas-agent/internal/model"
	"saas-agent/internal/service/match"
	"saas-agent/internal/timeutil"
)

const (
	defaultSheetRange = "Sheet1!A1:E10"
	// formIDMinLen 更短的 formId 视为标题
	formIDMinLen = 25
)

var meetMention = regexp.MustCompile(`(?i)\bmeet(ing)?s?\b`)

// ---- Gmail ----

func (e *Executor) fetchEmails(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.FetchEmailParams](req.Intent)
	if p.Date != "" && google.DateQuery(p.Date) == "" {
		return missing(action, "Invalid date format. Use YYYY-MM-DD.")
	}
	emails, err := g.ListEmails(ctx, google.EmailQuery{
		Search: p.Search,
		Date:   p.Date,
		Limit:  e.limit(p.LimitOr(50)),
	})
	if err != nil {
		return vendorFailed(action, "Failed to fetch emails.", err)
	}
	if p.Date != "" {
		emails = onDate(emails, p.Date, e)
	}
	answer := e.answerer.AnswerFromEmails(ctx, emails, req.Query, p.Date)
	return done(action, fmt.Sprintf("Found %d emails. %s", len(emails), answer), emails)
}

// onDate Gmail 的 after/before 按 UTC 日界，这里按配置时区再过滤一次；日期头无法解析的丢弃
func onDate(emails []model.Email, date string, e *Executor) []model.Email {
	out := make([]model.Email, 0, len(emails))
	for _, m := range emails {
		t, err := mail.ParseDate(m.Date)
		if err != nil {
			continue
		}
		if timeutil.DateOf(t, e.opts.Location) == date {
			out = append(out, m)
		}
	}
	return out
}

func (e *Executor) sendEmail(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.SendEmailParams](req.Intent)
	to := strings.TrimSpace(p.To)
	if to == "" {
		return missing(action, "Who should I send the email to?")
	}
	if !strfmt.IsEmail(to) {
		return missing(action, fmt.Sprintf("%q is not a valid email address.", to))
	}
	subject := p.Subject
	if subject == "" {
		subject = "Meeting Details"
	}
	body := p.Body
	if req.Intent.UsesContext || meetMention.MatchString(req.Query) {
		meetings, err := e.store.Meetings(ctx, req.Session)
		if err != nil {
			e.log.Warn().Err(err).Str("session", req.Session).Msg("load meetings")
		}
		if n := len(meetings); n > 0 {
			body = appendMeeting(body, meetings[n-1], e)
		}
	}
	if err := g.SendEmail(ctx, to, subject, body); err != nil {
		return vendorFailed(action, "Failed to send email.", err)
	}
	return done(action, fmt.Sprintf("Email sent to %s.", to), nil)
}

func appendMeeting(body string, m model.Meeting, e *Executor) string {
	details := fmt.Sprintf("Google Meet: %s\nTime: %s - %s",
		m.JoinLink,
		timeutil.Display(m.Start, e.opts.Location),
		timeutil.Display(m.End, e.opts.Location))
	if strings.TrimSpace(body) == "" {
		return "Here are the meeting details:\n\n" + details
	}
	return body + "\n\n" + details
}

// ---- Drive ----

func (e *Executor) fetchFiles(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.FetchFileParams](req.Intent)
	n := e.limit(p.LimitOr(5))
	var (
		files []model.DriveFile
		err   error
	)
	if p.Search != "" {
		files, err = g.SearchFiles(ctx, p.Search, "", n)
	} else {
		files, err = g.RecentFiles(ctx, n)
	}
	if err != nil {
		return vendorFailed(action, "Failed to fetch Drive files.", err)
	}
	return done(action, fmt.Sprintf("Fetched %d files from Drive.", len(files)), files)
}

// driveFile 按 ID 或名称定位 Drive 文件；ok 为 false 表示没找到
func driveFile(ctx context.Context, g GoogleAPI, id, title, mimeType string) (fileID, name string, ok bool, err error) {
	if id != "" {
		if title == "" {
			title = id
		}
		return id, title, true, nil
	}
	if strings.TrimSpace(title) == "" {
		return "", "", false, nil
	}
	files, err := g.SearchFiles(ctx, title, mimeType, 10)
	if err != nil {
		return "", "", false, err
	}
	f, ok := match.Name(files, title, func(f model.DriveFile) string { return f.Name })
	if !ok {
		return "", "", false, nil
	}
	return f.ID, f.Name, true, nil
}

// ---- Sheets ----

func (e *Executor) createSheet(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.CreateSheetParams](req.Intent)
	if strings.TrimSpace(p.Title) == "" {
		return missing(action, "Please provide a name for the Google Sheet.")
	}
	sheet, err := g.CreateSpreadsheet(ctx, p.Title, p.SheetName)
	if err != nil {
		return vendorFailed(action, "Failed to create Google Sheet.", err)
	}
	return done(action, "Google Sheet created successfully!\n"+sheet.SpreadsheetURL, sheet)
}

func (e *Executor) readSheet(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.SheetParams](req.Intent)
	if p.SpreadsheetID == "" && p.Title == "" {
		return missing(action, "Which spreadsheet should I read? Please provide its name.")
	}
	id, name, ok, err := driveFile(ctx, g, p.SpreadsheetID, p.Title, google.MimeSpreadsheet)
	if err != nil {
		return vendorFailed(action, "Failed to read spreadsheet.", err)
	}
	if !ok {
		return notFound(action, fmt.Sprintf("Could not find a spreadsheet named %q.", p.Title))
	}
	rng := p.Range
	if rng == "" {
		rng = defaultSheetRange
	}
	rows, err := g.ReadRange(ctx, id, rng)
	if err != nil {
		return vendorFailed(action, "Failed to read spreadsheet.", err)
	}
	return done(action, fmt.Sprintf("Read %d rows from %q.", len(rows), name), rows)
}

func (e *Executor) updateSheet(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.SheetParams](req.Intent)
	if p.SpreadsheetID == "" && p.Title == "" {
		return missing(action, "Which spreadsheet should I update? Please provide its name.")
	}
	if len(p.Values) == 0 {
		return missing(action, "Please provide the values to write.")
	}
	id, name, ok, err := driveFile(ctx, g, p.SpreadsheetID, p.Title, google.MimeSpreadsheet)
	if err != nil {
		return vendorFailed(action, "Failed to update spreadsheet.", err)
	}
	if !ok {
		return notFound(action, fmt.Sprintf("Could not find spreadsheet %q.", p.Title))
	}
	rng := p.Range
	if rng == "" {
		rng = "Sheet1!A1"
	}
	if err := g.UpdateRange(ctx, id, rng, p.Values); err != nil {
		return vendorFailed(action, "Failed to update spreadsheet.", err)
	}
	return done(action, fmt.Sprintf("Updated %q successfully.", name), nil)
}

// ---- Docs ----

func (e *Executor) createDoc(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.DocParams](req.Intent)
	if strings.TrimSpace(p.Title) == "" {
		return missing(action, "Please provide a title.")
	}
	doc, err := g.CreateDoc(ctx, p.Title)
	if err != nil {
		return vendorFailed(action, "Failed to create document.", err)
	}
	if p.Content != "" {
		if err := g.AppendText(ctx, doc.DocumentID, p.Content); err != nil {
			return vendorFailed(action, "Document created, but adding the content failed.", err)
		}
	}
	return done(action, "Doc created: "+doc.Title, doc)
}

// docTarget 定位文档，返回值 res 非空时直接作为结果
func docTarget(ctx context.Context, req Request, g GoogleAPI, p *model.DocParams) (id, name string, res *model.Result) {
	action := req.Intent.Action
	if p.DocumentID == "" && p.Title == "" {
		r := missing(action, "Which document? Please provide its title.")
		return "", "", &r
	}
	id, name, ok, err := driveFile(ctx, g, p.DocumentID, p.Title, google.MimeDocument)
	if err != nil {
		r := vendorFailed(action, "Failed to find the document.", err)
		return "", "", &r
	}
	if !ok {
		r := notFound(action, fmt.Sprintf("Could not find doc %q.", p.Title))
		return "", "", &r
	}
	return id, name, nil
}

func (e *Executor) readDoc(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.DocParams](req.Intent)
	id, name, res := docTarget(ctx, req, g, p)
	if res != nil {
		return *res
	}
	content, err := g.ReadDoc(ctx, id)
	if err != nil {
		return vendorFailed(action, "Failed to read document.", err)
	}
	return done(action, fmt.Sprintf("Read content from %q.", name), content)
}

func (e *Executor) appendDoc(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.DocParams](req.Intent)
	text := p.Text
	if text == "" {
		text = p.Content
	}
	if text == "" {
		return missing(action, "No text provided.")
	}
	id, name, res := docTarget(ctx, req, g, p)
	if res != nil {
		return *res
	}
	if err := g.AppendText(ctx, id, text); err != nil {
		return vendorFailed(action, "Failed to update document.", err)
	}
	return done(action, fmt.Sprintf("Added text to %q.", name), nil)
}

func (e *Executor) replaceDoc(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.DocParams](req.Intent)
	if p.FindText == "" || p.ReplaceText == nil {
		return missing(action, "Missing parameters. Tell me which text to find and what to replace it with.")
	}
	id, name, res := docTarget(ctx, req, g, p)
	if res != nil {
		return *res
	}
	n, err := g.ReplaceText(ctx, id, p.FindText, *p.ReplaceText)
	if err != nil {
		return vendorFailed(action, "Failed to update document.", err)
	}
	return done(action, fmt.Sprintf("Text replaced in %q (%d occurrences).", name, n), nil)
}

func (e *Executor) clearDoc(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.DocParams](req.Intent)
	id, name, res := docTarget(ctx, req, g, p)
	if res != nil {
		return *res
	}
	if err := g.ClearDoc(ctx, id); err != nil {
		return vendorFailed(action, "Failed to clear document.", err)
	}
	return done(action, fmt.Sprintf("Cleared content of %q.", name), nil)
}

// ---- Keep ----

func (e *Executor) fetchNotes(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.NoteParams](req.Intent)
	notes, err := g.ListNotes(ctx, e.limit(p.LimitOr(10)))
	if err != nil {
		return vendorFailed(action, "Failed to fetch notes.", err)
	}
	return done(action, fmt.Sprintf("Found %d notes.", len(notes)), notes)
}

func (e *Executor) createNote(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.NoteParams](req.Intent)
	title, content := p.Title, p.Content
	if title == "" {
		title = "New Note"
	}
	if content == "" {
		content = "No content"
	}
	note, err := g.CreateNote(ctx, title, content)
	if err != nil {
		return vendorFailed(action, "Failed to create note.", err)
	}
	return done(action, fmt.Sprintf("Created note: %q", note.Title), []model.Note{*note})
}

// ---- Classroom ----

func (e *Executor) fetchCourses(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.CourseParams](req.Intent)
	courses, err := g.ListCourses(ctx, e.limit(p.LimitOr(10)), p.Status)
	if err != nil {
		return vendorFailed(action, "Failed to fetch classrooms.", err)
	}
	return done(action, fmt.Sprintf("Found %d classrooms.", len(courses)), courses)
}

func (e *Executor) createCourse(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := *model.ParamsOf[model.CreateCourseParams](req.Intent)
	if p.Name == "" {
		p.Name = p.Title
	}
	if strings.TrimSpace(p.Name) == "" {
		return missing(action, "Please provide a name for the classroom.")
	}
	course, err := g.CreateCourse(ctx, p)
	if err != nil {
		return vendorFailed(action, "Failed to create classroom.", err)
	}
	return done(action, fmt.Sprintf("Created Classroom: %q (Code: %s)", course.Name, course.EnrollmentCode), []model.Course{*course})
}

// courseID 参数中的 courseId 优先，否则按名称在最近的课程中匹配
func courseID(ctx context.Context, g GoogleAPI, p *model.CourseParams) (id string, found bool, err error) {
	if p.CourseID != "" {
		return p.CourseID, true, nil
	}
	if p.CourseName == "" {
		return "", false, nil
	}
	courses, err := g.ListCourses(ctx, 50, "")
	if err != nil {
		return "", false, err
	}
	c, ok := match.Name(courses, p.CourseName, func(c model.Course) string { return c.Name })
	return c.ID, ok, nil
}

func (e *Executor) fetchAssignments(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.CourseParams](req.Intent)
	if p.CourseID == "" && p.CourseName == "" {
		return missing(action, "Please specify which classroom to list assignments from.")
	}
	id, ok, err := courseID(ctx, g, p)
	if err != nil {
		return vendorFailed(action, "Failed to fetch assignments.", err)
	}
	if !ok {
		return notFound(action, fmt.Sprintf("Could not find classroom named %q.", p.CourseName))
	}
	items, err := g.ListAssignments(ctx, id, e.limit(p.LimitOr(10)))
	if err != nil {
		return vendorFailed(action, "Failed to fetch assignments.", err)
	}
	return done(action, fmt.Sprintf("Found %d assignments.", len(items)), items)
}

func (e *Executor) fetchStudents(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.CourseParams](req.Intent)
	if p.CourseID == "" && p.CourseName == "" {
		return missing(action, "Please specify a classroom name.")
	}
	id, ok, err := courseID(ctx, g, p)
	if err != nil {
		return vendorFailed(action, "Failed to fetch students.", err)
	}
	if !ok {
		return notFound(action, fmt.Sprintf("Could not find classroom %q.", p.CourseName))
	}
	students, err := g.ListStudents(ctx, id)
	if err != nil {
		return vendorFailed(action, "Failed to fetch students.", err)
	}
	if p.StudentName != "" {
		q := strings.ToLower(p.StudentName)
		kept := students[:0]
		for _, s := range students {
			if strings.Contains(strings.ToLower(s.FullName), q) {
				kept = append(kept, s)
			}
		}
		students = kept
	}
	return done(action, fmt.Sprintf("Found %d students in the class.", len(students)), students)
}

// ---- YouTube ----

func (e *Executor) searchYouTube(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.YouTubeSearchParams](req.Intent)
	if strings.TrimSpace(p.Query) == "" {
		return missing(action, "What should I search for on YouTube?")
	}
	videos, err := g.SearchVideos(ctx, p.Query, e.limit(p.LimitOr(5)))
	if err != nil {
		return vendorFailed(action, "Failed to search YouTube.", err)
	}
	return done(action, fmt.Sprintf("Found %d videos for %q.", len(videos), p.Query), videos)
}

func (e *Executor) channelStats(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.ChannelStatsParams](req.Intent)
	if p.ChannelName == "" && p.ChannelID == "" {
		return missing(action, "Please provide a channel name or ID.")
	}
	stats, err := g.ChannelStats(ctx, p.ChannelName, p.ChannelID)
	if err != nil {
		return vendorFailed(action, "Failed to fetch channel stats.", err)
	}
	if len(stats) == 0 {
		return notFound(action, "Channel not found.")
	}
	s := stats[0]
	return done(action, fmt.Sprintf("**%s** has %s subscribers and %s videos.", s.Title, s.SubscriberCount, s.VideoCount), stats)
}

// ---- Forms ----

func (e *Executor) createForm(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.FormParams](req.Intent)
	title := p.Title
	if title == "" {
		title = "Untitled Form"
	}
	form, err := g.CreateForm(ctx, title)
	if err != nil {
		return vendorFailed(action, "Failed to create form.", err)
	}
	return done(action, fmt.Sprintf("Created form: %q\nEdit: %s", form.Title, form.FormURI), []model.Form{*form})
}

func (e *Executor) fetchFormResponses(ctx context.Context, req Request, g GoogleAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.FormParams](req.Intent)
	id, title := p.FormID, p.Title
	// 模型常把表单名称填进 formId
	if id != "" && (len(id) < formIDMinLen || strings.Contains(id, " ")) {
		if title == "" {
			title = id
		}
		id = ""
	}
	if id == "" && title == "" {
		return missing(action, "Which form? Please provide its name.")
	}
	formID, name, ok, err := driveFile(ctx, g, id, title, google.MimeForm)
	if err != nil {
		return vendorFailed(action, "Failed to fetch form responses.", err)
	}
	if !ok {
		return notFound(action, fmt.Sprintf("Could not find a form named %q. Try providing the exact name.", title))
	}
	responses, err := g.FormResponses(ctx, formID)
	if err != nil {
		return vendorFailed(action, "Failed to fetch form responses.", err)
	}
	return done(action, fmt.Sprintf("Found %d responses for %q.", len(responses), name), responses)
}
