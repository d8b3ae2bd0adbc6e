package google

import (
	"context"
	"fmt"

	"google.golang.org/api/classroom/v1"

	"saas-agent/internal/model"
)

// ListCourses 课程列表，status 为空时不过滤
func (c *Client) ListCourses(ctx context.Context, limit int, status string) ([]model.Course, error) {
	call := c.classroom.Courses.List().PageSize(int64(limit)).Context(ctx)
	if status != "" {
		call = call.CourseStates(status)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("classroom list courses: %w", err)
	}
	out := make([]model.Course, 0, len(res.Courses))
	for _, co := range res.Courses {
		out = append(out, toCourse(co))
	}
	return out, nil
}

// CreateCourse 以当前用户为所有者创建，状态为 PROVISIONED
func (c *Client) CreateCourse(ctx context.Context, p model.CreateCourseParams) (*model.Course, error) {
	co, err := c.classroom.Courses.Create(&classroom.Course{
		Name:               p.Name,
		Section:            p.Section,
		DescriptionHeading: p.Description,
		Room:               p.Room,
		OwnerId:            "me",
		CourseState:        "PROVISIONED",
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("classroom create course: %w", err)
	}
	out := toCourse(co)
	return &out, nil
}

// ListAssignments 已发布作业，按截止日期倒序
func (c *Client) ListAssignments(ctx context.Context, courseID string, limit int) ([]model.Assignment, error) {
	res, err := c.classroom.Courses.CourseWork.List(courseID).
		PageSize(int64(limit)).
		OrderBy("dueDate desc").
		CourseWorkStates("PUBLISHED").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("classroom list coursework: %w", err)
	}
	out := make([]model.Assignment, 0, len(res.CourseWork))
	for _, w := range res.CourseWork {
		title := w.Title
		if title == "" {
			title = "Untitled Assignment"
		}
		a := model.Assignment{
			ID:            w.Id,
			CourseID:      w.CourseId,
			Title:         title,
			Description:   w.Description,
			AlternateLink: w.AlternateLink,
			State:         w.State,
		}
		if w.DueDate != nil {
			a.DueDate = &model.DueDate{Year: int(w.DueDate.Year), Month: int(w.DueDate.Month), Day: int(w.DueDate.Day)}
		}
		if w.DueTime != nil {
			a.DueTime = &model.DueTime{Hours: int(w.DueTime.Hours), Minutes: int(w.DueTime.Minutes)}
		}
		out = append(out, a)
	}
	return out, nil
}

// ListStudents 课程学生（单页最多 30 人）
func (c *Client) ListStudents(ctx context.Context, courseID string) ([]model.Student, error) {
	res, err := c.classroom.Courses.Students.List(courseID).PageSize(30).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("classroom list students: %w", err)
	}
	out := make([]model.Student, 0, len(res.Students))
	for _, s := range res.Students {
		st := model.Student{CourseID: s.CourseId, UserID: s.UserId, FullName: "Unknown"}
		if s.Profile != nil {
			st.Email = s.Profile.EmailAddress
			if s.Profile.Name != nil && s.Profile.Name.FullName != "" {
				st.FullName = s.Profile.Name.FullName
			}
		}
		out = append(out, st)
	}
	return out, nil
}

func toCourse(co *classroom.Course) model.Course {
	name := co.Name
	if name == "" {
		name = "Untitled Course"
	}
	return model.Course{
		ID:                 co.Id,
		Name:               name,
		Section:            co.Section,
		DescriptionHeading: co.DescriptionHeading,
		Room:               co.Room,
		EnrollmentCode:     co.EnrollmentCode,
		AlternateLink:      co.AlternateLink,
		CourseState:        co.CourseState,
	}
}
