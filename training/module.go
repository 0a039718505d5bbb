package training

import (
	"context"

	"github.com/warp/hr-records/generic"
)

const (
	DataFile        = "td_data"
	AttendanceFile  = "td_attendance"
	CertificateFile = "td_certificates"
	LogFile         = "td_logs"
)

// TopFeedbackTokens is how many feedback keywords Stats reports.
const TopFeedbackTokens = 10

type Module struct {
	Courses      *generic.Store[Course, *Course]
	Attendance   *generic.LinkStore[Attendance, *Attendance]
	Certificates *generic.LinkStore[Certificate, *Certificate]
	Log          *generic.AuditLog
}

func Open(ctx context.Context, backend generic.Backend, opts ...generic.Option) (*Module, error) {
	log, err := generic.OpenAuditLog(ctx, backend, LogFile, opts...)
	if err != nil {
		return nil, err
	}
	courses, err := generic.Open[Course](ctx, backend, DataFile, log, CourseSchema, opts...)
	if err != nil {
		return nil, err
	}
	att, err := generic.Open[Attendance](ctx, backend, AttendanceFile, log, AttendanceSchema, opts...)
	if err != nil {
		return nil, err
	}
	certs, err := generic.Open[Certificate](ctx, backend, CertificateFile, log, CertificateSchema, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		Courses:      courses,
		Attendance:   generic.Link(att, courses, "course_id", func(a *Attendance) *string { return &a.CourseID }),
		Certificates: generic.Link(certs, courses, "course_id", func(c *Certificate) *string { return &c.CourseID }),
		Log:          log,
	}, nil
}

type Query struct {
	Keyword string
	Year    string
}

func (q Query) Filters() []generic.Filter[Course] {
	return []generic.Filter[Course]{
		generic.Contains(func(c Course) string { return c.Course }, q.Keyword),
		generic.CreatedPrefix[Course](q.Year),
	}
}

type Stats struct {
	Count          int              `json:"count"`
	AvgDuration    *float64         `json:"avg_duration"`
	Sessions       int              `json:"sessions"`
	AttendanceRate *float64         `json:"attendance_rate"`
	Certificates   int              `json:"certificates"`
	TopFeedback    []generic.Bucket `json:"top_feedback_tokens"`
}

func (m *Module) Stats() Stats {
	all := m.Courses.All()
	st := Stats{
		Count:        generic.Count(all),
		Sessions:     m.Attendance.Len(),
		Certificates: m.Certificates.Len(),
		TopFeedback:  generic.TopTokens(all, func(c Course) string { return c.Feedback }, TopFeedbackTokens),
	}
	if avg, ok := generic.Mean(all, func(c Course) float64 { return c.Duration }); ok {
		st.AvgDuration = &avg
	}
	if rate, ok := generic.Ratio(m.Attendance.All(), func(a Attendance) bool { return a.Present }); ok {
		st.AttendanceRate = &rate
	}
	return st
}
