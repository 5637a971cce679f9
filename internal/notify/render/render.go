// Package render turns notification data into email subjects and bodies.
package render

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// Day labels used on digest items.
const (
	DayToday    = "today"
	DayTomorrow = "tomorrow"
)

// Email is a rendered notification without envelope addresses.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

type InviteData struct {
	InviteID    string
	TenantID    string
	TenantName  string
	InviterName string
	Role        string
	Email       string
}

type AssignmentData struct {
	TenantID     string
	TenantName   string
	ProjectID    string
	ProjectTitle string
	TaskID       string
	TaskTitle    string
	Description  string
	Priority     string
	DueDate      *time.Time
	AssigneeName string
	AssignerName string
}

type CommentData struct {
	TenantID      string
	TenantName    string
	ProjectID     string
	ProjectTitle  string
	TaskID        string
	TaskTitle     string
	RecipientName string
	AuthorName    string
	Text          string // Mention markup already replaced by labels
	Mentioned     bool
}

type DigestItem struct {
	TaskID       string
	Title        string
	ProjectID    string
	ProjectTitle string
	DueDate      time.Time
	Day          string
}

type DigestData struct {
	TenantID      string
	TenantName    string
	RecipientName string
	Items         []DigestItem
}

type email struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// Renderer holds the parsed templates. It is safe for concurrent use.
type Renderer struct {
	appURL string
	loc    *time.Location

	invite     email
	assignment email
	comment    email
	digest     email
}

// New parses the embedded templates. Links are rooted at appURL and dates are
// printed in loc.
func New(appURL string, loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := &Renderer{appURL: strings.TrimRight(appURL, "/"), loc: loc}

	for name, dst := range map[string]*email{
		"invite":     &r.invite,
		"assignment": &r.assignment,
		"comment":    &r.comment,
		"digest":     &r.digest,
	} {
		e, err := r.parse(name)
		if err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", name, err)
		}
		*dst = e
	}
	return r, nil
}

func (r *Renderer) parse(name string) (email, error) {
	funcs := map[string]any{"date": r.formatDate}

	html, err := htmltemplate.New(name).
		Funcs(funcs).
		ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
	if err != nil {
		return email{}, err
	}

	text, err := texttemplate.New(name + ".txt").
		Funcs(funcs).
		ParseFS(templateFS, "templates/"+name+".txt")
	if err != nil {
		return email{}, err
	}

	return email{html: html, text: text}, nil
}

func (r *Renderer) formatDate(v any) string {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return ""
		}
		t = *d
	default:
		return ""
	}
	return t.In(r.loc).Format("Mon, Jan 2")
}

func (r *Renderer) execute(e email, subject string, data any) (Email, error) {
	var html, text bytes.Buffer
	if err := e.html.ExecuteTemplate(&html, "layout", data); err != nil {
		return Email{}, fmt.Errorf("render html: %w", err)
	}
	if err := e.text.Execute(&text, data); err != nil {
		return Email{}, fmt.Errorf("render text: %w", err)
	}
	return Email{Subject: subject, HTML: html.String(), Text: text.String()}, nil
}

func (r *Renderer) Invite(d InviteData) (Email, error) {
	view := struct {
		InviteData
		AcceptURL string
	}{d, r.link("invites", d.InviteID) + "?tenant=" + url.QueryEscape(d.TenantID)}

	return r.execute(r.invite, fmt.Sprintf("You've been invited to join %s", d.TenantName), view)
}

func (r *Renderer) Assignment(d AssignmentData) (Email, error) {
	view := struct {
		AssignmentData
		TaskURL string
	}{d, r.TaskURL(d.TenantID, d.ProjectID, d.TaskID)}

	return r.execute(r.assignment, fmt.Sprintf("%s assigned you: %s", d.AssignerName, d.TaskTitle), view)
}

func (r *Renderer) Comment(d CommentData) (Email, error) {
	view := struct {
		CommentData
		TaskURL string
	}{d, r.TaskURL(d.TenantID, d.ProjectID, d.TaskID)}

	subject := fmt.Sprintf("New comment on %s", d.TaskTitle)
	if d.Mentioned {
		subject = fmt.Sprintf("%s mentioned you on %s", d.AuthorName, d.TaskTitle)
	}
	return r.execute(r.comment, subject, view)
}

func (r *Renderer) Digest(d DigestData) (Email, error) {
	type item struct {
		DigestItem
		TaskURL string
	}
	items := make([]item, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, item{it, r.TaskURL(d.TenantID, it.ProjectID, it.TaskID)})
	}

	view := struct {
		TenantName    string
		RecipientName string
		Items         []item
		AppURL        string
	}{d.TenantName, d.RecipientName, items, r.appURL}

	noun := "tasks"
	if len(d.Items) == 1 {
		noun = "task"
	}
	subject := fmt.Sprintf("You have %d %s due soon in %s", len(d.Items), noun, d.TenantName)
	return r.execute(r.digest, subject, view)
}

// TaskURL links to a task in the web application.
func (r *Renderer) TaskURL(tenantID, projectID, taskID string) string {
	return r.link("tenants", tenantID, "projects", projectID, "tasks", taskID)
}

func (r *Renderer) link(segments ...string) string {
	var b strings.Builder
	b.WriteString(r.appURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
