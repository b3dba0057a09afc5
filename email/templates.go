package email

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaytaylor/html2text"
	"github.com/vanng822/go-premailer/premailer"
)

// Mailer sends a single email message.
type Mailer interface {
	Send(m Message) error
}

// Email is an address with an optional display name.
type Email struct {
	Name    string
	Address string
}

// NewEmail creates an Email with the given display name and address.
func NewEmail(name, address string) Email {
	return Email{Name: name, Address: address}
}

// Message is an email to be rendered from a template and sent.
type Message struct {
	From     Email
	To       Email
	Subject  string
	Template string
	Content  any

	html string
	text string
}

var templates *template.Template

var fMap = template.FuncMap{
	"formatAsDate":     formatAsDate,
	"formatAsDuration": formatAsDuration,
}

func formatAsDate(t time.Time) string {
	return fmt.Sprintf("%d.%d.%d", t.Day(), int(t.Month()), t.Year())
}

func formatAsDuration(t time.Time) string {
	d := time.Until(t)
	hours := int(d.Hours())
	minutes := int(d.Minutes())
	if hours > 0 {
		return fmt.Sprintf("%d hours and %d minutes", hours, minutes)
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// parseTemplates (re)loads every .html file under ./templates into the
// shared template set. Absence of the directory is not an error: servers
// without bundled templates fall back to MockMailer-only operation.
func parseTemplates() error {
	root := "templates"
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		templates = template.New("templates").Funcs(fMap)
		return nil
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk email templates: %w", err)
	}
	if len(files) == 0 {
		templates = template.New("templates").Funcs(fMap)
		return nil
	}

	t, err := template.New("templates").Funcs(fMap).ParseFiles(files...)
	if err != nil {
		return fmt.Errorf("parse email templates: %w", err)
	}
	templates = t
	return nil
}

// parse renders m.Template against m.Content into m.html and m.text.
// Styles are inlined with premailer for email-client compatibility and the
// plain-text alternative is derived from the inlined HTML.
func (m *Message) parse() error {
	if templates == nil {
		return fmt.Errorf("email templates not initialized")
	}

	var buf bytes.Buffer
	name := filepath.Base(m.Template)
	if err := templates.ExecuteTemplate(&buf, name, m.Content); err != nil {
		return fmt.Errorf("render email template %s: %w", m.Template, err)
	}

	pm, err := premailer.NewPremailerFromString(buf.String(), premailer.NewOptions())
	if err != nil {
		return fmt.Errorf("inline email styles: %w", err)
	}
	htmlBody, err := pm.Transform()
	if err != nil {
		return fmt.Errorf("inline email styles: %w", err)
	}

	text, err := html2text.FromString(htmlBody, html2text.Options{PrettyTables: false})
	if err != nil {
		return fmt.Errorf("render email text body: %w", err)
	}

	m.html = htmlBody
	m.text = text
	return nil
}
