package email

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/memberhub/memberhub/internal/application/notification"
)

//go:embed templates/*.md
var templateFS embed.FS

const subjectPrefix = "Subject:"

// renderedMessage is a template after execution, still in markdown.
type renderedMessage struct {
	Subject string
	Body    string
}

type templateSet struct {
	templates map[notification.Event]*template.Template
	lang      language.Tag
}

func loadTemplates() (*templateSet, error) {
	set := &templateSet{
		templates: make(map[notification.Event]*template.Template),
		lang:      language.English,
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".md")
		content, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(name).
			Option("missingkey=default").
			Funcs(template.FuncMap{"money": set.money}).
			Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		set.templates[notification.Event(name)] = tmpl
	}
	return set, nil
}

func (s *templateSet) render(event notification.Event, data map[string]any) (*renderedMessage, error) {
	tmpl, ok := s.templates[event]
	if !ok {
		return nil, fmt.Errorf("no email template for event %s", event)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", event, err)
	}

	// first line carries the subject
	scanner := bufio.NewScanner(&buf)
	if !scanner.Scan() || !strings.HasPrefix(scanner.Text(), subjectPrefix) {
		return nil, fmt.Errorf("template %s has no subject line", event)
	}
	subject := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), subjectPrefix))

	var body strings.Builder
	for scanner.Scan() {
		body.WriteString(scanner.Text())
		body.WriteByte('\n')
	}
	return &renderedMessage{Subject: subject, Body: strings.TrimSpace(body.String())}, nil
}

// money formats an amount with thousands separators, e.g. "NGN 5,000.00".
func (s *templateSet) money(amount any, currency any) string {
	var d decimal.Decimal
	switch v := amount.(type) {
	case decimal.Decimal:
		d = v
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return v
		}
		d = parsed
	case float64:
		d = decimal.NewFromFloat(v)
	case int64:
		d = decimal.NewFromInt(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	default:
		return fmt.Sprint(amount)
	}
	formatted := message.NewPrinter(s.lang).Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
	if currency == nil {
		return formatted
	}
	return fmt.Sprintf("%v %s", currency, formatted)
}
