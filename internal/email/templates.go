package email

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Built-in template names.
const (
	TemplateWelcome        = "welcome"
	TemplatePasswordReset  = "password_reset"
	TemplateStaffInvite    = "staff_invite"
	TemplatePaymentReceipt = "payment_receipt"
)

// TemplateManager keeps parsed templates; built-in defaults can be replaced
// by LoadTemplates from a directory.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	for name, tpl := range builtinTemplates {
		// Built-ins are static strings, parse failure is a programming error.
		if err := tm.AddTemplate(name, tpl); err != nil {
			panic(fmt.Sprintf("builtin email template %s: %v", name, err))
		}
	}

	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// LoadTemplates reads *.html files from dirPath, registering each under its
// base name.
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), ".html")
		return tm.AddTemplate(name, string(content))
	})
}

var builtinTemplates = map[string]string{
	TemplateWelcome: `<html><body>
<p>Hello{{if .Name}} {{.Name}}{{end}},</p>
<p>Your account is ready. Sign in to start learning:</p>
<p><a href="{{.LoginURL}}">Sign in</a></p>
</body></html>`,

	TemplatePasswordReset: `<html><body>
<p>Hello{{if .Name}} {{.Name}}{{end}},</p>
<p>We received a request to reset your password. The link below is valid for one hour:</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>If you did not request this, you can safely ignore this email.</p>
</body></html>`,

	TemplateStaffInvite: `<html><body>
<p>Hello {{.Name}},</p>
<p>{{.BusinessName}} has created a staff account for you.</p>
<p>Temporary password: <strong>{{.TempPassword}}</strong></p>
<p>Your account becomes active once your seat is paid. You will be asked to change the password on first login.</p>
<p><a href="{{.LoginURL}}">Sign in</a></p>
</body></html>`,

	TemplatePaymentReceipt: `<html><body>
<p>Hello{{if .Name}} {{.Name}}{{end}},</p>
<p>Thank you for your purchase: {{.Description}}.</p>
<p>Amount: {{.Amount}} {{.Currency}}</p>
</body></html>`,
}
