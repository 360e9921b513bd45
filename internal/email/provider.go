package email

// Provider sends outgoing mail.
type Provider interface {
	// Send sends a fully built message.
	Send(email *Email) error

	// SendTemplate renders templateName with data and sends the result.
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	// Validate checks the provider configuration.
	Validate() error

	// Close releases provider resources.
	Close() error
}

// NoopProvider drops all outgoing mail. Used when SMTP is not configured,
// typically in local development.
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider { return &NoopProvider{} }

func (p *NoopProvider) Send(email *Email) error { return nil }
func (p *NoopProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	return nil
}
func (p *NoopProvider) Validate() error { return nil }
func (p *NoopProvider) Close() error    { return nil }

// TemplateRenderer renders named email templates.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}
