// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/config"
	"github.com/javajoker/furniture-backend/internal/models"
)

// OrderNotifier is told about every placed order.
type OrderNotifier interface {
	NotifyOrderPlaced(order *models.Order) error
}

type NotificationService struct {
	config *config.Config
	send   func(to, subject, body string) error
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(config *config.Config) *NotificationService {
	s := &NotificationService{config: config}
	s.send = s.sendEmail
	return s
}

// NotifyOrderPlaced mails the order to the shop and, when an address was
// given, a confirmation to the customer.
func (s *NotificationService) NotifyOrderPlaced(order *models.Order) error {
	data := map[string]interface{}{
		"OrderID":  order.ID,
		"Customer": order.Customer,
		"Items":    order.Items,
		"Subtotal": fmt.Sprintf("%.2f", order.Subtotal),
		"Notes":    order.Notes,
		"ShopName": s.config.Email.FromName,
	}

	if s.config.Email.OrdersEmail != "" {
		if err := s.render("order_placed", data, s.config.Email.OrdersEmail, order.ID); err != nil {
			return err
		}
	}

	if order.Customer != nil && order.Customer.Email != "" {
		if err := s.render("order_confirmation", data, order.Customer.Email, order.ID); err != nil {
			return err
		}
	}

	return nil
}

func (s *NotificationService) render(templateType string, data map[string]interface{}, to, orderID string) error {
	tmpl := s.getEmailTemplate(templateType)
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	subject := fmt.Sprintf("%s %s", tmpl.Subject, orderID)
	if err := s.send(to, subject, body); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateType, err)
	}
	return nil
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email would be sent")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	from := s.config.Email.FromEmail
	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.config.Email.FromName, from, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Funcs(template.FuncMap{"price": formatPrice}).Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"order_placed": {
			Subject: "New order",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New order {{.OrderID}}</h2>
	<p>{{.Customer.Name}}, {{.Customer.Phone}}</p>
	<p>{{.Customer.Address}}</p>
	<table>
	{{range .Items}}
		<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{price .Price}}</td></tr>
	{{end}}
	</table>
	<p>Subtotal: {{.Subtotal}}</p>
	{{if .Notes}}<p>Notes: {{.Notes}}</p>{{end}}
</body>
</html>`,
		},
		"order_confirmation": {
			Subject: "Your order",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you, {{.Customer.Name}}!</h2>
	<p>We received your order {{.OrderID}} and will call you at {{.Customer.Phone}} to confirm delivery.</p>
	<p>Subtotal: {{.Subtotal}}</p>
	<p>Best regards,<br>{{.ShopName}}</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>Order {{.OrderID}}</p>",
	}
}

func formatPrice(price *float64) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *price)
}
