package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"

	"github.com/planejatrip/planejatrip-backend/config"
	"github.com/planejatrip/planejatrip-backend/logger"
	"github.com/planejatrip/planejatrip-backend/types"
)

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService delivers invitation notifications through Resend.
type EmailService struct {
	config  *config.EmailConfig
	client  *resend.Client
	metrics *EmailMetrics
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service", "from", cfg.FromAddress)
	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planejatrip_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planejatrip_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planejatrip_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		client:  client,
		metrics: metrics,
	}
}

func (s *EmailService) SendInviteEmail(ctx context.Context, data types.EmailData) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	requiredFields := []string{"GuestEmail", "TripName", "HostName"}
	for _, field := range requiredFields {
		if _, ok := data.TemplateData[field]; !ok {
			s.metrics.errorCount.Inc()
			err := fmt.Errorf("missing required template field: %s", field)
			log.Errorw("Invalid template data", "error", err)
			return err
		}
	}

	tmpl, err := template.New("invite").Parse(inviteEmailTemplate)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to parse email template", "error", err)
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var htmlContent bytes.Buffer
	if err := tmpl.Execute(&htmlContent, data.TemplateData); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to execute email template", "error", err)
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{data.To},
		Subject: data.Subject,
		Html:    htmlContent.String(),
	}

	_, err = s.client.Emails.Send(params)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"to", logger.MaskEmail(data.To),
			"subject", data.Subject)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Email sent successfully",
		"to", logger.MaskEmail(data.To),
		"subject", data.Subject)
	return nil
}

const inviteEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Convite de viagem</title>
    <style>
        body {
            font-family: 'sans-serif';
            background-color: #f7f7f7;
            color: #333333;
            margin: 0;
            padding: 20px;
            text-align: center;
        }
        .container {
            max-width: 600px;
            margin: 20px auto;
            background-color: #ffffff;
            padding: 30px;
            border-radius: 12px;
            box-shadow: 0 4px 8px rgba(0, 0, 0, 0.05);
        }
        h1 {
            color: #1A73E8;
            font-size: 28px;
            margin-bottom: 20px;
        }
        p {
            font-size: 16px;
            line-height: 1.6;
            margin-bottom: 25px;
        }
        .badge {
            display: inline-block;
            padding: 6px 14px;
            font-size: 14px;
            font-weight: bold;
            background-color: #E8F0FE;
            color: #1A73E8;
            border-radius: 8px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Você foi convidado para uma viagem!</h1>
        <p>Olá, {{.GuestEmail}}!</p>
        <p>{{.HostName}} convidou você para participar da viagem "{{.TripName}}".</p>
        <p><span class="badge">Permissão: {{.Permission}}</span></p>
        <p>Abra o aplicativo para aceitar ou recusar o convite.</p>
    </div>
</body>
</html>`
