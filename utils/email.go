// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

func smtpConfig() (string, int, string, string) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			smtpPort = port
		}
	}
	return smtpHost, smtpPort, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS")
}

// SendEmail sends a plain HTML email through the configured SMTP relay.
func SendEmail(to, subject, body string) error {
	smtpHost, smtpPort, smtpUser, smtpPass := smtpConfig()
	if smtpHost == "" || smtpUser == "" {
		return fmt.Errorf("SMTP is not configured; set SMTP_HOST and SMTP_USER")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// SendShortlistEmail notifies a candidate that they were shortlisted for a job.
func SendShortlistEmail(to, candidateName, jobTitle string) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Good news! You have been shortlisted for the position of <b>%s</b>. "+
			"The recruiting team will reach out with next steps.</p>",
		candidateName, jobTitle)
	if err := SendEmail(to, "You have been shortlisted", body); err != nil {
		log.Printf("Failed to send shortlist email to %s: %v", to, err)
	}
}

// SendInterviewEmail invites a candidate to interview for a job.
func SendInterviewEmail(to, candidateName, jobTitle string) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your application for <b>%s</b> has moved to the interview stage. "+
			"Please watch your inbox for scheduling details.</p>",
		candidateName, jobTitle)
	if err := SendEmail(to, "Interview invitation", body); err != nil {
		log.Printf("Failed to send interview email to %s: %v", to, err)
	}
}

// SendPayoutEmail notifies a user that their payout request changed status.
func SendPayoutEmail(to string, amount float64, status string) {
	body := fmt.Sprintf(
		"<p>Your payout request of ₹%.2f is now <b>%s</b>.</p>"+
			"<p>You can track it from your earnings dashboard.</p>",
		amount, status)
	if err := SendEmail(to, "Payout update", body); err != nil {
		log.Printf("Failed to send payout email to %s: %v", to, err)
	}
}
