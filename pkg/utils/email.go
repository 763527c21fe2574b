package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "Twende Limited"
)

func sendEmail(to, subject, body string) error {
	if smtpHost == "" || emailFrom == "" {
		return fmt.Errorf("SMTP not configured")
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		companyName, emailFrom, to, subject, body)

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	return smtp.SendMail(addr, auth, emailFrom, []string{to}, []byte(msg))
}

// SendLoginOTP emails the second-factor code issued at login.
func SendLoginOTP(email, otp string) error {
	subject := "Your OTP for Login"
	body := fmt.Sprintf("Your OTP is: %s. It is valid for 10 minutes.", otp)
	return sendEmail(email, subject, body)
}
