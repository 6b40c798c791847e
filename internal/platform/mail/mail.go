// Package mail dispatches prescription emails. Two senders implement the
// same interface: real SMTP delivery and a file-log mode that records what
// would have been sent. The mode is chosen by explicit configuration, never
// inferred from the environment.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/hms/hms/pkg/apperr"
)

// Message is a fully composed outbound email.
type Message struct {
	ToEmail        string
	ToName         string
	Subject        string
	HTMLBody       string
	AttachmentName string
	Attachment     []byte
}

// Sender delivers composed messages.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// PrescriptionEmail holds everything needed to compose a prescription
// report email.
type PrescriptionEmail struct {
	ToEmail         string
	ToName          string
	PatientName     string
	DoctorName      string
	AppointmentDate time.Time
	PDF             []byte
}

var bodyTmpl = template.Must(template.New("prescription").Parse(`<html>
<body style='font-family: Arial, sans-serif; line-height: 1.6; color: #333;'>
    <div style='max-width: 600px; margin: 0 auto; padding: 20px;'>
        <h2 style='color: #2c5aa0; text-align: center; border-bottom: 2px solid #2c5aa0; padding-bottom: 10px;'>
            Hospital Management System
        </h2>

        <h3 style='color: #333; margin-top: 30px;'>
            Prescription Report
        </h3>

        <div style='background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;'>
            <p><strong>Patient:</strong> {{.PatientName}}</p>
            <p><strong>Doctor:</strong> {{.DoctorName}}</p>
            <p><strong>Appointment Date:</strong> {{.DateLong}}</p>
        </div>

        <p>Dear {{.ToName}},</p>

        <p>Please find attached the prescription report for <strong>{{.PatientName}}</strong> from the appointment on {{.DateShort}}.</p>

        <p>The attached PDF contains detailed information about the prescribed medications, including dosages, frequencies, and special instructions.</p>

        <div style='background-color: #e3f2fd; padding: 15px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #2196f3;'>
            <p style='margin: 0;'><strong>Important:</strong> Please keep this prescription report for your medical records and follow the prescribed medication schedule as directed by your doctor.</p>
        </div>

        <p>If you have any questions about the prescription or need to schedule a follow-up appointment, please contact our office.</p>

        <p style='margin-top: 30px;'>
            Best regards,<br>
            <strong>Hospital Management Team</strong>
        </p>

        <hr style='border: none; border-top: 1px solid #ddd; margin: 30px 0;'>

        <p style='font-size: 12px; color: #666; text-align: center;'>
            This is an automated email from the Hospital Management System. Please do not reply to this email.
        </p>
    </div>
</body>
</html>`))

// NewPrescriptionMessage composes the prescription report email. The
// recipient name defaults to the patient when not supplied.
func NewPrescriptionMessage(p PrescriptionEmail) (*Message, error) {
	toName := p.ToName
	if toName == "" {
		toName = p.PatientName
	}

	data := struct {
		ToName      string
		PatientName string
		DoctorName  string
		DateLong    string
		DateShort   string
	}{
		ToName:      toName,
		PatientName: p.PatientName,
		DoctorName:  p.DoctorName,
		DateLong:    p.AppointmentDate.Format("January 02, 2006 at 3:04 PM"),
		DateShort:   p.AppointmentDate.Format("January 02, 2006"),
	}

	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, data); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "compose prescription email")
	}

	return &Message{
		ToEmail:        p.ToEmail,
		ToName:         toName,
		Subject:        "Prescription Report - " + p.PatientName,
		HTMLBody:       buf.String(),
		AttachmentName: attachmentName(p.PatientName, p.AppointmentDate),
		Attachment:     p.PDF,
	}, nil
}

func attachmentName(patientName string, appointmentDate time.Time) string {
	return fmt.Sprintf("Prescription_%s_%s.pdf",
		strings.ReplaceAll(patientName, " ", "_"),
		appointmentDate.Format("20060102"))
}
