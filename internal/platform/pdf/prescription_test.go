package pdf

import (
	"bytes"
	"testing"
	"time"
)

var testClock = func() time.Time {
	return time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
}

func testRenderer() *Renderer {
	r := NewRenderer()
	r.now = testClock
	// Uncompressed output keeps the content stream greppable.
	r.compress = false
	return r
}

func fullPrescription() Prescription {
	return Prescription{
		PatientName:     "John Doe",
		DoctorName:      "Dr. Sarah Smith",
		AppointmentDate: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		VisitType:       "First Visit",
		Diagnosis:       "Seasonal allergic rhinitis",
		Notes:           "Follow up in two weeks",
		Lines: []Line{
			{
				MedicineName: "Paracetamol",
				Dosage:       "500mg twice daily",
				StartDate:    time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
				EndDate:      time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC),
				Notes:        "After meals",
			},
			{
				MedicineName: "Ibuprofen",
				Dosage:       "400mg as needed",
				StartDate:    time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
				EndDate:      time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := NewRenderer()
	r.now = testClock

	p := fullPrescription()
	first, err := r.Render(p)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	second, err := r.Render(p)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("expected identical bytes for identical input under a fixed clock")
	}
	if len(first) == 0 {
		t.Error("expected non-empty PDF output")
	}
}

func TestRender_AllSectionsPresent(t *testing.T) {
	out, err := testRenderer().Render(fullPrescription())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for _, want := range []string{
		"Prescription Report",
		"Patient Information",
		"Doctor Information",
		"John Doe",
		"Dr. Sarah Smith",
		"Diagnosis",
		"Seasonal allergic rhinitis",
		"Notes",
		"Prescriptions",
		"Paracetamol",
		"Ibuprofen",
		"Generated on 14-Mar-2025 10:30",
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("expected PDF to contain %q", want)
		}
	}
}

func TestRender_OmitsEmptySections(t *testing.T) {
	p := fullPrescription()
	p.Diagnosis = ""
	p.Notes = ""
	p.Lines = nil

	out, err := testRenderer().Render(p)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for _, absent := range []string{"Diagnosis", "Notes", "Prescriptions"} {
		if bytes.Contains(out, []byte(absent)) {
			t.Errorf("expected PDF to omit %q section", absent)
		}
	}

	// The fixed blocks stay regardless.
	for _, want := range []string{"Prescription Report", "Patient Information", "Doctor Information"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("expected PDF to contain %q", want)
		}
	}
}

func TestRender_LineNotesFallback(t *testing.T) {
	p := fullPrescription()

	out, err := testRenderer().Render(p)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	// Second line has no notes and renders the "-" placeholder.
	if !bytes.Contains(out, []byte("(-)")) {
		t.Error("expected placeholder dash for empty line notes")
	}
}

func TestFilename(t *testing.T) {
	date := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	got := Filename("John", "Doe", date)
	want := "Prescription_John_Doe_20250310.pdf"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}
