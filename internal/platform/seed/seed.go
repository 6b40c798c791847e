// Package seed loads demo data for local development. Each table is seeded
// only when it is empty, so running the seeder twice is harmless.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type patientRow struct {
	firstName, lastName, email, phone string
	dateOfBirth                       time.Time
	gender, address                   string
}

type doctorRow struct {
	firstName, lastName, email, phone             string
	specialization, licenseNumber, qualifications string
	experienceYears                               int
}

type medicineRow struct {
	name, genericName, manufacturer, description string
	category, strength, form, price              string
}

var patients = []patientRow{
	{"John", "Doe", "john.doe@email.com", "+1234567890", time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC), "Male", "123 Main St, New York, NY"},
	{"Jane", "Smith", "jane.smith@email.com", "+1234567891", time.Date(1985, 3, 22, 0, 0, 0, 0, time.UTC), "Female", "456 Oak Ave, Los Angeles, CA"},
	{"Robert", "Johnson", "robert.johnson@email.com", "+1234567892", time.Date(1978, 11, 8, 0, 0, 0, 0, time.UTC), "Male", "789 Pine Rd, Chicago, IL"},
	{"Emily", "Davis", "emily.davis@email.com", "+1234567893", time.Date(1992, 7, 30, 0, 0, 0, 0, time.UTC), "Female", "321 Elm St, Houston, TX"},
	{"Michael", "Wilson", "michael.wilson@email.com", "+1234567894", time.Date(1975, 12, 3, 0, 0, 0, 0, time.UTC), "Male", "654 Maple Dr, Phoenix, AZ"},
}

var doctors = []doctorRow{
	{"Dr. Sarah", "Smith", "dr.sarah.smith@hospital.com", "+1234567800", "Cardiology", "MD001", "MD, FACC", 15},
	{"Dr. James", "Brown", "dr.james.brown@hospital.com", "+1234567801", "Internal Medicine", "MD002", "MD, FACP", 12},
	{"Dr. Lisa", "Anderson", "dr.lisa.anderson@hospital.com", "+1234567802", "Pediatrics", "MD003", "MD, FAAP", 10},
	{"Dr. David", "Miller", "dr.david.miller@hospital.com", "+1234567803", "Orthopedics", "MD004", "MD, FAAOS", 18},
	{"Dr. Maria", "Garcia", "dr.maria.garcia@hospital.com", "+1234567804", "Neurology", "MD005", "MD, FAAN", 14},
}

var medicines = []medicineRow{
	{"Paracetamol", "Acetaminophen", "PharmaCorp", "Pain reliever and fever reducer", "Analgesic", "500mg", "Tablet", "5.99"},
	{"Metformin", "Metformin HCl", "DiabetesCare", "Diabetes medication", "Antidiabetic", "500mg", "Tablet", "12.50"},
	{"Amoxicillin", "Amoxicillin Trihydrate", "AntibioTech", "Antibiotic for bacterial infections", "Antibiotic", "250mg", "Capsule", "18.75"},
	{"Lisinopril", "Lisinopril", "CardioMed", "ACE inhibitor for high blood pressure", "Antihypertensive", "10mg", "Tablet", "8.25"},
	{"Ibuprofen", "Ibuprofen", "PainRelief Inc", "Non-steroidal anti-inflammatory drug", "NSAID", "400mg", "Tablet", "7.50"},
	{"Omeprazole", "Omeprazole", "GastroPharm", "Proton pump inhibitor for acid reflux", "PPI", "20mg", "Capsule", "15.00"},
	{"Atorvastatin", "Atorvastatin Calcium", "CholesterolCare", "Statin for cholesterol management", "Statin", "20mg", "Tablet", "22.00"},
	{"Levothyroxine", "Levothyroxine Sodium", "ThyroidMed", "Thyroid hormone replacement", "Hormone", "50mcg", "Tablet", "10.75"},
}

// Run seeds demo patients, doctors, and medicines into empty tables.
func Run(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	seeded, err := seedPatients(ctx, pool)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info().Int("count", len(patients)).Msg("seeded patients")
	}

	seeded, err = seedDoctors(ctx, pool)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info().Int("count", len(doctors)).Msg("seeded doctors")
	}

	seeded, err = seedMedicines(ctx, pool)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info().Int("count", len(medicines)).Msg("seeded medicines")
	}

	return nil
}

func tableEmpty(ctx context.Context, pool *pgxpool.Pool, table string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s)", table)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", table, err)
	}
	return !exists, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	empty, err := tableEmpty(ctx, pool, "patients")
	if err != nil || !empty {
		return false, err
	}
	for _, p := range patients {
		_, err := pool.Exec(ctx, `
			INSERT INTO patients (first_name, last_name, email, phone, date_of_birth, gender, address)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.firstName, p.lastName, p.email, p.phone, p.dateOfBirth, p.gender, p.address)
		if err != nil {
			return false, fmt.Errorf("seed patient %s %s: %w", p.firstName, p.lastName, err)
		}
	}
	return true, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	empty, err := tableEmpty(ctx, pool, "doctors")
	if err != nil || !empty {
		return false, err
	}
	for _, d := range doctors {
		_, err := pool.Exec(ctx, `
			INSERT INTO doctors (first_name, last_name, email, phone, specialization, license_number, qualifications, experience_years)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			d.firstName, d.lastName, d.email, d.phone, d.specialization,
			d.licenseNumber, d.qualifications, d.experienceYears)
		if err != nil {
			return false, fmt.Errorf("seed doctor %s %s: %w", d.firstName, d.lastName, err)
		}
	}
	return true, nil
}

func seedMedicines(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	empty, err := tableEmpty(ctx, pool, "medicines")
	if err != nil || !empty {
		return false, err
	}
	for _, m := range medicines {
		_, err := pool.Exec(ctx, `
			INSERT INTO medicines (name, generic_name, manufacturer, description, category, strength, form, price, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, TRUE)`,
			m.name, m.genericName, m.manufacturer, m.description,
			m.category, m.strength, m.form, m.price)
		if err != nil {
			return false, fmt.Errorf("seed medicine %s: %w", m.name, err)
		}
	}
	return true, nil
}
