package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scribe/scribe/internal/domain/encounter"
	"github.com/scribe/scribe/internal/domain/identity"
	"github.com/scribe/scribe/internal/platform/apperror"
)

type seedPatient struct {
	id   string
	name string
	dob  string
	mrn  string
}

var seedPatients = []seedPatient{
	{"patient-001", "John Smith", "1965-03-15", "MRN-12345"},
	{"patient-002", "Jane Doe", "1978-07-22", "MRN-67890"},
	{"patient-003", "Robert Johnson", "1952-11-08", "MRN-11111"},
}

type seedEncounter struct {
	patientID  string
	status     encounter.Status
	transcript string
	note       *[4]string
	codes      []string
}

var seedEncounters = []seedEncounter{
	{
		patientID: "patient-001",
		status:    encounter.StatusSigned,
		transcript: "Doctor: Good morning, Mr. Smith. How are you feeling today?\n" +
			"Patient: Not great, doc. I've had this persistent cough for about two weeks now.\n" +
			"Doctor: Two weeks. Any other symptoms?\n" +
			"Patient: Yeah, I've been really tired and I get short of breath when I climb stairs.\n" +
			"Doctor: Given your history of smoking, I'd like to order a chest X-ray and some blood work.",
		note: &[4]string{
			"Mr. John Smith, 59-year-old male, presents with 2-week history of persistent cough associated with fatigue and exertional dyspnea. Reports night sweats and unintentional weight loss of approximately 5 lbs. No fever. 40 pack-year smoking history, quit 5 years ago.",
			"Vital Signs: BP 128/82, HR 88, RR 18, SpO2 96% RA, Temp 97.8F. General: Alert, cooperative, no acute distress. Respiratory: Lungs clear to auscultation bilaterally, no wheezes or rales.",
			"1. Chronic cough - differential includes post-viral, GERD, tobacco-related lung disease. 2. Unintentional weight loss with night sweats - requires evaluation for underlying etiology.",
			"1. Chest X-ray to rule out infiltrates/masses. 2. CBC, CMP, ESR/CRP. 3. Follow up in 1 week with results. 4. Smoking cessation reinforcement.",
		},
		codes: []string{"R05.3", "R63.4"},
	},
	{
		patientID: "patient-002",
		status:    encounter.StatusReview,
		transcript: "Doctor: Hi Jane, what brings you in today?\n" +
			"Patient: I've been having really bad headaches for the past month.\n" +
			"Doctor: Can you describe the pain? Where is it located?\n" +
			"Patient: Mostly on the right side of my head, around my eye. Light hurts my eyes.\n" +
			"Doctor: Based on your symptoms, this sounds like migraine headaches.",
		note: &[4]string{
			"Ms. Jane Doe presents with a one-month history of recurrent right-sided throbbing headaches with photophobia and nausea, occurring 2-3 times weekly. Positive family history of migraines.",
			"Alert and oriented. Neurological exam grossly intact. No papilledema.",
			"Migraine without aura, episodic.",
			"Start sumatriptan 50mg PRN at headache onset. Headache diary. Follow up in 4 weeks.",
		},
		codes: []string{"G43.009"},
	},
	{
		patientID: "patient-003",
		status:    encounter.StatusProcessing,
		transcript: "Doctor: Mr. Johnson, let's review your blood pressure readings from home.\n" +
			"Patient: Okay. I've been taking them like you said.\n" +
			"Doctor: This morning it was 148/92. It's still above our target of 130/80.\n" +
			"Patient: I've tried the low-sodium diet, but it's hard.\n" +
			"Doctor: I understand. Let's discuss some strategies to reduce sodium intake.",
	},
}

// runSeed loads the demo clinician, patients, and encounters. Identities are
// find-or-create and encounters with an already-seeded id are skipped, so
// reseeding is safe.
func runSeed(ctx context.Context, pool *pgxpool.Pool, clinicianID string) error {
	identities := identity.NewService(identity.NewRepo(pool))
	encounters := encounter.NewRepo(pool)

	clinician, err := identities.EnsureDefaultClinician(ctx, clinicianID)
	if err != nil {
		return fmt.Errorf("seed clinician: %w", err)
	}
	fmt.Printf("Clinician: %s (%s)\n", clinician.Name, clinician.ID)

	for _, sp := range seedPatients {
		dob, err := time.Parse("2006-01-02", sp.dob)
		if err != nil {
			return err
		}
		mrn := sp.mrn
		p, err := identities.EnsurePatient(ctx, &identity.Patient{
			ID: sp.id, Name: sp.name, DOB: &dob, MRN: &mrn,
		})
		if err != nil {
			return fmt.Errorf("seed patient %s: %w", sp.id, err)
		}
		fmt.Printf("Patient: %s (%s)\n", p.Name, p.ID)
	}

	now := time.Now().UTC()
	for i, se := range seedEncounters {
		id := fmt.Sprintf("encounter-%03d", i+1)
		if _, err := encounters.GetByID(ctx, id); err == nil {
			fmt.Printf("Encounter: %s already seeded, skipping\n", id)
			continue
		} else if apperror.KindOf(err) != apperror.KindNotFound {
			return fmt.Errorf("check encounter %s: %w", id, err)
		}

		transcript := se.transcript
		enc := &encounter.Encounter{
			ID:             id,
			PatientID:      se.patientID,
			ClinicianID:    clinicianID,
			Status:         encounter.StatusRecording,
			StartedAt:      now.Add(-time.Duration(i) * 24 * time.Hour),
			Transcript:     &transcript,
			DiagnosisCodes: []string{},
		}
		if err := encounters.Create(ctx, enc); err != nil {
			return fmt.Errorf("seed encounter %s: %w", enc.ID, err)
		}

		enc.Status = se.status
		if se.note != nil {
			enc.NoteSubjective = &se.note[0]
			enc.NoteObjective = &se.note[1]
			enc.NoteAssessment = &se.note[2]
			enc.NotePlan = &se.note[3]
		}
		if se.codes != nil {
			enc.DiagnosisCodes = se.codes
		}
		if se.status == encounter.StatusSigned {
			signedAt := enc.StartedAt.Add(45 * time.Minute)
			enc.SignedAt = &signedAt
		}
		if err := encounters.Update(ctx, enc); err != nil {
			return fmt.Errorf("seed encounter %s: %w", enc.ID, err)
		}
		fmt.Printf("Encounter: %s (%s, %s)\n", enc.ID, se.patientID, enc.Status)
	}

	return nil
}
