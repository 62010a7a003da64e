package encounter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scribe/scribe/internal/platform/apperror"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const encCols = `id, patient_id, clinician_id, status, started_at, signed_at,
	transcript, note_subjective, note_objective, note_assessment, note_plan,
	diagnosis_codes, fhir_bundle_id, version_id, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, enc *Encounter) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO encounter (
			id, patient_id, clinician_id, status, started_at,
			transcript, diagnosis_codes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		enc.ID, enc.PatientID, enc.ClinicianID, enc.Status, enc.StartedAt,
		enc.Transcript, enc.DiagnosisCodes,
	)
	if err != nil {
		return apperror.Wrap(apperror.KindStorage, err, "insert encounter %s", enc.ID)
	}
	enc.VersionID = 1
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Encounter, error) {
	enc, err := scanEnc(r.pool.QueryRow(ctx, `SELECT `+encCols+` FROM encounter WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.New(apperror.KindNotFound, "encounter %s not found", id)
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, err, "query encounter %s", id)
	}
	return enc, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Encounter, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+encCols+` FROM encounter ORDER BY started_at DESC`)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, err, "list encounters")
	}
	defer rows.Close()

	var encs []*Encounter
	for rows.Next() {
		enc, err := scanEnc(rows)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindStorage, err, "scan encounter")
		}
		encs = append(encs, enc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, err, "list encounters")
	}
	return encs, nil
}

// Update writes enc back with an optimistic version check. A losing racer
// gets an invalid-state error and must re-read before retrying.
func (r *repoPG) Update(ctx context.Context, enc *Encounter) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE encounter SET
			status=$2, signed_at=$3, transcript=$4,
			note_subjective=$5, note_objective=$6, note_assessment=$7, note_plan=$8,
			diagnosis_codes=$9, fhir_bundle_id=$10,
			version_id = version_id + 1, updated_at = NOW()
		WHERE id = $1 AND version_id = $11`,
		enc.ID, enc.Status, enc.SignedAt, enc.Transcript,
		enc.NoteSubjective, enc.NoteObjective, enc.NoteAssessment, enc.NotePlan,
		enc.DiagnosisCodes, enc.FHIRBundleID,
		enc.VersionID,
	)
	if err != nil {
		return apperror.Wrap(apperror.KindStorage, err, "update encounter %s", enc.ID)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, enc.ID); err != nil {
			return err
		}
		return apperror.New(apperror.KindInvalidState, "encounter %s was modified concurrently", enc.ID)
	}
	enc.VersionID++
	return nil
}

func scanEnc(row pgx.Row) (*Encounter, error) {
	var enc Encounter
	err := row.Scan(
		&enc.ID, &enc.PatientID, &enc.ClinicianID, &enc.Status, &enc.StartedAt, &enc.SignedAt,
		&enc.Transcript, &enc.NoteSubjective, &enc.NoteObjective, &enc.NoteAssessment, &enc.NotePlan,
		&enc.DiagnosisCodes, &enc.FHIRBundleID, &enc.VersionID, &enc.CreatedAt, &enc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}
