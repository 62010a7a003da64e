package identity

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

func (r *repoPG) FindOrCreatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, name, dob, mrn)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Name, p.DOB, p.MRN,
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, err, "insert patient %s", p.ID)
	}
	return r.GetPatient(ctx, p.ID)
}

func (r *repoPG) GetPatient(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, dob, mrn, created_at, updated_at
		FROM patient WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.DOB, &p.MRN, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.New(apperror.KindNotFound, "patient %s not found", id)
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, err, "query patient %s", id)
	}
	return &p, nil
}

func (r *repoPG) FindOrCreateClinician(ctx context.Context, c *Clinician) (*Clinician, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clinician (id, name, specialty)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`,
		c.ID, c.Name, c.Specialty,
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, err, "insert clinician %s", c.ID)
	}
	return r.GetClinician(ctx, c.ID)
}

func (r *repoPG) GetClinician(ctx context.Context, id string) (*Clinician, error) {
	var c Clinician
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, created_at, updated_at
		FROM clinician WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Specialty, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.New(apperror.KindNotFound, "clinician %s not found", id)
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, err, "query clinician %s", id)
	}
	return &c, nil
}
