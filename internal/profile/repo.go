package profile

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yaswanth-m/simply-backend/internal/telemetry/tracing"
)

var _ profileRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Get returns the singleton profile, or (nil, nil) when none was
// created yet - a missing profile is not an error.
func (r *Repo) Get(ctx context.Context) (*Profile, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profileRepo.Get")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, avatar_url, cover_url, summary, employment_history, contact_email, socials
			FROM profile WHERE id = $1;`,
		singletonID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, nil
	}

	var profile Profile
	if err := rows.Scan(
		&profile.ID, &profile.Name, &profile.AvatarURL, &profile.CoverURL,
		&profile.Summary, &profile.EmploymentHistory, &profile.ContactEmail,
		&profile.Socials,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert replaces the whole singleton document, creating it if absent.
func (r *Repo) Upsert(ctx context.Context, profile *Profile) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profileRepo.Upsert")
	defer span.End()

	history := profile.EmploymentHistory
	if history == nil {
		history = []Employment{}
	}
	socials := profile.Socials
	if socials == nil {
		socials = map[string]string{}
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO profile (id, name, avatar_url, cover_url, summary, employment_history, contact_email, socials)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				avatar_url = EXCLUDED.avatar_url,
				cover_url = EXCLUDED.cover_url,
				summary = EXCLUDED.summary,
				employment_history = EXCLUDED.employment_history,
				contact_email = EXCLUDED.contact_email,
				socials = EXCLUDED.socials;`,
		singletonID, profile.Name, profile.AvatarURL, profile.CoverURL,
		profile.Summary, history, profile.ContactEmail, socials,
	)
	if err != nil {
		return err
	}

	profile.ID = singletonID
	return nil
}
