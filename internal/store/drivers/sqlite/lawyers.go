package sqlite

import (
	"context"

	"github.com/lawhelp/lawhelp/internal/domain"
)

type lawyersRepo struct {
	db dbtx
}

func (r *lawyersRepo) UpsertProfile(ctx context.Context, p domain.LawyerProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lawyer_profiles (user_id, name, specialty, location, years_experience, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			specialty = excluded.specialty,
			location = excluded.location,
			years_experience = excluded.years_experience,
			rating = excluded.rating,
			updated_at = excluded.updated_at`,
		p.UserID, p.Name, p.Specialty, p.Location, p.YearsExperience, p.Rating,
		p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *lawyersRepo) GetProfile(ctx context.Context, userID string) (domain.LawyerProfile, error) {
	var p domain.LawyerProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, name, specialty, location, years_experience, rating, created_at, updated_at
		FROM lawyer_profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.Name, &p.Specialty, &p.Location, &p.YearsExperience,
			&p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.LawyerProfile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *lawyersRepo) ListProfiles(ctx context.Context, f domain.LawyerFilter) ([]domain.LawyerProfile, error) {
	query := `
		SELECT user_id, name, specialty, location, years_experience, rating, created_at, updated_at
		FROM lawyer_profiles WHERE 1=1`
	args := []any{}
	if f.Specialty != "" {
		query += ` AND specialty = ?`
		args = append(args, f.Specialty)
	}
	if f.Location != "" {
		query += ` AND location = ?`
		args = append(args, f.Location)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.LawyerProfile{}
	for rows.Next() {
		var p domain.LawyerProfile
		if err := rows.Scan(&p.UserID, &p.Name, &p.Specialty, &p.Location,
			&p.YearsExperience, &p.Rating, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
