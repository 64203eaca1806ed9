package repository

import (
	"context"

	"github.com/todor147/EduCoachBack/internal/models"
)

type CoachProfileRepository struct {
	db DBTX
}

func NewCoachProfileRepository(db DBTX) *CoachProfileRepository {
	return &CoachProfileRepository{db: db}
}

func (r *CoachProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO coach_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *CoachProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error) {
	query := `
		SELECT cp.id, cp.user_id, cp.full_name, cp.bio, cp.hourly_rate, cp.rating,
			   (SELECT COUNT(*) FROM reviews WHERE coach_id = cp.user_id AND status = 'approved'),
			   cp.created_at, cp.updated_at
		FROM coach_profiles cp
		WHERE cp.user_id = $1
	`
	var profile models.CoachProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Bio,
		&profile.HourlyRate,
		&profile.Rating,
		&profile.ReviewCount,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CoachProfileRepository) ListAll(ctx context.Context) ([]models.CoachProfile, error) {
	query := `
		SELECT cp.id, cp.user_id, cp.full_name, cp.bio, cp.hourly_rate, cp.rating,
			   (SELECT COUNT(*) FROM reviews WHERE coach_id = cp.user_id AND status = 'approved'),
			   cp.created_at, cp.updated_at
		FROM coach_profiles cp
		ORDER BY cp.rating DESC NULLS LAST, cp.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.CoachProfile, 0)
	for rows.Next() {
		var profile models.CoachProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.FullName,
			&profile.Bio,
			&profile.HourlyRate,
			&profile.Rating,
			&profile.ReviewCount,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *CoachProfileRepository) UpdateProfile(
	ctx context.Context,
	userID int64,
	fullName *string,
	bio *string,
	hourlyRate *float64,
) (*models.CoachProfile, error) {
	query := `
		UPDATE coach_profiles
		SET full_name = COALESCE($2, full_name),
			bio = COALESCE($3, bio),
			hourly_rate = COALESCE($4, hourly_rate),
			updated_at = NOW()
		WHERE user_id = $1
	`
	if _, err := r.db.Exec(ctx, query, userID, fullName, bio, hourlyRate); err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

// RecomputeRating refreshes the coach aggregate as the arithmetic mean of
// all non-rejected reviews. Pending reviews count toward the average; a
// coach with no countable reviews goes back to NULL.
func (r *CoachProfileRepository) RecomputeRating(ctx context.Context, coachID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE coach_profiles
		SET rating = (
			SELECT AVG(rating)::float8
			FROM reviews
			WHERE coach_id = $1 AND status <> 'rejected'
		),
		updated_at = NOW()
		WHERE user_id = $1
	`, coachID)
	return err
}
