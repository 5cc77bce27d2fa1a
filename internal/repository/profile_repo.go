package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

const profileColumns = `id, email, name, role, phone, address, avatar_url, created_at, updated_at`

type postgresProfileRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProfileRepository(db *sql.DB, logger *logrus.Logger) domain.ProfileRepository {
	return &postgresProfileRepository{
		db:  db,
		log: logger,
	}
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.Role,
		&p.Phone,
		&p.Address,
		&p.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProfile inserts the profile or returns the existing row when one
// was created concurrently.
func (r *postgresProfileRepository) CreateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	query := `
        INSERT INTO profiles (id, email, role)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET email = profiles.email
        RETURNING ` + profileColumns

	created, err := scanProfile(r.db.QueryRowContext(ctx, query, profile.ID, profile.Email, profile.Role))
	if err != nil {
		r.log.Errorf("Repository: Failed to create profile %s: %v", profile.ID, err)
		return nil, classify(err, "could not create profile")
	}
	r.log.Infof("Repository: Profile %s ready", created.ID)
	return created, nil
}

func (r *postgresProfileRepository) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("profile %s", id))
	}
	return profile, nil
}

func (r *postgresProfileRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Profile, error) {
	args := []interface{}{}
	setClauses := []string{}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, strings.TrimSpace(*value))
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", update.Name)
	add("phone", update.Phone)
	add("address", update.Address)
	add("avatar_url", update.AvatarURL)

	if len(setClauses) == 0 {
		r.log.Infof("Repository: No fields provided for profile update %s. Returning current profile.", id)
		return r.GetProfileByID(ctx, id)
	}

	args = append(args, id)
	query := "UPDATE profiles SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(", updated_at = NOW() WHERE id = $%d RETURNING ", len(args)) + profileColumns
	r.log.Debugf("Repository: Executing partial update query for profile %s: %s", id, query)

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		r.log.Errorf("Repository: Failed to update profile %s: %v", id, err)
		return nil, classify(err, fmt.Sprintf("profile %s", id))
	}
	return profile, nil
}

func (r *postgresProfileRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Profile, error) {
	query := `UPDATE profiles SET role = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + profileColumns
	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, role, id))
	if err != nil {
		r.log.Errorf("Repository: Failed to set role of profile %s: %v", id, err)
		return nil, classify(err, fmt.Sprintf("profile %s", id))
	}
	r.log.Infof("Repository: Profile %s role set to %s", id, role)
	return profile, nil
}

func (r *postgresProfileRepository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list profiles: %v", err)
		return nil, classify(err, "could not list profiles")
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepository) CountProfiles(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, classify(err, "could not count profiles")
	}
	return n, nil
}
