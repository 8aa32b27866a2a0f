package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrBreathe/mrbreathe/connections"
)

// Postgres is the PostgreSQL store for user/profile pairs. The profile shares
// the user's ID (one row each in users and profiles), and every mutating
// operation runs both writes inside a single transaction.
type Postgres struct{}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create inserts the user and its profile as one atomic unit. A duplicate
// email is reported as ErrEmailExists by the unique constraint on users.email.
func (p *Postgres) Create(ctx context.Context, u *User) error {
	pool := connections.Postgres()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
	`, u.ID, u.Email, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (id, first_name, last_name, age, sex, gender_identity, height_in, weight_lbs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.Profile.ID, u.Profile.FirstName, u.Profile.LastName, u.Profile.Age,
		u.Profile.Sex, u.Profile.GenderIdentity, u.Profile.HeightIn, u.Profile.WeightLbs)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindByEmail loads the user with its profile in one query so readers always
// see a consistent pair.
func (p *Postgres) FindByEmail(ctx context.Context, email string) (*User, error) {
	pool := connections.Postgres()

	var u User
	err := pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.password_hash,
		       p.first_name, p.last_name, p.age, p.sex, p.gender_identity, p.height_in, p.weight_lbs
		FROM users u
		JOIN profiles p ON p.id = u.id
		WHERE u.email = $1
	`, email).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Profile.FirstName,
		&u.Profile.LastName,
		&u.Profile.Age,
		&u.Profile.Sex,
		&u.Profile.GenderIdentity,
		&u.Profile.HeightIn,
		&u.Profile.WeightLbs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Profile.ID = u.ID

	return &u, nil
}

// UpdateProfile locks the profile row, applies the patch, and writes the
// result back, all in one transaction.
func (p *Postgres) UpdateProfile(ctx context.Context, email string, apply func(*Profile) error) error {
	pool := connections.Postgres()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var prof Profile
	err = tx.QueryRow(ctx, `
		SELECT p.id, p.first_name, p.last_name, p.age, p.sex, p.gender_identity, p.height_in, p.weight_lbs
		FROM profiles p
		JOIN users u ON u.id = p.id
		WHERE u.email = $1
		FOR UPDATE OF p
	`, email).Scan(
		&prof.ID,
		&prof.FirstName,
		&prof.LastName,
		&prof.Age,
		&prof.Sex,
		&prof.GenderIdentity,
		&prof.HeightIn,
		&prof.WeightLbs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if err := apply(&prof); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE profiles
		SET first_name = $1, last_name = $2, age = $3, sex = $4,
		    gender_identity = $5, height_in = $6, weight_lbs = $7
		WHERE id = $8
	`, prof.FirstName, prof.LastName, prof.Age, prof.Sex,
		prof.GenderIdentity, prof.HeightIn, prof.WeightLbs, prof.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the profile and the user together. The cascade is done here,
// not by the schema, so the pairing invariant lives in one place.
func (p *Postgres) Delete(ctx context.Context, email string) error {
	pool := connections.Postgres()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM profiles
		WHERE id = (SELECT id FROM users WHERE email = $1)
	`, email)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM users
		WHERE email = $1
	`, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return tx.Commit(ctx)
}
