package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"dog-walk-service/internal/domain/dogs"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dogs (id, owner_id, name, size, image_url, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		d.ID,
		d.OwnerID,
		d.Name,
		string(d.Size),
		d.ImageURL,
		d.CreatedAt,
	)
	return err
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, dogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, size, image_url, created_at
		FROM dogs
		WHERE id = $1
	`, id)

	var d dogs.Dog
	if err := row.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Size, &d.ImageURL, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dogs.Dog{}, dogs.ErrNotFound
		}
		return dogs.Dog{}, err
	}
	return d, nil
}

func (r *DogsRepo) ListByOwner(ctx context.Context, ownerID string) ([]dogs.Dog, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, size, image_url, created_at
		FROM dogs
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		var d dogs.Dog
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Size, &d.ImageURL, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete borra en cascada paseos, postulaciones, ratings y eventos (FK).
func (r *DogsRepo) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM dogs
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	return expectOne(res, dogs.ErrNotFound)
}
