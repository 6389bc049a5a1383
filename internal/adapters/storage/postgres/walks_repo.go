package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"dog-walk-service/internal/domain/walks"
)

type WalksRepo struct {
	db *sql.DB
}

func NewWalksRepo(db *sql.DB) *WalksRepo {
	return &WalksRepo{db: db}
}

// WithinTx abre una transacción READ COMMITTED; los Lock* del Tx usan
// SELECT ... FOR UPDATE. Cualquier error de fn hace rollback.
func (r *WalksRepo) WithinTx(ctx context.Context, fn func(tx walks.Tx) error) (err error) {
	sqlTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&walksTx{q: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectRequest = `
	SELECT wr.id, wr.dog_id, d.owner_id, wr.requested_at, wr.duration_minutes,
	       wr.location, wr.status, wr.created_at, wr.updated_at
	FROM walk_requests wr
	JOIN dogs d ON d.id = wr.dog_id
	WHERE wr.id = $1`

const selectApplications = `
	SELECT id, request_id, walker_id, status, created_at, updated_at
	FROM walk_applications
	WHERE request_id = $1
	ORDER BY created_at ASC, id ASC`

func (r *WalksRepo) GetRequest(ctx context.Context, id string) (walks.WalkRequest, error) {
	return getRequest(ctx, r.db, id, "")
}

func (r *WalksRepo) ListApplications(ctx context.Context, requestID string) ([]walks.WalkApplication, error) {
	return listApplications(ctx, r.db, requestID, "")
}

func (r *WalksRepo) ListByOwner(ctx context.Context, ownerID string) ([]walks.OwnerRequestView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT wr.id, wr.dog_id, d.owner_id, wr.requested_at, wr.duration_minutes,
		       wr.location, wr.status, wr.created_at, wr.updated_at,
		       d.name, d.image_url, (rt.id IS NOT NULL) AS rated,
		       wa.id, wa.walker_id, COALESCE(u.username, ''), wa.status
		FROM walk_requests wr
		JOIN dogs d ON d.id = wr.dog_id
		LEFT JOIN walk_ratings rt ON rt.request_id = wr.id
		LEFT JOIN walk_applications wa ON wa.request_id = wr.id
		LEFT JOIN users u ON u.id = wa.walker_id
		WHERE d.owner_id = $1
		ORDER BY wr.requested_at DESC, wr.id DESC, wa.created_at ASC, wa.id ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]walks.OwnerRequestView, 0)
	for rows.Next() {
		var (
			req      walks.WalkRequest
			dogName  string
			dogImage string
			rated    bool
			appID    sql.NullString
			walkerID sql.NullString
			username string
			status   sql.NullString
		)
		if err := rows.Scan(
			&req.ID, &req.DogID, &req.OwnerID, &req.RequestedAt, &req.DurationMinutes,
			&req.Location, &req.Status, &req.CreatedAt, &req.UpdatedAt,
			&dogName, &dogImage, &rated,
			&appID, &walkerID, &username, &status,
		); err != nil {
			return nil, err
		}

		// Filas agrupadas por request gracias al ORDER BY.
		if len(out) == 0 || out[len(out)-1].Request.ID != req.ID {
			out = append(out, walks.OwnerRequestView{
				Request:     req,
				DogName:     dogName,
				DogImageURL: dogImage,
				Applicants:  make([]walks.Applicant, 0),
				Rated:       rated,
			})
		}
		if !appID.Valid {
			continue
		}

		v := &out[len(out)-1]
		a := walks.Applicant{
			ApplicationID: appID.String,
			WalkerID:      walkerID.String,
			Username:      username,
			Status:        walks.ApplicationStatus(status.String),
		}
		v.Applicants = append(v.Applicants, a)
		if req.Status == walks.RequestCompleted && a.Status == walks.ApplicationCompleted {
			v.CompletedWalkerID = a.WalkerID
		}
	}
	return out, rows.Err()
}

// ListAvailable ejecuta la query recién al iterar y escanea fila a fila.
func (r *WalksRepo) ListAvailable(ctx context.Context, walkerID string) iter.Seq2[walks.AvailableRequest, error] {
	return func(yield func(walks.AvailableRequest, error) bool) {
		rows, err := r.db.QueryContext(ctx, `
			SELECT wr.id, d.name, wr.requested_at, wr.duration_minutes, wr.location,
			       wr.status, wa.status
			FROM walk_requests wr
			JOIN dogs d ON d.id = wr.dog_id
			LEFT JOIN walk_applications wa
			       ON wa.request_id = wr.id AND wa.walker_id = $1
			WHERE wr.status IN ('open', 'accepted', 'completed')
			ORDER BY wr.requested_at DESC, wr.id DESC
		`, walkerID)
		if err != nil {
			yield(walks.AvailableRequest{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				item      walks.AvailableRequest
				appStatus sql.NullString
			)
			if err := rows.Scan(
				&item.RequestID, &item.DogName, &item.RequestedAt, &item.DurationMinutes,
				&item.Location, &item.WalkStatus, &appStatus,
			); err != nil {
				yield(walks.AvailableRequest{}, err)
				return
			}
			item.ApplicationStatus = walks.ApplicationStatus(appStatus.String)
			if !yield(item, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(walks.AvailableRequest{}, err)
		}
	}
}

func (r *WalksRepo) CountApplications(ctx context.Context, walkerID string, st walks.ApplicationStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM walk_applications
		WHERE walker_id = $1 AND status = $2
	`, walkerID, string(st)).Scan(&n)
	return n, err
}

func (r *WalksRepo) ListEvents(ctx context.Context, requestID string) ([]walks.WalkEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, request_id, type, actor_id, application_id, occurred_at
		FROM walk_events
		WHERE request_id = $1
		ORDER BY seq ASC
	`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]walks.WalkEvent, 0)
	for rows.Next() {
		var (
			e     walks.WalkEvent
			appID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Type, &e.ActorID, &appID, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.ApplicationID = appID.String
		out = append(out, e)
	}
	return out, rows.Err()
}

type walksTx struct {
	q queryer
}

func (t *walksTx) InsertRequest(ctx context.Context, req walks.WalkRequest) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO walk_requests (
			id, dog_id, requested_at, duration_minutes, location, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		req.ID,
		req.DogID,
		req.RequestedAt,
		req.DurationMinutes,
		req.Location,
		string(req.Status),
		req.CreatedAt,
		req.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return walks.ErrDuplicate
	}
	return err
}

func (t *walksTx) LockRequest(ctx context.Context, id string) (walks.WalkRequest, error) {
	return getRequest(ctx, t.q, id, " FOR UPDATE OF wr")
}

func (t *walksTx) LockApplications(ctx context.Context, requestID string) ([]walks.WalkApplication, error) {
	return listApplications(ctx, t.q, requestID, " FOR UPDATE")
}

func (t *walksTx) InsertApplication(ctx context.Context, a walks.WalkApplication) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO walk_applications (id, request_id, walker_id, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		a.ID,
		a.RequestID,
		a.WalkerID,
		string(a.Status),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return walks.ErrDuplicate
	}
	return err
}

func (t *walksTx) UpdateApplicationStatus(ctx context.Context, id string, st walks.ApplicationStatus, at time.Time) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE walk_applications
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(st), at)
	if err != nil {
		if isUniqueViolation(err) {
			return walks.ErrDuplicate
		}
		return err
	}
	return expectOne(res, walks.ErrNotFound)
}

func (t *walksTx) RejectOtherApplications(ctx context.Context, requestID, acceptedID string, at time.Time) error {
	_, err := t.q.ExecContext(ctx, `
		UPDATE walk_applications
		SET status = 'rejected', updated_at = $3
		WHERE request_id = $1 AND id <> $2 AND status <> 'rejected'
	`, requestID, acceptedID, at)
	return err
}

func (t *walksTx) UpdateRequestStatus(ctx context.Context, id string, st walks.RequestStatus, at time.Time) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE walk_requests
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(st), at)
	if err != nil {
		return err
	}
	return expectOne(res, walks.ErrNotFound)
}

func (t *walksTx) InsertRating(ctx context.Context, rt walks.WalkRating) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO walk_ratings (id, request_id, walker_id, owner_id, rating, comments, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		rt.ID,
		rt.RequestID,
		rt.WalkerID,
		rt.OwnerID,
		rt.Rating,
		rt.Comments,
		rt.CreatedAt,
	)
	if isUniqueViolation(err) {
		return walks.ErrDuplicate
	}
	return err
}

func (t *walksTx) AppendEvent(ctx context.Context, e walks.WalkEvent) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO walk_events (id, request_id, type, actor_id, application_id, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		e.ID,
		e.RequestID,
		string(e.Type),
		e.ActorID,
		nullString(e.ApplicationID),
		e.OccurredAt,
	)
	return err
}

func getRequest(ctx context.Context, q queryer, id, suffix string) (walks.WalkRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return walks.WalkRequest{}, walks.ErrNotFound
	}

	var req walks.WalkRequest
	err := q.QueryRowContext(ctx, selectRequest+suffix, id).Scan(
		&req.ID,
		&req.DogID,
		&req.OwnerID,
		&req.RequestedAt,
		&req.DurationMinutes,
		&req.Location,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return walks.WalkRequest{}, walks.ErrNotFound
		}
		return walks.WalkRequest{}, err
	}
	return req, nil
}

func listApplications(ctx context.Context, q queryer, requestID, suffix string) ([]walks.WalkApplication, error) {
	rows, err := q.QueryContext(ctx, selectApplications+suffix, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]walks.WalkApplication, 0)
	for rows.Next() {
		var a walks.WalkApplication
		if err := rows.Scan(&a.ID, &a.RequestID, &a.WalkerID, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
