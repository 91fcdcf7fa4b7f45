package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/freelancehub/api/internal/core/domain"
)

type projectRow struct {
	ID          int64     `db:"id"`
	ClientID    int64     `db:"client_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Budget      float64   `db:"budget"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row projectRow) toDomain() *domain.Project {
	return &domain.Project{
		ID:          formatID(row.ID),
		ClientID:    formatID(row.ClientID),
		Title:       row.Title,
		Description: row.Description,
		Budget:      row.Budget,
		Status:      domain.NormalizeStatus(row.Status),
		CreatedAt:   row.CreatedAt,
	}
}

type ProjectRepository struct {
	db *DB
}

// Create touches the owning client row before inserting, so the insert
// either sees a live, locked client or fails with ErrClientNotFound.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	clientID, ok := parseID(p.ClientID)
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	createdAt := p.CreatedAt.UTC()

	var id int64
	err := r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := r.db.sb.
			Update("clients").
			Set("updated_at", createdAt).
			Where(sq.Eq{"id": clientID}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return wrapErr("lock client", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return wrapErr("lock client", err)
		} else if n == 0 {
			return domain.ErrClientNotFound
		}

		query, args, err = r.db.sb.
			Insert("projects").
			Columns("client_id", "title", "description", "budget", "status", "created_at").
			Values(clientID, p.Title, p.Description, p.Budget, string(p.Status), createdAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &id, query, args...); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrClientNotFound
			}
			return wrapErr("insert project", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := *p
	out.ID = formatID(id)
	return &out, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	projectID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}

	query, args, err := r.db.sb.
		Select("id", "client_id", "title", "description", "budget", "status", "created_at").
		From("projects").
		Where(sq.Eq{"id": projectID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row projectRow
	if err := r.db.x.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, wrapErr("find project", err)
	}
	return row.toDomain(), nil
}

// UpdateStatus writes `to` only while the stored status is still `from`.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ProjectStatus) error {
	projectID, ok := parseID(id)
	if !ok {
		return domain.ErrProjectNotFound
	}

	query, args, err := r.db.sb.
		Update("projects").
		Set("status", string(to)).
		Where(sq.Eq{"id": projectID, "status": string(from)}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.x.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr("update project status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("update project status", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrStatusConflict
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	projectID, ok := parseID(id)
	if !ok {
		return domain.ErrProjectNotFound
	}

	query, args, err := r.db.sb.Delete("projects").Where(sq.Eq{"id": projectID}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.x.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr("delete project", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete project", err)
	}
	if n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}
