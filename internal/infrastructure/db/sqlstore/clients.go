package sqlstore

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/freelancehub/api/internal/core/domain"
)

// clientProjectRow is one row of the clients LEFT JOIN projects listing.
type clientProjectRow struct {
	ID               int64           `db:"id"`
	Name             string          `db:"name"`
	Email            string          `db:"email"`
	CompanyName      sql.NullString  `db:"company_name"`
	CreatedAt        time.Time       `db:"created_at"`
	ProjectID        sql.NullInt64   `db:"project_id"`
	Title            sql.NullString  `db:"title"`
	Description      sql.NullString  `db:"description"`
	Budget           sql.NullFloat64 `db:"budget"`
	Status           sql.NullString  `db:"status"`
	ProjectCreatedAt sql.NullTime    `db:"project_created_at"`
}

type ClientRepository struct {
	db *DB
}

// List reads every client and project in one statement so the result is a
// single consistent snapshot.
func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query, args, err := r.db.sb.
		Select(
			"c.id", "c.name", "c.email", "c.company_name", "c.created_at",
			"p.id AS project_id", "p.title", "p.description", "p.budget", "p.status",
			"p.created_at AS project_created_at",
		).
		From("clients c").
		LeftJoin("projects p ON p.client_id = c.id").
		OrderBy("c.id", "p.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []clientProjectRow
	if err := r.db.x.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapErr("list clients", err)
	}

	out := make([]*domain.Client, 0)
	var current *domain.Client
	for _, row := range rows {
		id := formatID(row.ID)
		if current == nil || current.ID != id {
			current = &domain.Client{
				ID:          id,
				Name:        row.Name,
				Email:       row.Email,
				CompanyName: row.CompanyName.String,
				Projects:    []*domain.Project{},
				CreatedAt:   row.CreatedAt,
			}
			out = append(out, current)
		}
		if !row.ProjectID.Valid {
			continue
		}
		current.Projects = append(current.Projects, &domain.Project{
			ID:          formatID(row.ProjectID.Int64),
			ClientID:    id,
			Title:       row.Title.String,
			Description: row.Description.String,
			Budget:      row.Budget.Float64,
			Status:      domain.NormalizeStatus(row.Status.String),
			CreatedAt:   row.ProjectCreatedAt.Time,
		})
	}
	return out, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	createdAt := c.CreatedAt.UTC()
	query, args, err := r.db.sb.
		Insert("clients").
		Columns("name", "email", "company_name", "created_at", "updated_at").
		Values(c.Name, c.Email, nullString(c.CompanyName), createdAt, createdAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var id int64
	if err := r.db.x.GetContext(ctx, &id, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, wrapErr("insert client", err)
	}

	out := *c
	out.ID = formatID(id)
	out.Projects = []*domain.Project{}
	return &out, nil
}

// Delete removes the client row first, which locks it against concurrent
// project inserts, then clears its projects. The foreign key cascade covers
// the same rows where it is enforced.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	clientID, ok := parseID(id)
	if !ok {
		return domain.ErrClientNotFound
	}

	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := r.db.sb.Delete("clients").Where(sq.Eq{"id": clientID}).ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return wrapErr("delete client", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return wrapErr("delete client", err)
		} else if n == 0 {
			return domain.ErrClientNotFound
		}

		query, args, err = r.db.sb.Delete("projects").Where(sq.Eq{"client_id": clientID}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return wrapErr("delete client projects", err)
		}
		return nil
	})
}
