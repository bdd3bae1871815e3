package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/pkg/dbutil"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
)

var parentColumns = []string{"id", "email", "first_name", "last_name", "password_hash", "phone", "email_verified", "google_id", "ctime", "mtime"}

type ParentRepo struct {
	db *sql.DB
}

func NewParentRepo(db *sql.DB) *ParentRepo {
	return &ParentRepo{db: db}
}

func (r *ParentRepo) Create(ctx context.Context, parent *model.Parent) error {
	data := map[string]interface{}{
		"id":             parent.ID,
		"email":          parent.Email,
		"first_name":     parent.FirstName,
		"last_name":      parent.LastName,
		"password_hash":  nullIfEmpty(parent.PasswordHash),
		"phone":          parent.Phone,
		"email_verified": parent.EmailVerified,
		"google_id":      nullIfEmpty(parent.GoogleID),
		"ctime":          parent.Ctime,
		"mtime":          parent.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("parents", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ParentRepo) GetByEmail(ctx context.Context, email string) (*model.Parent, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *ParentRepo) GetByID(ctx context.Context, id string) (*model.Parent, error) {
	return r.getOne(ctx, map[string]interface{}{"id": id})
}

// MarkEmailVerified flips the flag for the single parent identified by id.
func (r *ParentRepo) MarkEmailVerified(ctx context.Context, id string, mtime int64) error {
	return r.update(ctx, id, map[string]interface{}{
		"email_verified": true,
		"mtime":          mtime,
	})
}

// LinkGoogle stores the external subject id and marks the address verified,
// since the identity provider has confirmed it.
func (r *ParentRepo) LinkGoogle(ctx context.Context, id, googleID string, mtime int64) error {
	return r.update(ctx, id, map[string]interface{}{
		"google_id":      googleID,
		"email_verified": true,
		"mtime":          mtime,
	})
}

func (r *ParentRepo) update(ctx context.Context, id string, update map[string]interface{}) error {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildUpdate("parents", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	ok, err := dbutil.Affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *ParentRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Parent, error) {
	sqlStr, args, err := builder.BuildSelect("parents", where, parentColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var (
		p        model.Parent
		hash     sql.NullString
		googleID sql.NullString
	)
	if err := rows.Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &hash, &p.Phone, &p.EmailVerified, &googleID, &p.Ctime, &p.Mtime); err != nil {
		return nil, err
	}
	p.PasswordHash = hash.String
	p.GoogleID = googleID.String
	return &p, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
