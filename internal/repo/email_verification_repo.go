package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/pkg/dbutil"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
)

type EmailVerificationRepo struct {
	db *sql.DB
}

func NewEmailVerificationRepo(db *sql.DB) *EmailVerificationRepo {
	return &EmailVerificationRepo{db: db}
}

func (r *EmailVerificationRepo) Create(ctx context.Context, item *model.EmailVerification) error {
	data := map[string]interface{}{
		"id":         item.ID,
		"parent_id":  item.ParentID,
		"ctime":      item.Ctime,
		"expires_at": item.ExpiresAt,
	}
	sqlStr, args, err := builder.BuildInsert("email_verifications", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		if dbutil.IsMissingReference(err) {
			return appErr.New(appErr.ErrNotFound, "parent not found")
		}
		return err
	}
	return nil
}

func (r *EmailVerificationRepo) GetByID(ctx context.Context, id string) (*model.EmailVerification, error) {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildSelect("email_verifications", where, []string{"id", "parent_id", "ctime", "expires_at"})
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
	var item model.EmailVerification
	if err := rows.Scan(&item.ID, &item.ParentID, &item.Ctime, &item.ExpiresAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the record and reports ErrNotFound when nothing matched, so
// two concurrent consumers cannot both succeed.
func (r *EmailVerificationRepo) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := builder.BuildDelete("email_verifications", map[string]interface{}{"id": id})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
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

func (r *EmailVerificationRepo) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	sqlStr, args, err := builder.BuildDelete("email_verifications", map[string]interface{}{"expires_at <": now})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
