package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/pkg/dbutil"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
)

type ChildRepo struct {
	db *sql.DB
}

func NewChildRepo(db *sql.DB) *ChildRepo {
	return &ChildRepo{db: db}
}

func (r *ChildRepo) Create(ctx context.Context, child *model.Child) error {
	data := map[string]interface{}{
		"id":                 child.ID,
		"first_name":         child.FirstName,
		"last_name":          child.LastName,
		"age":                child.Age,
		"parent_id":          child.ParentID,
		"primary_teacher_id": nullIfEmpty(child.PrimaryTeacherID),
		"programming_level":  child.ProgrammingLevel,
		"notes":              child.Notes,
		"is_active":          child.IsActive,
		"ctime":              child.Ctime,
		"mtime":              child.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("children", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsMissingReference(err) {
			return appErr.New(appErr.ErrNotFound, "parent or teacher not found")
		}
		return err
	}
	return nil
}

func (r *ChildRepo) ListByPrimaryTeacher(ctx context.Context, teacherID string) ([]model.Child, error) {
	where := map[string]interface{}{"primary_teacher_id": teacherID, "_orderby": "ctime asc"}
	sqlStr, args, err := builder.BuildSelect("children", where, []string{
		"id", "first_name", "last_name", "age", "parent_id", "primary_teacher_id",
		"programming_level", "notes", "is_active", "ctime", "mtime",
	})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	children := make([]model.Child, 0)
	for rows.Next() {
		var (
			c         model.Child
			teacherID sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Age, &c.ParentID, &teacherID, &c.ProgrammingLevel, &c.Notes, &c.IsActive, &c.Ctime, &c.Mtime); err != nil {
			return nil, err
		}
		c.PrimaryTeacherID = teacherID.String
		children = append(children, c)
	}
	return children, rows.Err()
}
