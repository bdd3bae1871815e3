package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/pkg/dbutil"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
)

var teacherColumns = []string{"id", "email", "first_name", "last_name", "password_hash", "phone", "bio", "specializations", "ctime", "mtime"}

type TeacherRepo struct {
	db *sql.DB
}

func NewTeacherRepo(db *sql.DB) *TeacherRepo {
	return &TeacherRepo{db: db}
}

func (r *TeacherRepo) Create(ctx context.Context, teacher *model.Teacher) error {
	data := map[string]interface{}{
		"id":              teacher.ID,
		"email":           teacher.Email,
		"first_name":      teacher.FirstName,
		"last_name":       teacher.LastName,
		"password_hash":   teacher.PasswordHash,
		"phone":           teacher.Phone,
		"bio":             teacher.Bio,
		"specializations": teacher.Specializations,
		"ctime":           teacher.Ctime,
		"mtime":           teacher.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("teachers", []map[string]interface{}{data})
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

func (r *TeacherRepo) GetByEmail(ctx context.Context, email string) (*model.Teacher, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *TeacherRepo) GetByID(ctx context.Context, id string) (*model.Teacher, error) {
	return r.getOne(ctx, map[string]interface{}{"id": id})
}

func (r *TeacherRepo) List(ctx context.Context) ([]model.Teacher, error) {
	where := map[string]interface{}{"_orderby": "ctime asc"}
	sqlStr, args, err := builder.BuildSelect("teachers", where, teacherColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	teachers := make([]model.Teacher, 0)
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, *teacher)
	}
	return teachers, rows.Err()
}

func (r *TeacherRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Teacher, error) {
	sqlStr, args, err := builder.BuildSelect("teachers", where, teacherColumns)
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
	return scanTeacher(rows)
}

func scanTeacher(rows *sql.Rows) (*model.Teacher, error) {
	var t model.Teacher
	if err := rows.Scan(&t.ID, &t.Email, &t.FirstName, &t.LastName, &t.PasswordHash, &t.Phone, &t.Bio, &t.Specializations, &t.Ctime, &t.Mtime); err != nil {
		return nil, err
	}
	return &t, nil
}
