package model

import "fmt"

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleAdmin   Role = "admin"
)

func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleTeacher, RoleParent:
		return Role(value), nil
	default:
		return "", fmt.Errorf("unsupported role: %q", value)
	}
}

// Account is the login identity: exactly one of Teacher or Parent is set,
// matching Role.
type Account struct {
	Role    Role
	Teacher *Teacher
	Parent  *Parent
}

func TeacherAccount(t *Teacher) *Account {
	return &Account{Role: RoleTeacher, Teacher: t}
}

func ParentAccount(p *Parent) *Account {
	return &Account{Role: RoleParent, Parent: p}
}

func (a *Account) ID() string {
	switch a.Role {
	case RoleTeacher:
		return a.Teacher.ID
	case RoleParent:
		return a.Parent.ID
	}
	return ""
}

func (a *Account) Email() string {
	switch a.Role {
	case RoleTeacher:
		return a.Teacher.Email
	case RoleParent:
		return a.Parent.Email
	}
	return ""
}

func (a *Account) PasswordHash() string {
	switch a.Role {
	case RoleTeacher:
		return a.Teacher.PasswordHash
	case RoleParent:
		return a.Parent.PasswordHash
	}
	return ""
}

// EmailVerified is always true for teachers, whose accounts are provisioned
// by an administrator.
func (a *Account) EmailVerified() bool {
	switch a.Role {
	case RoleTeacher:
		return true
	case RoleParent:
		return a.Parent.EmailVerified
	}
	return false
}

// Public is the JSON projection returned to clients.
func (a *Account) Public() interface{} {
	switch a.Role {
	case RoleTeacher:
		return a.Teacher
	case RoleParent:
		return a.Parent
	}
	return nil
}
