// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const userColumns = `id, email, name, password_hash, role, created_at, updated_at, last_sign_in_at`

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.CreatedAt, &u.UpdatedAt, &u.LastSignInAt)
	return u, err
}

type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const createUser = `INSERT INTO users (email, name, password_hash, role, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + userColumns

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.queryRow(ctx, createUser, arg.Email, arg.Name, arg.PasswordHash, arg.Role, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(q.queryRow(ctx, getUserByID, id))
	return u, notFound(err)
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower(?)`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(q.queryRow(ctx, getUserByEmail, email))
	return u, notFound(err)
}

const listUsers = `SELECT ` + userColumns + ` FROM users`

func (q *Queries) ListUsers(ctx context.Context, order ListOrder) ([]User, error) {
	rows, err := q.query(ctx, listUsers+orderClause(order, "created_at", "email", "name", "role", "last_sign_in_at"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

type UpdateUserRoleParams struct {
	ID        int64
	Role      string
	UpdatedAt time.Time
}

const updateUserRole = `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`

func (q *Queries) UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) error {
	_, err := q.exec(ctx, updateUserRole, arg.Role, arg.UpdatedAt, arg.ID)
	return err
}

type UpdateUserPasswordParams struct {
	ID           int64
	PasswordHash string
	UpdatedAt    time.Time
}

const updateUserPassword = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.exec(ctx, updateUserPassword, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

const updateUserLastSignIn = `UPDATE users SET last_sign_in_at = ? WHERE id = ?`

func (q *Queries) UpdateUserLastSignIn(ctx context.Context, id int64, at time.Time) error {
	_, err := q.exec(ctx, updateUserLastSignIn, at, id)
	return err
}

const deleteUser = `DELETE FROM users WHERE id = ?`

func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, deleteUser, id)
	return err
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	return q.count(ctx, countUsers)
}

const countUsersByRole = `SELECT COUNT(*) FROM users WHERE role = ?`

func (q *Queries) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	return q.count(ctx, countUsersByRole, role)
}
