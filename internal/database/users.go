// Cinelogue - Movie Catalog and Recommendations
// Copyright 2026 Cinelogue Authors
// SPDX-License-Identifier: MIT
// https://github.com/cinelogue/cinelogue

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cinelogue/cinelogue/internal/metrics"
	"github.com/cinelogue/cinelogue/internal/models"
)

// CreateUser inserts a user record.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("create_user", time.Now())

	now := time.Now().UTC()
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO users (id, username, created_at) VALUES (?, ?, ?)",
		user.ID, user.Username, now)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = now
	return nil
}

// GetUserByID returns one user or ErrUserNotFound.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	defer metrics.ObserveDBQuery("get_user", time.Now())

	var user models.User
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}
