package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bloter/newsroom/internal/model"
)

// PostgresProfileRepo 는 PostgreSQL 을 사용한 프로필 리포지토리다.
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo 는 PostgresProfileRepo 를 생성한다.
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByEmail 은 지정한 email 의 프로필을 조회한다. 없으면 nil 을 반환한다.
func (r *PostgresProfileRepo) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	profile := &model.UserProfile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, role, status, last_login, created_at, updated_at
		 FROM profiles WHERE email = $1`,
		email,
	).Scan(&profile.ID, &profile.Email, &profile.Name, &profile.Role,
		&profile.Status, &profile.LastLogin, &profile.CreatedAt, &profile.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}

	return profile, nil
}

// Create 는 프로필을 새로 생성한다.
func (r *PostgresProfileRepo) Create(ctx context.Context, profile *model.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, name, role, status, last_login, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		profile.ID, profile.Email, profile.Name, profile.Role, profile.Status,
		profile.LastLogin, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// UpdateRoleStatus 는 지정 ID 프로필의 role/status 를 갱신하고 갱신된 레코드를 반환한다.
func (r *PostgresProfileRepo) UpdateRoleStatus(ctx context.Context, id string, role model.UserRole, status model.UserStatus) (*model.UserProfile, error) {
	profile := &model.UserProfile{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE profiles SET role = $2, status = $3, updated_at = $4
		 WHERE id = $1
		 RETURNING id, email, name, role, status, last_login, created_at, updated_at`,
		id, role, status, time.Now(),
	).Scan(&profile.ID, &profile.Email, &profile.Name, &profile.Role,
		&profile.Status, &profile.LastLogin, &profile.CreatedAt, &profile.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile role/status: %w", err)
	}

	return profile, nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
