// Package profile 은 사용자 프로필 동기화의 도메인 로직을 제공한다.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloter/newsroom/internal/model"
	"github.com/bloter/newsroom/internal/repository"
)

// Service 는 프로필 동기화의 서비스 계층.
// 로그인 시 인증 제공자의 신원과 프로필 스토어를 맞춘다.
type Service struct {
	profileRepo repository.ProfileRepository
	adminEmail  string
	adminName   string
}

// NewService 는 Service 의 새 인스턴스를 생성한다.
func NewService(profileRepo repository.ProfileRepository, adminEmail, adminName string) *Service {
	return &Service{
		profileRepo: profileRepo,
		adminEmail:  adminEmail,
		adminName:   adminName,
	}
}

// Sync 는 email 을 기준으로 프로필을 조회하고 상태를 맞춘 뒤 반환한다.
//
// 동작 규칙:
//   - 관리자 email 인 경우: 프로필이 없으면 ADMIN/APPROVED 로 생성하고,
//     있는데 role 이 ADMIN 이 아니면 ADMIN/APPROVED 로 되돌린다.
//     관리자는 어떤 경로로도 잠기지 않아야 한다.
//   - 일반 email 인 경우: 프로필이 있으면 저장된 role/status 를 그대로 반환하고,
//     없으면 USER/PENDING 으로 새로 생성한다.
//
// displayName 이 비어 있으면 email 의 로컬 파트를 이름으로 사용한다.
func (s *Service) Sync(ctx context.Context, email, displayName string) (*model.UserProfile, error) {
	existing, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("프로필 조회에 실패했습니다: %w", err)
	}

	isAdmin := email == s.adminEmail

	if existing != nil {
		// 관리자 강등 복구: DB 상태가 어떻든 관리자 email 은 ADMIN/APPROVED 로 되돌린다
		if isAdmin && (existing.Role != model.RoleAdmin || existing.Status != model.StatusApproved) {
			restored, err := s.profileRepo.UpdateRoleStatus(ctx, existing.ID, model.RoleAdmin, model.StatusApproved)
			if err != nil {
				return nil, fmt.Errorf("관리자 프로필 복구에 실패했습니다: %w", err)
			}
			slog.Info("관리자 프로필을 복구했습니다",
				slog.String("email", email),
				slog.String("previous_role", string(existing.Role)),
				slog.String("previous_status", string(existing.Status)),
			)
			return restored, nil
		}
		return existing, nil
	}

	// 신규 프로필 생성
	now := time.Now()
	created := &model.UserProfile{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      resolveName(email, displayName),
		Role:      model.RoleUser,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if isAdmin {
		created.Role = model.RoleAdmin
		created.Status = model.StatusApproved
		if s.adminName != "" {
			created.Name = s.adminName
		}
	}

	if err := s.profileRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("프로필 생성에 실패했습니다: %w", err)
	}

	slog.Info("프로필을 새로 생성했습니다",
		slog.String("email", email),
		slog.String("role", string(created.Role)),
		slog.String("status", string(created.Status)),
	)

	return created, nil
}

// resolveName 은 표시 이름을 결정한다.
// 제공자 이름이 비어 있으면 email 의 로컬 파트로 대체한다.
func resolveName(email, displayName string) string {
	name := strings.TrimSpace(displayName)
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
