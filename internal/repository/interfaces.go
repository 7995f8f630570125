// Package repository 는 데이터 영속화 인터페이스를 정의한다.
package repository

import (
	"context"

	"github.com/bloter/newsroom/internal/model"
)

// ProfileRepository 는 사용자 프로필의 영속화 인터페이스다.
// email 이 유일 키이며, 조회는 모두 email 단건 조회다.
type ProfileRepository interface {
	// FindByEmail 은 지정한 email 의 프로필을 조회한다. 없으면 nil 을 반환한다.
	FindByEmail(ctx context.Context, email string) (*model.UserProfile, error)

	// Create 는 프로필을 새로 생성한다.
	Create(ctx context.Context, profile *model.UserProfile) error

	// UpdateRoleStatus 는 지정 ID 프로필의 role/status 를 갱신하고 갱신된 레코드를 반환한다.
	// 관리자 승격 동기화에서만 사용된다.
	UpdateRoleStatus(ctx context.Context, id string, role model.UserRole, status model.UserStatus) (*model.UserProfile, error)
}

// SessionRepository 는 로그인 세션의 영속화 인터페이스다.
type SessionRepository interface {
	// Create 는 세션을 생성한다.
	Create(ctx context.Context, session *model.Session) error
	// FindByID 는 지정 ID 의 세션을 조회한다. 기한이 지났거나 없으면 nil 을 반환한다.
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID 는 지정 ID 의 세션을 삭제한다.
	DeleteByID(ctx context.Context, id string) error
}
