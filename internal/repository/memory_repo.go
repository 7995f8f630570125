package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bloter/newsroom/internal/model"
)

// MemoryProfileRepo 는 인메모리 프로필 리포지토리다.
// DATABASE_URL 미설정 시의 축퇴 모드에서 사용한다. 프로세스 종료와 함께 소멸한다.
type MemoryProfileRepo struct {
	mu       sync.RWMutex
	profiles map[string]*model.UserProfile // key: email
}

// NewMemoryProfileRepo 는 MemoryProfileRepo 를 생성한다.
func NewMemoryProfileRepo() *MemoryProfileRepo {
	return &MemoryProfileRepo{
		profiles: make(map[string]*model.UserProfile),
	}
}

// FindByEmail 은 지정한 email 의 프로필을 조회한다. 없으면 nil 을 반환한다.
func (r *MemoryProfileRepo) FindByEmail(_ context.Context, email string) (*model.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[email]
	if !ok {
		return nil, nil
	}
	cp := *profile
	return &cp, nil
}

// Create 는 프로필을 새로 생성한다.
func (r *MemoryProfileRepo) Create(_ context.Context, profile *model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *profile
	r.profiles[profile.Email] = &cp
	return nil
}

// UpdateRoleStatus 는 지정 ID 프로필의 role/status 를 갱신하고 갱신된 레코드를 반환한다.
func (r *MemoryProfileRepo) UpdateRoleStatus(_ context.Context, id string, role model.UserRole, status model.UserStatus) (*model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, profile := range r.profiles {
		if profile.ID == id {
			profile.Role = role
			profile.Status = status
			profile.UpdatedAt = time.Now()
			cp := *profile
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("profile not found: %s", id)
}

// MemorySessionRepo 는 인메모리 세션 리포지토리다.
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session // key: session ID
}

// NewMemorySessionRepo 는 MemorySessionRepo 를 생성한다.
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[string]*model.Session),
	}
}

// Create 는 세션을 생성한다.
func (r *MemorySessionRepo) Create(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

// FindByID 는 지정 ID 의 세션을 조회한다. 기한이 지났거나 없으면 nil 을 반환한다.
func (r *MemorySessionRepo) FindByID(_ context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok || session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

// DeleteByID 는 지정 ID 의 세션을 삭제한다.
func (r *MemorySessionRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// compile-time interface checks
var _ ProfileRepository = (*MemoryProfileRepo)(nil)
var _ SessionRepository = (*MemorySessionRepo)(nil)
