// Package model 은 도메인 모델을 정의한다.
package model

import "time"

// UserRole 은 프로필의 권한 등급을 나타낸다.
type UserRole string

const (
	// RoleAdmin 은 관리자 권한을 나타낸다.
	RoleAdmin UserRole = "ADMIN"
	// RoleUser 는 일반 사용자 권한을 나타낸다.
	RoleUser UserRole = "USER"
)

// UserStatus 는 프로필의 승인 상태를 나타낸다.
type UserStatus string

const (
	// StatusPending 은 승인 대기 상태를 나타낸다.
	StatusPending UserStatus = "PENDING"
	// StatusApproved 는 승인 완료 상태를 나타낸다.
	StatusApproved UserStatus = "APPROVED"
	// StatusRejected 는 승인 거부 상태를 나타낸다.
	StatusRejected UserStatus = "REJECTED"
)

// UserProfile 은 편집국 사용자 프로필을 나타낸다.
// Email 이 외부 IdP 세션과의 조인 키이며, 생성 후 변경되지 않는다.
type UserProfile struct {
	ID        string
	Email     string
	Name      string
	Role      UserRole
	Status    UserStatus
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsApproved 는 편집 기능 사용이 허용된 상태인지 여부를 반환한다.
func (p *UserProfile) IsApproved() bool {
	return p.Status == StatusApproved
}

// Session 은 로그인 세션을 나타낸다.
// 게스트 세션은 프로필 스토어를 경유하지 않고 세션 자체가 프로필 정보를 가진다.
type Session struct {
	ID        string
	Email     string
	Name      string
	Guest     bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserKey 는 동시 실행 제어와 레이트 제한에 쓰는 사용자 식별 키를 반환한다.
// 게스트 세션은 전원이 같은 이메일을 공유하므로 세션 ID 로 구분한다.
func (s *Session) UserKey() string {
	if s.Guest {
		return s.ID
	}
	return s.Email
}
