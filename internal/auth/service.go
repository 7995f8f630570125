// Package auth 는 OAuth 인증 플로우와 세션 관리를 제공한다.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bloter/newsroom/internal/model"
	"github.com/bloter/newsroom/internal/repository"
)

// 게스트 입장용 고정 신원.
// 게스트 프로필은 프로필 스토어에 저장되지 않고 세션에서 즉석으로 만들어진다.
const (
	guestEmail = "guest@numbers.ai"
	guestName  = "테스트 게스트"
)

// OAuthUserInfo 는 OAuth 제공자에서 가져온 사용자 정보를 나타낸다.
type OAuthUserInfo struct {
	Email    string
	Name     string
	Provider string // "google" 등
}

// OAuthProvider 는 OAuth 인증 제공자의 인터페이스.
// 복수 IdP(Google, GitHub 등) 대응을 위한 추상화.
type OAuthProvider interface {
	// GetLoginURL 은 OAuth 인증 URL 을 생성한다.
	GetLoginURL(state string) string
	// ExchangeCode 는 인가 코드를 토큰으로 교환하고 사용자 정보를 가져온다.
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// ProfileSyncer 는 로그인 시 프로필 동기화의 인터페이스.
type ProfileSyncer interface {
	Sync(ctx context.Context, email, displayName string) (*model.UserProfile, error)
}

// ServiceConfig 는 인증 서비스의 설정.
type ServiceConfig struct {
	SessionMaxAge int // 세션 유효 기간(초)
}

// Service 는 인증에 관한 비즈니스 로직을 제공한다.
type Service struct {
	oauth       OAuthProvider
	syncer      ProfileSyncer
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService 는 Service 를 생성한다.
func NewService(
	oauth OAuthProvider,
	syncer ProfileSyncer,
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		syncer:      syncer,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Configured 는 OAuth 제공자가 설정되어 있는지를 반환한다.
// 미설정 시 Google 로그인은 막히지만 게스트 입장은 계속 동작한다.
func (s *Service) Configured() bool {
	return s.oauth != nil
}

// GetLoginURL 은 OAuth 인증 URL 을 생성한다.
func (s *Service) GetLoginURL(state string) (string, error) {
	if s.oauth == nil {
		return "", model.NewNotConfiguredError("Google OAuth")
	}
	return s.oauth.GetLoginURL(state), nil
}

// HandleCallback 은 OAuth 콜백을 처리하고 세션을 발급한다.
// 인가 코드 교환, 프로필 동기화, 세션 발급이 하나의 흐름으로 이어진다.
// 프로필 동기화에 실패하면 세션은 발급되지 않는다.
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, *model.UserProfile, error) {
	if s.oauth == nil {
		return nil, nil, model.NewNotConfiguredError("Google OAuth")
	}

	// 1. 인가 코드를 토큰으로 교환하고 사용자 정보 조회
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	// 2. 프로필 동기화(신규 생성, 관리자 복구 포함)
	prof, err := s.syncer.Sync(ctx, userInfo.Email, userInfo.Name)
	if err != nil {
		slog.Error("프로필 동기화에 실패했습니다",
			slog.String("email", userInfo.Email),
			slog.String("error", err.Error()),
		)
		return nil, nil, model.NewProfileSyncFailedError()
	}

	// 3. 세션 발급
	session, err := s.createSession(ctx, prof.Email, prof.Name, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("로그인했습니다",
		slog.String("email", prof.Email),
		slog.String("role", string(prof.Role)),
		slog.String("status", string(prof.Status)),
	)

	return session, prof, nil
}

// GuestLogin 은 게스트 세션을 발급한다.
// 게스트는 고정 신원(guest@numbers.ai)의 USER/APPROVED 프로필로 동작하며
// 프로필 스토어에는 아무것도 기록되지 않는다. OAuth 미설정 환경에서도 동작한다.
func (s *Service) GuestLogin(ctx context.Context) (*model.Session, *model.UserProfile, error) {
	session, err := s.createSession(ctx, guestEmail, guestName, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create guest session: %w", err)
	}

	slog.Info("게스트로 입장했습니다", slog.String("session_id", session.ID))

	return session, guestProfile(), nil
}

// Logout 은 세션을 파기한다.
// 세션 삭제 실패는 로그만 남기고 성공으로 취급한다(fail-open).
// 클라이언트 쿠키는 어차피 핸들러에서 파기된다.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		slog.Warn("세션 삭제에 실패했습니다",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	slog.Info("로그아웃했습니다", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentProfile 은 세션에서 현재 사용자의 프로필을 얻는다.
// 게스트 세션은 스토어 조회 없이 세션에 담긴 신원으로 프로필을 만든다.
func (s *Service) GetCurrentProfile(ctx context.Context, sessionID string) (*model.UserProfile, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	if session.Guest {
		return guestProfile(), nil
	}

	prof, err := s.profileRepo.FindByEmail(ctx, session.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if prof == nil {
		// 세션은 살아 있는데 프로필이 사라진 경우는 재로그인 대상
		return nil, model.NewUnauthorizedError()
	}

	return prof, nil
}

// guestProfile 은 게스트 세션용 프로필을 즉석으로 만든다.
func guestProfile() *model.UserProfile {
	now := time.Now()
	return &model.UserProfile{
		ID:        uuid.New().String(),
		Email:     guestEmail,
		Name:      guestName,
		Role:      model.RoleUser,
		Status:    model.StatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// createSession 은 세션을 생성하고 영속화한다.
func (s *Service) createSession(ctx context.Context, email, name string, guest bool) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		Email:     email,
		Name:      name,
		Guest:     guest,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID 는 암호학적으로 안전한 세션 ID 를 생성한다.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateState 는 OAuth state 파라미터용 난수 문자열을 생성한다.
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
