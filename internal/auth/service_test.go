package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/bloter/newsroom/internal/model"
	"github.com/bloter/newsroom/internal/repository"
)

// mockOAuthProvider 는 함수 필드로 동작을 주입하는 테스트용 OAuth 제공자.
type mockOAuthProvider struct {
	getLoginURLFunc  func(state string) string
	exchangeCodeFunc func(ctx context.Context, code string) (*OAuthUserInfo, error)
}

func (m *mockOAuthProvider) GetLoginURL(state string) string {
	return m.getLoginURLFunc(state)
}

func (m *mockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	return m.exchangeCodeFunc(ctx, code)
}

// mockSyncer 는 프로필 동기화 mock.
type mockSyncer struct {
	syncFunc func(ctx context.Context, email, displayName string) (*model.UserProfile, error)
}

func (m *mockSyncer) Sync(ctx context.Context, email, displayName string) (*model.UserProfile, error) {
	return m.syncFunc(ctx, email, displayName)
}

// failingSessionRepo 는 삭제가 항상 실패하는 세션 리포지토리.
type failingSessionRepo struct {
	repository.SessionRepository
}

func (f *failingSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return errors.New("storage unavailable")
}

func newTestService(oauth OAuthProvider, syncer ProfileSyncer) (*Service, *repository.MemoryProfileRepo, *repository.MemorySessionRepo) {
	profileRepo := repository.NewMemoryProfileRepo()
	sessionRepo := repository.NewMemorySessionRepo()
	svc := NewService(oauth, syncer, profileRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})
	return svc, profileRepo, sessionRepo
}

func TestHandleCallback_Success(t *testing.T) {
	oauth := &mockOAuthProvider{
		exchangeCodeFunc: func(ctx context.Context, code string) (*OAuthUserInfo, error) {
			if code != "auth-code" {
				t.Errorf("code = %q, want auth-code", code)
			}
			return &OAuthUserInfo{Email: "reporter@bloter.net", Name: "김기자", Provider: "google"}, nil
		},
	}
	syncer := &mockSyncer{
		syncFunc: func(ctx context.Context, email, displayName string) (*model.UserProfile, error) {
			return &model.UserProfile{
				ID:     "profile-id",
				Email:  email,
				Name:   displayName,
				Role:   model.RoleUser,
				Status: model.StatusApproved,
			}, nil
		},
	}

	svc, _, sessionRepo := newTestService(oauth, syncer)
	session, prof, err := svc.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("HandleCallback() error = %v", err)
	}

	if session.Email != "reporter@bloter.net" {
		t.Errorf("session.Email = %q", session.Email)
	}
	if session.Guest {
		t.Error("OAuth session must not be a guest session")
	}
	if prof.Status != model.StatusApproved {
		t.Errorf("profile.Status = %q", prof.Status)
	}

	stored, _ := sessionRepo.FindByID(context.Background(), session.ID)
	if stored == nil {
		t.Error("expected session to be persisted")
	}
}

// 프로필 동기화 실패 시 세션은 발급되지 않는다
func TestHandleCallback_SyncFailureIssuesNoSession(t *testing.T) {
	oauth := &mockOAuthProvider{
		exchangeCodeFunc: func(ctx context.Context, code string) (*OAuthUserInfo, error) {
			return &OAuthUserInfo{Email: "reporter@bloter.net", Name: "김기자", Provider: "google"}, nil
		},
	}
	syncer := &mockSyncer{
		syncFunc: func(ctx context.Context, email, displayName string) (*model.UserProfile, error) {
			return nil, errors.New("db down")
		},
	}

	svc, _, _ := newTestService(oauth, syncer)
	_, _, err := svc.HandleCallback(context.Background(), "auth-code")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeProfileSyncFailed {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeProfileSyncFailed)
	}
}

func TestHandleCallback_NotConfigured(t *testing.T) {
	svc, _, _ := newTestService(nil, &mockSyncer{})

	_, _, err := svc.HandleCallback(context.Background(), "auth-code")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeNotConfigured {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeNotConfigured)
	}
}

// 게스트 입장은 OAuth 미설정 환경에서도 동작한다
func TestGuestLogin(t *testing.T) {
	svc, profileRepo, _ := newTestService(nil, &mockSyncer{})

	session, prof, err := svc.GuestLogin(context.Background())
	if err != nil {
		t.Fatalf("GuestLogin() error = %v", err)
	}

	if !session.Guest {
		t.Error("expected a guest session")
	}
	if session.Email != "guest@numbers.ai" {
		t.Errorf("session.Email = %q, want guest@numbers.ai", session.Email)
	}
	if prof.Name != "테스트 게스트" {
		t.Errorf("profile.Name = %q, want 테스트 게스트", prof.Name)
	}
	if prof.Role != model.RoleUser || prof.Status != model.StatusApproved {
		t.Errorf("profile = %s/%s, want USER/APPROVED", prof.Role, prof.Status)
	}

	// 게스트 프로필은 스토어에 기록되지 않는다
	stored, _ := profileRepo.FindByEmail(context.Background(), "guest@numbers.ai")
	if stored != nil {
		t.Error("guest profile must not be persisted")
	}
}

// 게스트끼리는 이메일을 공유하지만 사용자 키는 세션마다 다르다.
// 동시 실행 제어와 레이트 제한이 게스트 간에 섞이지 않기 위한 전제다.
func TestGuestLogin_SessionsHaveDistinctUserKeys(t *testing.T) {
	svc, _, _ := newTestService(nil, &mockSyncer{})

	first, _, err := svc.GuestLogin(context.Background())
	if err != nil {
		t.Fatalf("GuestLogin() error = %v", err)
	}
	second, _, err := svc.GuestLogin(context.Background())
	if err != nil {
		t.Fatalf("GuestLogin() error = %v", err)
	}

	if first.Email != second.Email {
		t.Errorf("guest emails differ: %q vs %q", first.Email, second.Email)
	}
	if first.ID == second.ID {
		t.Error("guest sessions must have distinct IDs")
	}
	if first.UserKey() == second.UserKey() {
		t.Errorf("UserKey() = %q for both guest sessions, want distinct keys", first.UserKey())
	}
	if first.UserKey() != first.ID {
		t.Errorf("guest UserKey() = %q, want session ID %q", first.UserKey(), first.ID)
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	svc, _, sessionRepo := newTestService(nil, &mockSyncer{})

	session, _, err := svc.GuestLogin(context.Background())
	if err != nil {
		t.Fatalf("GuestLogin() error = %v", err)
	}

	if err := svc.Logout(context.Background(), session.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	stored, _ := sessionRepo.FindByID(context.Background(), session.ID)
	if stored != nil {
		t.Error("expected session to be deleted")
	}
}

// 세션 삭제 실패는 로그아웃을 막지 않는다
func TestLogout_FailOpenOnStorageError(t *testing.T) {
	sessionRepo := &failingSessionRepo{}
	svc := NewService(nil, &mockSyncer{}, repository.NewMemoryProfileRepo(), sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	if err := svc.Logout(context.Background(), "some-session"); err != nil {
		t.Errorf("Logout() error = %v, want nil", err)
	}
}

func TestLogout_EmptySessionIDIsNoop(t *testing.T) {
	svc, _, _ := newTestService(nil, &mockSyncer{})

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("Logout(\"\") error = %v, want nil", err)
	}
}

func TestGetCurrentProfile_GuestSessionResolvesInline(t *testing.T) {
	svc, _, _ := newTestService(nil, &mockSyncer{})

	session, _, err := svc.GuestLogin(context.Background())
	if err != nil {
		t.Fatalf("GuestLogin() error = %v", err)
	}

	prof, err := svc.GetCurrentProfile(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetCurrentProfile() error = %v", err)
	}
	if prof.Email != "guest@numbers.ai" {
		t.Errorf("Email = %q, want guest@numbers.ai", prof.Email)
	}
	if !prof.IsApproved() {
		t.Error("guest profile must be approved")
	}
}

func TestGetCurrentProfile_LooksUpStoreForOAuthSession(t *testing.T) {
	oauth := &mockOAuthProvider{
		exchangeCodeFunc: func(ctx context.Context, code string) (*OAuthUserInfo, error) {
			return &OAuthUserInfo{Email: "reporter@bloter.net", Name: "김기자", Provider: "google"}, nil
		},
	}

	profileRepo := repository.NewMemoryProfileRepo()
	sessionRepo := repository.NewMemorySessionRepo()
	syncer := &mockSyncer{
		syncFunc: func(ctx context.Context, email, displayName string) (*model.UserProfile, error) {
			prof := &model.UserProfile{
				ID:     "profile-id",
				Email:  email,
				Name:   displayName,
				Role:   model.RoleUser,
				Status: model.StatusPending,
			}
			if err := profileRepo.Create(ctx, prof); err != nil {
				return nil, err
			}
			return prof, nil
		},
	}
	svc := NewService(oauth, syncer, profileRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	session, _, err := svc.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("HandleCallback() error = %v", err)
	}

	prof, err := svc.GetCurrentProfile(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetCurrentProfile() error = %v", err)
	}
	if prof.Status != model.StatusPending {
		t.Errorf("Status = %q, want PENDING", prof.Status)
	}
}

func TestGetCurrentProfile_UnknownSessionIsUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(nil, &mockSyncer{})

	_, err := svc.GetCurrentProfile(context.Background(), "no-such-session")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeUnauthorized {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUnauthorized)
	}
}

func TestGetCurrentProfile_EmptySessionIDIsUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(nil, &mockSyncer{})

	_, err := svc.GetCurrentProfile(context.Background(), "")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeUnauthorized {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUnauthorized)
	}
}
