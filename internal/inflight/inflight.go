// Package inflight 는 사용자 단위 동시 실행 제한을 제공한다.
// 같은 사용자의 AI 호출은 한 번에 하나만 허용된다.
package inflight

import "sync"

// Guard 는 키 단위의 단일 실행 가드.
// 같은 키로 이미 실행 중이면 새 실행을 거부한다.
type Guard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewGuard 는 Guard 의 새 인스턴스를 생성한다.
func NewGuard() *Guard {
	return &Guard{
		active: make(map[string]struct{}),
	}
}

// TryAcquire 는 키의 실행권 획득을 시도한다.
// 이미 실행 중이면 false 를 반환한다. 획득에 성공하면 반드시 Release 해야 한다.
func (g *Guard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.active[key]; ok {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

// Release 는 키의 실행권을 반납한다.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.active, key)
}
