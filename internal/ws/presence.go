package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PresenceRegistry mantém em memória o último sinal de vida de cada usuário
// conectado. Uma entrada expira quando fica sem renovação por mais que o
// TTL; presença não sobrevive a reinício do processo.
type PresenceRegistry struct {
	mu   sync.RWMutex
	seen map[uuid.UUID]time.Time
	ttl  time.Duration
}

func NewPresenceRegistry(ttl time.Duration) *PresenceRegistry {
	return &PresenceRegistry{
		seen: make(map[uuid.UUID]time.Time),
		ttl:  ttl,
	}
}

// Touch renova o sinal de vida do usuário.
func (p *PresenceRegistry) Touch(userID uuid.UUID) {
	p.mu.Lock()
	p.seen[userID] = time.Now()
	p.mu.Unlock()
}

// Forget remove o usuário imediatamente (desconexão limpa).
func (p *PresenceRegistry) Forget(userID uuid.UUID) {
	p.mu.Lock()
	delete(p.seen, userID)
	p.mu.Unlock()
}

// Online indica se o usuário renovou presença dentro do TTL.
func (p *PresenceRegistry) Online(userID uuid.UUID) bool {
	p.mu.RLock()
	last, ok := p.seen[userID]
	p.mu.RUnlock()
	return ok && time.Since(last) <= p.ttl
}

// Snapshot devolve os usuários atualmente online.
func (p *PresenceRegistry) Snapshot() []uuid.UUID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	online := make([]uuid.UUID, 0, len(p.seen))
	now := time.Now()
	for userID, last := range p.seen {
		if now.Sub(last) <= p.ttl {
			online = append(online, userID)
		}
	}
	return online
}

// Run varre e remove entradas expiradas até o contexto encerrar.
func (p *PresenceRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(p.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

func (p *PresenceRegistry) sweep() {
	now := time.Now()
	p.mu.Lock()
	for userID, last := range p.seen {
		if now.Sub(last) > p.ttl {
			delete(p.seen, userID)
		}
	}
	p.mu.Unlock()
}
