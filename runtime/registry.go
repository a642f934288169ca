package runtime

import (
	"imahima/contract"
	"imahima/domain"
	"sync"

	"github.com/samber/lo"
)

// Registry maps each member to its live sessions.
// A member may have several sessions open (phone, desktop), each with its
// own sink.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.MemberID]map[string]contract.EventSink // member -> session -> sink
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.MemberID]map[string]contract.EventSink)}
}

// GetSinksForMembers resolves the sinks of every open session of the given
// members. Members without a session are skipped; duplicated ids only
// yield their sinks once.
func (r *Registry) GetSinksForMembers(memberIDs []domain.MemberID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var activeSinks []contract.EventSink
	for _, memberID := range lo.Uniq(memberIDs) {
		for _, sink := range r.sessions[memberID] {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

func (r *Registry) Subscribe(memberID domain.MemberID, sessionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[memberID]; !ok {
		r.sessions[memberID] = make(map[string]contract.EventSink)
	}
	r.sessions[memberID][sessionID] = sink
}

// Unsubscribe removes one session and drops the member entry once empty
// to prevent memory leaks over time.
func (r *Registry) Unsubscribe(memberID domain.MemberID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sessions, ok := r.sessions[memberID]; ok {
		delete(sessions, sessionID)
		if len(sessions) == 0 {
			delete(r.sessions, memberID)
		}
	}
}

// SessionCount is the number of open sessions of a member.
func (r *Registry) SessionCount(memberID domain.MemberID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[memberID])
}
