package net

import (
	"sort"

	"github.com/kamstrup/intmap"
)

// SessionStore holds the connected sessions by id. Game loop only.
type SessionStore struct {
	sessions *intmap.Map[uint64, *Session]
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: intmap.New[uint64, *Session](128)}
}

func (st *SessionStore) Add(s *Session) {
	st.sessions.Put(s.ID, s)
}

func (st *SessionStore) Remove(id uint64) {
	st.sessions.Del(id)
}

// Get returns the session with the given id, or nil.
func (st *SessionStore) Get(id uint64) *Session {
	s, _ := st.sessions.Get(id)
	return s
}

func (st *SessionStore) Count() int {
	return st.sessions.Len()
}

// ForEach visits every session in id order. fn may remove the visited session.
func (st *SessionStore) ForEach(fn func(*Session)) {
	ids := make([]uint64, 0, st.sessions.Len())
	st.sessions.ForEach(func(id uint64, _ *Session) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if s, ok := st.sessions.Get(id); ok {
			fn(s)
		}
	}
}
