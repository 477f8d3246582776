package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore(t *testing.T) {
	st := NewSessionStore()
	for _, id := range []uint64{3, 1, 2} {
		st.Add(&Session{ID: id})
	}
	assert.Equal(t, 3, st.Count())
	assert.Equal(t, uint64(2), st.Get(2).ID)
	assert.Nil(t, st.Get(9))

	var order []uint64
	st.ForEach(func(s *Session) {
		order = append(order, s.ID)
		if s.ID == 2 {
			st.Remove(2)
		}
	})
	assert.Equal(t, []uint64{1, 2, 3}, order)
	assert.Equal(t, 2, st.Count())
	assert.Nil(t, st.Get(2))
}
