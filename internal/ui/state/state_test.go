package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmQueue(t *testing.T) {
	s := NewAppState()

	_, ok := s.ActiveConfirm()
	assert.False(t, ok)
	assert.False(t, s.AnswerConfirm(true))

	first := ConfirmRequest{Message: "first", Reply: make(chan bool, 1)}
	second := ConfirmRequest{Message: "second", Reply: make(chan bool, 1)}
	s.PushConfirm(first)
	s.PushConfirm(second)

	active, ok := s.ActiveConfirm()
	assert.True(t, ok)
	assert.Equal(t, "first", active.Message)

	assert.True(t, s.AnswerConfirm(true))
	assert.True(t, <-first.Reply)

	active, _ = s.ActiveConfirm()
	assert.Equal(t, "second", active.Message)
}

func TestDeclineAll(t *testing.T) {
	s := NewAppState()
	replies := []chan bool{make(chan bool, 1), make(chan bool, 1), make(chan bool)}
	for _, r := range replies {
		s.PushConfirm(ConfirmRequest{Reply: r})
	}

	// the unbuffered reply has no reader and must not block
	s.DeclineAll()

	assert.Empty(t, s.Confirms)
	assert.False(t, <-replies[0])
	assert.False(t, <-replies[1])
}

func TestStatusAndBusy(t *testing.T) {
	s := NewAppState()
	assert.True(t, s.Loading)
	assert.False(t, s.IsBusy())

	s.SetError("bad")
	assert.True(t, s.StatusIsError)
	s.SetStatus("good")
	assert.False(t, s.StatusIsError)
	assert.Equal(t, "good", s.StatusMessage)

	s.View.InFlight["x"] = true
	assert.True(t, s.IsBusy())
}
