package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactServiceSubmitValidates(t *testing.T) {
	svc := NewContactService(setupServiceTestDB(t))

	_, err := svc.Submit(ContactInput{Email: "a@b.in", Message: "hi"})
	assert.ErrorIs(t, err, ErrContactNameRequired)
	_, err = svc.Submit(ContactInput{Name: "Asha", Email: "a@b.in"})
	assert.ErrorIs(t, err, ErrContactMessageRequired)
	_, err = svc.Submit(ContactInput{Name: "Asha", Email: "nope", Message: "hi"})
	assert.ErrorIs(t, err, ErrContactEmailInvalid)
	_, err = svc.Submit(ContactInput{Name: "Asha", Email: "a@b.in", Message: strings.Repeat("x", maxContactMessageRunes+1)})
	assert.ErrorIs(t, err, ErrContactMessageTooLong)

	msg, err := svc.Submit(ContactInput{Name: " Asha ", Email: "asha@example.com", Message: "Do you serve Pune?"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", msg.Name)
	assert.False(t, msg.Handled)
}

func TestContactServiceHandledFlow(t *testing.T) {
	svc := NewContactService(setupServiceTestDB(t))

	first, err := svc.Submit(ContactInput{Name: "A", Email: "a@example.com", Message: "one"})
	require.NoError(t, err)
	_, err = svc.Submit(ContactInput{Name: "B", Email: "b@example.com", Message: "two"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkHandled(first.ID, true))
	count, err := svc.CountUnhandled()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	open, err := svc.List(true, 1, 10)
	require.NoError(t, err)
	require.Len(t, open.Items, 1)
	assert.Equal(t, "B", open.Items[0].Name)

	all, err := svc.List(false, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	assert.ErrorIs(t, svc.MarkHandled(999, true), ErrContactNotFound)
	require.NoError(t, svc.Delete(first.ID))
	assert.ErrorIs(t, svc.Delete(first.ID), ErrContactNotFound)
}
