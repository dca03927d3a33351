package authclient_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	authclient "github.com/olympiastore/go-auth-client"
)

func TestNewMessage(t *testing.T) {
	msg := authclient.NewMessage(authclient.PolarityPositive, "Account created.")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, authclient.PolarityPositive, msg.Polarity)
	assert.Equal(t, []string{"Account created."}, msg.Texts)

	other := authclient.NewMessage(authclient.PolarityPositive, "Account created.")
	assert.NotEqual(t, msg.ID, other.ID)
}

func TestMessageFromError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		msg := authclient.MessageFromError(errors.New("boom"))
		assert.Equal(t, authclient.PolarityNegative, msg.Polarity)
		assert.Equal(t, []string{"boom"}, msg.Texts)
	})

	t.Run("rich error with detail lines", func(t *testing.T) {
		err := goerrors.New("signup rejected", goerrors.CategoryOperation).
			WithMetadata(map[string]any{
				"details": []string{"Email already taken", "Name too short"},
			})

		msg := authclient.MessageFromError(err)
		assert.Equal(t, []string{"Email already taken", "Name too short"}, msg.Texts)
	})

	t.Run("rich error with single detail", func(t *testing.T) {
		err := goerrors.New("code rejected", goerrors.CategoryAuth).
			WithMetadata(map[string]any{"details": "Code invalid"})

		msg := authclient.MessageFromError(err)
		assert.Equal(t, []string{"Code invalid"}, msg.Texts)
	})

	t.Run("rich error without details", func(t *testing.T) {
		err := goerrors.New("backend unreachable", goerrors.CategoryOperation)

		msg := authclient.MessageFromError(err)
		assert.Equal(t, []string{"backend unreachable"}, msg.Texts)
	})

	t.Run("nil error", func(t *testing.T) {
		msg := authclient.MessageFromError(nil)
		assert.Equal(t, authclient.PolarityNegative, msg.Polarity)
		assert.NotEmpty(t, msg.Texts)
	})
}
