package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	st := NewMemoryStore()

	_, ok := st.Token()
	assert.False(t, ok)
	assert.Equal(t, "", st.AccessToken())

	st.SetToken(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1"})
	token, ok := st.Token()
	require.True(t, ok)
	assert.Equal(t, "a1", token.AccessToken)
	assert.Equal(t, "r1", token.RefreshToken)
	assert.Equal(t, "a1", st.AccessToken())
}

func TestMemoryStore_EmptyAccessTokenClears(t *testing.T) {
	st := NewMemoryStore()
	st.SetToken(&oauth2.Token{AccessToken: "a1", RefreshToken: "r1"})

	st.SetToken(&oauth2.Token{RefreshToken: "r2"})
	_, ok := st.Token()
	assert.False(t, ok)
	assert.Equal(t, "", st.AccessToken())
}

func TestMemoryStore_Clear(t *testing.T) {
	st := NewMemoryStore()
	st.SetToken(&oauth2.Token{AccessToken: "a1"})
	st.Clear()
	_, ok := st.Token()
	assert.False(t, ok)

	// clearing an empty store is a no-op
	st.Clear()
	_, ok = st.Token()
	assert.False(t, ok)
}

func TestMemoryStore_SubscribeNotifies(t *testing.T) {
	st := NewMemoryStore()
	var seen []string
	st.Subscribe(func(accessToken string) {
		seen = append(seen, accessToken)
	})

	st.SetToken(&oauth2.Token{AccessToken: "a1"})
	st.SetToken(&oauth2.Token{AccessToken: "a2"})
	st.Clear()

	assert.Equal(t, []string{"a1", "a2", ""}, seen)
}

func TestMemoryStore_Unsubscribe(t *testing.T) {
	st := NewMemoryStore()
	var calls int
	unsubscribe := st.Subscribe(func(string) {
		calls++
	})

	st.SetToken(&oauth2.Token{AccessToken: "a1"})
	unsubscribe()
	st.SetToken(&oauth2.Token{AccessToken: "a2"})

	assert.Equal(t, 1, calls)
}

func TestMemoryStore_ReentrantListener(t *testing.T) {
	st := NewMemoryStore()
	var cleared bool
	st.Subscribe(func(accessToken string) {
		// a listener may read or mutate the store without deadlocking
		if accessToken == "expired" && !cleared {
			cleared = true
			st.Clear()
		}
	})

	st.SetToken(&oauth2.Token{AccessToken: "expired"})
	_, ok := st.Token()
	assert.False(t, ok)
}
