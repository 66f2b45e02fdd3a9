package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"fleetctl/pkg/session"
)

func TestContainer_SetAndReset(t *testing.T) {
	c := session.NewContainer()

	cur := c.Current()
	assert.False(t, cur.Authenticated())
	assert.Empty(t, cur.Username)
	assert.Empty(t, cur.Roles)

	c.Set(session.Session{ID: 1, Username: "alice", Token: "T1", Roles: []session.Role{session.RoleUser}})

	cur = c.Current()
	assert.True(t, cur.Authenticated())
	assert.Equal(t, "T1", cur.Token)
	assert.Equal(t, int64(1), cur.ID)
	assert.True(t, cur.HasRole(session.RoleUser))
	assert.False(t, cur.HasRole(session.RoleAdmin))

	c.Reset()

	cur = c.Current()
	assert.False(t, cur.Authenticated())
	assert.Equal(t, int64(0), cur.ID)
	assert.Empty(t, cur.Username)
	assert.Empty(t, cur.Token)
	assert.Empty(t, cur.Roles)
}

func TestContainer_SetIfUnchanged(t *testing.T) {
	t.Run("applies when nothing moved", func(t *testing.T) {
		c := session.NewContainer()
		_, epoch := c.Snapshot()

		ok := c.SetIfUnchanged(session.Session{Token: "T1"}, epoch)

		assert.True(t, ok)
		assert.Equal(t, "T1", c.Current().Token)
	})

	t.Run("refused after a forced reset", func(t *testing.T) {
		c := session.NewContainer()
		c.Set(session.Session{Token: "T1"})
		_, epoch := c.Snapshot()

		// a 401 lands while a second login is in flight
		assert.True(t, c.ResetIfUnchanged(epoch))

		ok := c.SetIfUnchanged(session.Session{Token: "T2"}, epoch)

		assert.False(t, ok)
		assert.False(t, c.Current().Authenticated())
	})

	t.Run("stale 401 cannot clobber a newer login", func(t *testing.T) {
		c := session.NewContainer()
		c.Set(session.Session{Token: "T1"})
		_, epoch := c.Snapshot()

		c.Set(session.Session{Token: "T2"})

		assert.False(t, c.ResetIfUnchanged(epoch))
		assert.Equal(t, "T2", c.Current().Token)
	})
}

func TestContainer_Subscribe(t *testing.T) {
	c := session.NewContainer()

	var seen []string
	c.Subscribe(func(s session.Session) {
		seen = append(seen, s.Token)
	})

	c.Set(session.Session{Token: "T1"})
	c.Reset()

	assert.Equal(t, []string{"T1", ""}, seen)
}

func TestContainer_RolesAreCopied(t *testing.T) {
	c := session.NewContainer()
	roles := []session.Role{session.RoleUser}
	c.Set(session.Session{Token: "T1", Roles: roles})

	roles[0] = session.RoleAdmin

	assert.False(t, c.Current().HasRole(session.RoleAdmin))
}
