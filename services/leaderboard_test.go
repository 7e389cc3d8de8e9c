package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyTopOrdersByPoints(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")

	alice := seedUser(t, db, company.ID, "alice")
	alice.TotalPoints = 300
	require.NoError(t, db.Save(&alice).Error)

	bob := seedUser(t, db, company.ID, "bob")
	bob.TotalPoints = 500
	require.NoError(t, db.Save(&bob).Error)

	carol := seedUser(t, db, company.ID, "carol")
	carol.TotalPoints = 300
	require.NoError(t, db.Save(&carol).Error)

	svc := NewUncachedLeaderboardService(db, 10)
	entries, err := svc.CompanyTop(company.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "bob", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	// Ties resolve by id, so alice comes before carol.
	assert.Equal(t, "alice", entries[1].Username)
	assert.Equal(t, "carol", entries[2].Username)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestCompanyTopExcludesInactiveAndForeignUsers(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	other := seedCompany(t, db, "globex")

	active := seedUser(t, db, company.ID, "alice")
	active.TotalPoints = 10
	require.NoError(t, db.Save(&active).Error)

	inactive := seedUser(t, db, company.ID, "bob")
	inactive.IsActive = false
	inactive.TotalPoints = 1000
	require.NoError(t, db.Save(&inactive).Error)

	foreign := seedUser(t, db, other.ID, "carol")
	foreign.TotalPoints = 1000
	require.NoError(t, db.Save(&foreign).Error)

	svc := NewUncachedLeaderboardService(db, 10)
	entries, err := svc.CompanyTop(company.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Username)
}

func TestCompanyTopRespectsSizeLimit(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		seedUser(t, db, company.ID, name)
	}

	svc := NewUncachedLeaderboardService(db, 3)
	entries, err := svc.CompanyTop(company.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
