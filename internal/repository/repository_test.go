package repository

import (
	"testing"
	"time"

	"zamar-backend/internal/model"
	"zamar-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReferrerChain(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)

	a := testutil.CreateUser(t, db, "a@example.com", model.RoleListener, nil)
	b := testutil.CreateUser(t, db, "b@example.com", model.RoleListener, &a.ID)
	c := testutil.CreateUser(t, db, "c@example.com", model.RoleListener, &b.ID)
	d := testutil.CreateUser(t, db, "d@example.com", model.RoleListener, &c.ID)

	chain, err := users.ReferrerChain(d.ID, 2)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, c.ID, chain[0].ID)
	assert.Equal(t, b.ID, chain[1].ID)

	chain, err = users.ReferrerChain(a.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, chain)

	_, err = users.ReferrerChain(9999, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReferrerChain_StopsOnCycle(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)

	a := testutil.CreateUser(t, db, "a@example.com", model.RoleListener, nil)
	b := testutil.CreateUser(t, db, "b@example.com", model.RoleListener, &a.ID)
	require.NoError(t, db.Model(a).Update("referred_by_id", b.ID).Error)

	chain, err := users.ReferrerChain(b.ID, 5)
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, a.ID, chain[0].ID)
}

func TestRoleHasPermission(t *testing.T) {
	db := testutil.NewDB(t)
	roles := NewRoleRepository(db)

	ok, err := roles.HasPermission(model.RoleArtist, model.PermManageSongs)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = roles.HasPermission(model.RoleListener, model.PermManageSongs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSongList_FiltersAndPages(t *testing.T) {
	db := testutil.NewDB(t)
	songs := NewSongRepository(db)

	for _, s := range []model.Song{
		{Title: "Still Waters", Artist: "Zamar", Genre: "worship", IsPublished: true},
		{Title: "Morning Mercies", Artist: "Zamar", Genre: "worship", IsPublished: true},
		{Title: "Lamp", Artist: "Grace Choir", Genre: "gospel", IsPublished: true},
		{Title: "Draft", Artist: "Zamar", Genre: "worship"},
	} {
		s := s
		require.NoError(t, songs.Create(&s))
	}

	list, total, err := songs.List(SongFilter{PublishedOnly: true, Genre: "worship"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	list, total, err = songs.List(SongFilter{PublishedOnly: true, Search: "GRACE"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Lamp", list[0].Title)

	list, total, err = songs.List(SongFilter{Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, list, 1)

	genres, err := songs.Genres()
	require.NoError(t, err)
	assert.Equal(t, []string{"gospel", "worship"}, genres)
}

func TestSongRecordPlayAndFavorites(t *testing.T) {
	db := testutil.NewDB(t)
	songs := NewSongRepository(db)
	user := testutil.CreateUser(t, db, "ruth@example.com", model.RoleListener, nil)

	song := &model.Song{Title: "Still Waters", IsPublished: true}
	require.NoError(t, songs.Create(song))

	require.NoError(t, songs.RecordPlay(song.ID, user.ID))
	require.NoError(t, songs.RecordPlay(song.ID, user.ID))

	stored, err := songs.GetByID(song.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.PlayCount)

	history, err := songs.ListHistory(user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "Still Waters", history[0].Song.Title)

	require.NoError(t, songs.AddFavorite(user.ID, song.ID))
	require.NoError(t, songs.AddFavorite(user.ID, song.ID))
	favs, err := songs.ListFavorites(user.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	require.NoError(t, songs.RemoveFavorite(user.ID, song.ID))
	favs, err = songs.ListFavorites(user.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestPaymentRecordEvent(t *testing.T) {
	db := testutil.NewDB(t)
	payments := NewPaymentRepository(db)

	fresh, err := payments.RecordEvent(&model.WebhookEvent{EventID: "evt_1", Type: "checkout.session.completed"})
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = payments.RecordEvent(&model.WebhookEvent{EventID: "evt_1", Type: "checkout.session.completed"})
	require.NoError(t, err)
	assert.False(t, fresh)

	_, err = payments.FindBySessionID("cs_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEarningMarkPaid(t *testing.T) {
	db := testutil.NewDB(t)
	earnings := NewEarningRepository(db)

	require.NoError(t, earnings.CreateMany([]model.ReferralEarning{
		{EarnerID: 1, SourceUserID: 2, PaymentID: 1, Level: 1, RateBPS: 1000, AmountCents: 990, Status: model.EarningPending},
		{EarnerID: 1, SourceUserID: 3, PaymentID: 2, Level: 1, RateBPS: 1000, AmountCents: 490, Status: model.EarningPending},
	}))

	list, err := earnings.ListByEarner(1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	ok, err := earnings.MarkPaid(list[0].ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = earnings.MarkPaid(list[0].ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "already paid")

	totals, err := earnings.TotalsByEarner(1)
	require.NoError(t, err)
	assert.EqualValues(t, list[0].AmountCents, totals.PaidCents)
	assert.EqualValues(t, 990+490-list[0].AmountCents, totals.PendingCents)

	pending, err := earnings.SumPending()
	require.NoError(t, err)
	assert.Equal(t, totals.PendingCents, pending)
}

func TestExpirePendingOrders(t *testing.T) {
	db := testutil.NewDB(t)
	orders := NewOrderRepository(db)
	user := testutil.CreateUser(t, db, "ruth@example.com", model.RoleListener, nil)

	require.NoError(t, orders.Create(&model.CustomSongOrder{UserID: user.ID, Tier: "basic", Status: model.OrderPendingPayment}))
	require.NoError(t, orders.Create(&model.CustomSongOrder{UserID: user.ID, Tier: "basic", Status: model.OrderPaid}))

	n, err := orders.ExpirePending(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = orders.ExpirePending(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	counts, err := orders.CountByStatus()
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[model.OrderExpired])
	assert.EqualValues(t, 1, counts[model.OrderPaid])
}

func TestAdCampaignLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	ads := NewAdRepository(db)
	now := time.Now()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	pkg := &model.AdPackage{Name: "Banner Week", Placement: model.PlacementBanner, DurationDays: 7, PriceCents: 2500, IsActive: true}
	require.NoError(t, db.Create(pkg).Error)

	live := &model.AdCampaign{PackageID: pkg.ID, Title: "live", Placement: model.PlacementBanner, Status: model.CampaignActive, StartsAt: &start, EndsAt: &end}
	ended := &model.AdCampaign{PackageID: pkg.ID, Title: "ended", Placement: model.PlacementBanner, Status: model.CampaignActive, StartsAt: &start, EndsAt: &past}
	require.NoError(t, ads.CreateCampaign(live))
	require.NoError(t, ads.CreateCampaign(ended))

	active, err := ads.ListActive(model.PlacementBanner, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "live", active[0].Title)

	active, err = ads.ListActive(model.PlacementAudio, now)
	require.NoError(t, err)
	assert.Empty(t, active)

	counted, err := ads.IncrementImpressions(live.ID, now)
	require.NoError(t, err)
	assert.True(t, counted)
	counted, err = ads.IncrementImpressions(ended.ID, now)
	require.NoError(t, err)
	assert.False(t, counted, "ended campaigns are not counted")
	counted, err = ads.IncrementImpressions(4040, now)
	require.NoError(t, err)
	assert.False(t, counted)

	require.NoError(t, ads.IncrementClicks(live.ID))
	stored, err := ads.GetCampaign(live.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.Impressions)
	assert.EqualValues(t, 1, stored.Clicks)
	assert.Equal(t, "Banner Week", stored.Package.Name)

	n, err := ads.ExpireEnded(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	count, err := ads.CountActive(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
