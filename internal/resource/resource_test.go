// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchcms/internal/form"
	"github.com/olegiv/churchcms/internal/listview"
	"github.com/olegiv/churchcms/internal/store"
	"github.com/olegiv/churchcms/internal/testutil"
)

func TestRepository_CreateGetRoundTrip(t *testing.T) {
	_, q := testutil.TestQueries(t)
	ctx := context.Background()
	repo := NewSermons(q)

	created, err := repo.Create(ctx, store.Sermon{
		Title: "Walking in Faith", Pastor: "Pastor John", YoutubeURL: "https://youtu.be/dQw4w9WgXcQ",
		Duration: "45 min", Category: "Sunday Service", DatePreached: "2025-02-23",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Walking in Faith", got.Title)
	assert.Equal(t, "2025-02-23", got.DatePreached)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRepository_UpdateKeepsCreatedAt(t *testing.T) {
	_, q := testutil.TestQueries(t)
	ctx := context.Background()
	repo := NewEvents(q)

	e, err := repo.Create(ctx, store.Event{Title: "Prayer Night", EventDate: "2025-04-10", Category: "Prayer"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Update(ctx, e.ID, store.Event{Title: "Prayer & Worship Night", EventDate: "2025-04-11", Category: "Worship"}))

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Prayer & Worship Night", got.Title)
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt))
	assert.True(t, got.UpdatedAt.After(e.UpdatedAt))

	assert.ErrorIs(t, repo.Update(ctx, 9999, got), store.ErrNotFound)
}

func TestRepository_DeleteIdempotent(t *testing.T) {
	_, q := testutil.TestQueries(t)
	ctx := context.Background()
	repo := NewGallery(q)

	g, err := repo.Create(ctx, store.GalleryImage{Title: "Baptism", ImageURL: "/uploads/gallery/b.jpg", Category: "Worship"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, g.ID))
	require.NoError(t, repo.Delete(ctx, g.ID))
	_, err = repo.Get(ctx, g.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_ChoirVideosKeepOrder(t *testing.T) {
	_, q := testutil.TestQueries(t)
	ctx := context.Background()
	repo := NewChoirs(q)
	schema := Choirs()

	d := form.NewDraft()
	d.Set("name", "Grace Choir")
	d.SetValues("youtube_videos", []string{"https://youtu.be/bbbbbbbbbbb", "", "https://youtu.be/aaaaaaaaaaa"})
	d.SetBool("is_active", true)

	c, err := repo.Create(ctx, schema.Decode(d, store.Choir{}))
	require.NoError(t, err)

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StringList{"https://youtu.be/bbbbbbbbbbb", "https://youtu.be/aaaaaaaaaaa"}, got.YoutubeVideos)
	assert.True(t, got.IsActive)

	rows := schema.EditForm(got).List("youtube_videos").Rows()
	assert.Len(t, rows, 2)

	empty, err := repo.Create(ctx, store.Choir{Name: "Youth Choir"})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, schema.EditForm(empty).List("youtube_videos").Rows(), "editor shows one blank row")
}

func TestSchema_OrderFor(t *testing.T) {
	s := Events()
	assert.Equal(t, Order{Column: "event_date", Ascending: true}, s.OrderFor(listview.State{}))
	assert.Equal(t, Order{Column: "title", Ascending: false}, s.OrderFor(listview.State{Sort: "title"}))
	assert.Equal(t, s.DefaultOrder, s.OrderFor(listview.State{Sort: "id; DROP TABLE events"}))
}

func TestSchema_FilterAndRows(t *testing.T) {
	s := Sermons()
	items := []store.Sermon{
		{ID: 1, Title: "Walking in Faith", Pastor: "Pastor John", Category: "Sunday Service", DatePreached: "2025-03-02"},
		{ID: 2, Title: "Youth on Fire", Pastor: "Pastor Grace", Category: "Youth Service", DatePreached: "2025-03-07"},
	}

	got := s.Filter(items, listview.State{Category: "youth service"})
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, got[0].ID)

	rows := s.Rows(items)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Walking in Faith", "Pastor John", "Sunday Service", "March 2, 2025"}, rows[0].Cells)
	assert.True(t, s.HasCategory())
	assert.False(t, CedGroups().HasCategory())
}

func TestSchemas_EncodeDecode(t *testing.T) {
	e := store.Event{Title: "Youth Night", EventDate: "2025-03-01", EventTime: "18:00", Location: "Main Hall", Category: "Youth Event"}
	s := Events()
	ctrl := s.EditForm(e)
	assert.True(t, ctrl.CanSubmit())
	assert.True(t, ctrl.Validate(), "errors: %v", ctrl.Errors())
	assert.Equal(t, e, s.Decode(ctrl.Draft(), store.Event{}))

	n := Notifications(14 * 24 * time.Hour)
	nf := n.NewForm()
	assert.Equal(t, "info", nf.Value("type"))
	assert.True(t, nf.Draft().Bool("is_active"))

	nf.Draft().Set("title", "Choir rehearsal moved")
	nf.Draft().Set("message", "Thursday instead of Wednesday")
	nf.Draft().Set("expires_at", "2025-03-01")
	decoded := n.Decode(nf.Draft(), store.Notification{})
	require.True(t, decoded.ExpiresAt.Valid)
	assert.Equal(t, "2025-03-01 23:59:59", decoded.ExpiresAt.Time.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2025-03-01", n.Encode(decoded).Get("expires_at"))

	nf.Draft().Set("expires_at", "")
	assert.False(t, n.Decode(nf.Draft(), store.Notification{}).ExpiresAt.Valid)
}

func TestAnnouncements(t *testing.T) {
	ev := EventAnnouncement(store.Event{ID: 4, Title: "Youth Night", EventDate: "2025-03-01", Location: "Main Hall"})
	assert.Equal(t, `New event: "Youth Night" on March 1, 2025 at Main Hall`, ev.Message)
	assert.Equal(t, "/events/4", ev.URL)

	ev = EventAnnouncement(store.Event{Title: "Youth Night", EventDate: "2025-03-01"})
	assert.Equal(t, `New event: "Youth Night" on March 1, 2025`, ev.Message)

	sm := SermonAnnouncement(store.Sermon{Title: "Grace", Pastor: "Pastor John", DatePreached: "2025-02-23"})
	assert.Equal(t, `New sermon: "Grace" by Pastor John (Feb 23, 2025)`, sm.Message)

	g := GalleryAnnouncement(store.GalleryImage{Title: "Easter Sunday"})
	assert.Equal(t, `New photo in the gallery: "Easter Sunday"`, g.Message)

	assert.Equal(t, "someday", FormatDate("someday", ShortDateLayout))
}
