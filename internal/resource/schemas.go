// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/churchcms/internal/form"
	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/store"
)

// Announcement kinds.
const (
	KindSermon  = "sermon"
	KindEvent   = "event"
	KindGallery = "gallery"
)

// Kinds of content that are never announced.
const (
	KindCedGroup     = "ced_group"
	KindChoir        = "choir"
	KindNotification = "notification"
)

// FormatDate renders an ISO date with layout, or returns it unchanged when
// it does not parse.
func FormatDate(iso, layout string) string {
	t, err := time.Parse(model.ISODateLayout, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return t.Format(layout)
}

// ShortDateLayout is used in sermon announcements ("Mar 1, 2025").
const ShortDateLayout = "Jan 2, 2006"

// SermonAnnouncement formats the notification for a new sermon.
func SermonAnnouncement(s store.Sermon) *Announcement {
	return &Announcement{
		Kind:    KindSermon,
		Title:   "New sermon",
		Message: fmt.Sprintf("New sermon: \"%s\" by %s (%s)", s.Title, s.Pastor, FormatDate(s.DatePreached, ShortDateLayout)),
		URL:     "/sermons/" + strconv.FormatInt(s.ID, 10),
	}
}

// EventAnnouncement formats the notification for a new event.
func EventAnnouncement(e store.Event) *Announcement {
	msg := fmt.Sprintf("New event: \"%s\" on %s", e.Title, FormatDate(e.EventDate, model.DisplayDateLayout))
	if loc := strings.TrimSpace(e.Location); loc != "" {
		msg += " at " + loc
	}
	return &Announcement{
		Kind:    KindEvent,
		Title:   "New event",
		Message: msg,
		URL:     "/events/" + strconv.FormatInt(e.ID, 10),
	}
}

// GalleryAnnouncement formats the notification for a new gallery photo.
func GalleryAnnouncement(g store.GalleryImage) *Announcement {
	return &Announcement{
		Kind:    KindGallery,
		Title:   "New photo",
		Message: fmt.Sprintf("New photo in the gallery: \"%s\"", g.Title),
		URL:     "/gallery",
	}
}

func todayDraft(field string) func() *form.Draft {
	return func() *form.Draft {
		d := form.NewDraft()
		d.Set(field, time.Now().Format(model.ISODateLayout))
		return d
	}
}

// Sermons describes sermon recordings.
func Sermons() *Schema[store.Sermon] {
	return &Schema[store.Sermon]{
		Name: "sermons", Singular: "Sermon", Plural: "Sermons", Kind: KindSermon,
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.KindText, Required: true, Rule: "max=200"},
			{Name: "pastor", Label: "Pastor", Kind: form.KindText, Required: true, Rule: "max=120"},
			{Name: "youtube_url", Label: "YouTube URL", Kind: form.KindURL, Required: true, Rule: "url", Placeholder: "https://www.youtube.com/watch?v=..."},
			{Name: "duration", Label: "Duration", Kind: form.KindText, Placeholder: "45 min", Rule: "max=40"},
			{Name: "category", Label: "Category", Kind: form.KindSelect, Required: true, Options: model.SermonCategories},
			{Name: "date_preached", Label: "Date preached", Kind: form.KindDate, Required: true},
		},
		Columns: []Column[store.Sermon]{
			{Label: "Title", Sort: "title", Value: func(s store.Sermon) string { return s.Title }},
			{Label: "Pastor", Sort: "pastor", Value: func(s store.Sermon) string { return s.Pastor }},
			{Label: "Category", Value: func(s store.Sermon) string { return s.Category }},
			{Label: "Date", Sort: "date_preached", Value: func(s store.Sermon) string {
				return FormatDate(s.DatePreached, model.DisplayDateLayout)
			}},
		},
		SortColumns:     []string{"date_preached", "created_at", "title", "pastor"},
		DefaultOrder:    Order{Column: "date_preached"},
		SearchText:      func(s store.Sermon) []string { return []string{s.Title, s.Pastor, s.Category} },
		Category:        func(s store.Sermon) string { return s.Category },
		CategoryOptions: model.SermonCategories,
		ID:              func(s store.Sermon) int64 { return s.ID },
		Label:           func(s store.Sermon) string { return s.Title },
		Encode: func(s store.Sermon) *form.Draft {
			d := form.NewDraft()
			d.Set("title", s.Title)
			d.Set("pastor", s.Pastor)
			d.Set("youtube_url", s.YoutubeURL)
			d.Set("duration", s.Duration)
			d.Set("category", s.Category)
			d.Set("date_preached", s.DatePreached)
			return d
		},
		Decode: func(d *form.Draft, s store.Sermon) store.Sermon {
			s.Title = d.Trimmed("title")
			s.Pastor = d.Trimmed("pastor")
			s.YoutubeURL = d.Trimmed("youtube_url")
			s.Duration = d.Trimmed("duration")
			s.Category = d.Trimmed("category")
			s.DatePreached = d.Trimmed("date_preached")
			return s
		},
		Announce: SermonAnnouncement,
		Defaults: todayDraft("date_preached"),
	}
}

// Events describes church events.
func Events() *Schema[store.Event] {
	return &Schema[store.Event]{
		Name: "events", Singular: "Event", Plural: "Events", Kind: KindEvent,
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.KindText, Required: true, Rule: "max=200"},
			{Name: "description", Label: "Description", Kind: form.KindMarkdown, Help: "Markdown is supported."},
			{Name: "event_date", Label: "Date", Kind: form.KindDate, Required: true},
			{Name: "event_time", Label: "Time", Kind: form.KindTime, Placeholder: "18:30"},
			{Name: "location", Label: "Location", Kind: form.KindText, Rule: "max=200"},
			{Name: "category", Label: "Category", Kind: form.KindSelect, Required: true, Options: model.EventCategories},
			{Name: "image_url", Label: "Image", Kind: form.KindImage},
		},
		Columns: []Column[store.Event]{
			{Label: "Title", Sort: "title", Value: func(e store.Event) string { return e.Title }},
			{Label: "Date", Sort: "event_date", Value: func(e store.Event) string {
				return FormatDate(e.EventDate, model.DisplayDateLayout)
			}},
			{Label: "Time", Value: func(e store.Event) string { return e.EventTime }},
			{Label: "Location", Value: func(e store.Event) string { return e.Location }},
			{Label: "Category", Sort: "category", Value: func(e store.Event) string { return e.Category }},
		},
		SortColumns:     []string{"event_date", "created_at", "title", "category"},
		DefaultOrder:    Order{Column: "event_date", Ascending: true},
		SearchText:      func(e store.Event) []string { return []string{e.Title, e.Description, e.Location, e.Category} },
		Category:        func(e store.Event) string { return e.Category },
		CategoryOptions: model.EventCategories,
		ID:              func(e store.Event) int64 { return e.ID },
		Label:           func(e store.Event) string { return e.Title },
		Encode: func(e store.Event) *form.Draft {
			d := form.NewDraft()
			d.Set("title", e.Title)
			d.Set("description", e.Description)
			d.Set("event_date", e.EventDate)
			d.Set("event_time", e.EventTime)
			d.Set("location", e.Location)
			d.Set("category", e.Category)
			d.Set("image_url", e.ImageURL)
			return d
		},
		Decode: func(d *form.Draft, e store.Event) store.Event {
			e.Title = d.Trimmed("title")
			e.Description = d.Trimmed("description")
			e.EventDate = d.Trimmed("event_date")
			e.EventTime = d.Trimmed("event_time")
			e.Location = d.Trimmed("location")
			e.Category = d.Trimmed("category")
			e.ImageURL = d.Trimmed("image_url")
			return e
		},
		Announce: EventAnnouncement,
		Defaults: todayDraft("event_date"),
	}
}

// Gallery describes gallery photos.
func Gallery() *Schema[store.GalleryImage] {
	return &Schema[store.GalleryImage]{
		Name: "gallery", Singular: "Photo", Plural: "Gallery", Kind: KindGallery,
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.KindText, Required: true, Rule: "max=200"},
			{Name: "image_url", Label: "Image", Kind: form.KindImage, Required: true},
			{Name: "category", Label: "Category", Kind: form.KindSelect, Required: true, Options: model.GalleryCategories},
			{Name: "event_date", Label: "Event date", Kind: form.KindDate},
			{Name: "comment", Label: "Comment", Kind: form.KindTextarea, Rule: "max=1000"},
		},
		Columns: []Column[store.GalleryImage]{
			{Label: "Title", Sort: "title", Value: func(g store.GalleryImage) string { return g.Title }},
			{Label: "Category", Sort: "category", Value: func(g store.GalleryImage) string { return g.Category }},
			{Label: "Event date", Sort: "event_date", Value: func(g store.GalleryImage) string {
				return FormatDate(g.EventDate, model.DisplayDateLayout)
			}},
		},
		SortColumns:     []string{"created_at", "event_date", "title", "category"},
		DefaultOrder:    Order{Column: "created_at"},
		SearchText:      func(g store.GalleryImage) []string { return []string{g.Title, g.Comment, g.Category} },
		Category:        func(g store.GalleryImage) string { return g.Category },
		CategoryOptions: model.GalleryCategories,
		ID:              func(g store.GalleryImage) int64 { return g.ID },
		Label:           func(g store.GalleryImage) string { return g.Title },
		Encode: func(g store.GalleryImage) *form.Draft {
			d := form.NewDraft()
			d.Set("title", g.Title)
			d.Set("image_url", g.ImageURL)
			d.Set("category", g.Category)
			d.Set("event_date", g.EventDate)
			d.Set("comment", g.Comment)
			return d
		},
		Decode: func(d *form.Draft, g store.GalleryImage) store.GalleryImage {
			g.Title = d.Trimmed("title")
			g.ImageURL = d.Trimmed("image_url")
			g.Category = d.Trimmed("category")
			g.EventDate = d.Trimmed("event_date")
			g.Comment = d.Trimmed("comment")
			return g
		},
		Announce: GalleryAnnouncement,
	}
}

// CedGroups describes departments.
func CedGroups() *Schema[store.CedGroup] {
	return &Schema[store.CedGroup]{
		Name: "ced-groups", Singular: "Department", Plural: "Departments", Kind: KindCedGroup,
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.KindText, Required: true, Rule: "max=120"},
			{Name: "description", Label: "Description", Kind: form.KindMarkdown},
			{Name: "leader_name", Label: "Leader", Kind: form.KindText, Rule: "max=120"},
			{Name: "leader_phone", Label: "Leader phone", Kind: form.KindPhone, Rule: "max=40"},
			{Name: "leader_image_url", Label: "Leader photo", Kind: form.KindImage},
			{Name: "meeting_day", Label: "Meeting day", Kind: form.KindSelect, Options: model.WeekDays},
			{Name: "group_song", Label: "Group song", Kind: form.KindText, Rule: "max=200"},
			{Name: "mission", Label: "Mission", Kind: form.KindMarkdown},
			{Name: "vision", Label: "Vision", Kind: form.KindMarkdown},
			{Name: "image_url", Label: "Image", Kind: form.KindImage},
		},
		Columns: []Column[store.CedGroup]{
			{Label: "Name", Sort: "name", Value: func(g store.CedGroup) string { return g.Name }},
			{Label: "Leader", Value: func(g store.CedGroup) string { return g.LeaderName }},
			{Label: "Meets", Sort: "meeting_day", Value: func(g store.CedGroup) string { return g.MeetingDay }},
		},
		SortColumns:  []string{"name", "created_at", "meeting_day"},
		DefaultOrder: Order{Column: "name", Ascending: true},
		SearchText: func(g store.CedGroup) []string {
			return []string{g.Name, g.Description, g.LeaderName, g.Mission, g.Vision}
		},
		ID:    func(g store.CedGroup) int64 { return g.ID },
		Label: func(g store.CedGroup) string { return g.Name },
		Encode: func(g store.CedGroup) *form.Draft {
			d := form.NewDraft()
			d.Set("name", g.Name)
			d.Set("description", g.Description)
			d.Set("leader_name", g.LeaderName)
			d.Set("leader_phone", g.LeaderPhone)
			d.Set("leader_image_url", g.LeaderImageURL)
			d.Set("meeting_day", g.MeetingDay)
			d.Set("group_song", g.GroupSong)
			d.Set("mission", g.Mission)
			d.Set("vision", g.Vision)
			d.Set("image_url", g.ImageURL)
			return d
		},
		Decode: func(d *form.Draft, g store.CedGroup) store.CedGroup {
			g.Name = d.Trimmed("name")
			g.Description = d.Trimmed("description")
			g.LeaderName = d.Trimmed("leader_name")
			g.LeaderPhone = d.Trimmed("leader_phone")
			g.LeaderImageURL = d.Trimmed("leader_image_url")
			g.MeetingDay = d.Trimmed("meeting_day")
			g.GroupSong = d.Trimmed("group_song")
			g.Mission = d.Trimmed("mission")
			g.Vision = d.Trimmed("vision")
			g.ImageURL = d.Trimmed("image_url")
			return g
		},
	}
}

// Choirs describes choirs and their video lists.
func Choirs() *Schema[store.Choir] {
	return &Schema[store.Choir]{
		Name: "choirs", Singular: "Choir", Plural: "Choirs", Kind: KindChoir,
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.KindText, Required: true, Rule: "max=120"},
			{Name: "description", Label: "Description", Kind: form.KindMarkdown},
			{Name: "leader_name", Label: "Leader", Kind: form.KindText, Rule: "max=120"},
			{Name: "leader_phone", Label: "Leader phone", Kind: form.KindPhone, Rule: "max=40"},
			{Name: "leader_image_url", Label: "Leader photo", Kind: form.KindImage},
			{Name: "image_url", Label: "Image", Kind: form.KindImage},
			{Name: "youtube_videos", Label: "YouTube videos", Kind: form.KindList, Placeholder: "https://youtu.be/..."},
			{Name: "meeting_day", Label: "Rehearsal day", Kind: form.KindSelect, Options: model.WeekDays},
			{Name: "meeting_time", Label: "Rehearsal time", Kind: form.KindTime},
			{Name: "is_active", Label: "Active", Kind: form.KindCheckbox},
		},
		Columns: []Column[store.Choir]{
			{Label: "Name", Sort: "name", Value: func(c store.Choir) string { return c.Name }},
			{Label: "Leader", Value: func(c store.Choir) string { return c.LeaderName }},
			{Label: "Videos", Value: func(c store.Choir) string { return strconv.Itoa(len(c.YoutubeVideos)) }},
			{Label: "Status", Value: func(c store.Choir) string {
				if c.IsActive {
					return "Active"
				}
				return "Inactive"
			}},
		},
		SortColumns:  []string{"name", "created_at", "meeting_day"},
		DefaultOrder: Order{Column: "name", Ascending: true},
		SearchText:   func(c store.Choir) []string { return []string{c.Name, c.Description, c.LeaderName} },
		ID:           func(c store.Choir) int64 { return c.ID },
		Label:        func(c store.Choir) string { return c.Name },
		Encode: func(c store.Choir) *form.Draft {
			d := form.NewDraft()
			d.Set("name", c.Name)
			d.Set("description", c.Description)
			d.Set("leader_name", c.LeaderName)
			d.Set("leader_phone", c.LeaderPhone)
			d.Set("leader_image_url", c.LeaderImageURL)
			d.Set("image_url", c.ImageURL)
			d.SetValues("youtube_videos", c.YoutubeVideos)
			d.Set("meeting_day", c.MeetingDay)
			d.Set("meeting_time", c.MeetingTime)
			d.SetBool("is_active", c.IsActive)
			return d
		},
		Decode: func(d *form.Draft, c store.Choir) store.Choir {
			c.Name = d.Trimmed("name")
			c.Description = d.Trimmed("description")
			c.LeaderName = d.Trimmed("leader_name")
			c.LeaderPhone = d.Trimmed("leader_phone")
			c.LeaderImageURL = d.Trimmed("leader_image_url")
			c.ImageURL = d.Trimmed("image_url")
			c.YoutubeVideos = store.StringList(form.NewListField(d.Values("youtube_videos")).Compact())
			c.MeetingDay = d.Trimmed("meeting_day")
			c.MeetingTime = d.Trimmed("meeting_time")
			c.IsActive = d.Bool("is_active")
			return c
		},
		Defaults: func() *form.Draft {
			d := form.NewDraft()
			d.SetValues("youtube_videos", []string{""})
			d.SetBool("is_active", true)
			return d
		},
	}
}

// Notifications describes the announcements shown under the header bell.
// ttl sets the default expiry of a new notification.
func Notifications(ttl time.Duration) *Schema[store.Notification] {
	return &Schema[store.Notification]{
		Name: "notifications", Singular: "Notification", Plural: "Notifications", Kind: KindNotification,
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.KindText, Required: true, Rule: "max=200"},
			{Name: "message", Label: "Message", Kind: form.KindTextarea, Required: true, Rule: "max=1000"},
			{Name: "type", Label: "Type", Kind: form.KindSelect, Required: true, Options: model.NotificationTypes},
			{Name: "expires_at", Label: "Expires on", Kind: form.KindDate, Help: "Leave blank to keep it until deactivated."},
			{Name: "is_active", Label: "Active", Kind: form.KindCheckbox},
		},
		Columns: []Column[store.Notification]{
			{Label: "Title", Sort: "title", Value: func(n store.Notification) string { return n.Title }},
			{Label: "Type", Sort: "type", Value: func(n store.Notification) string { return n.Type }},
			{Label: "Active", Value: func(n store.Notification) string {
				if n.IsActive {
					return "Yes"
				}
				return "No"
			}},
			{Label: "Expires", Sort: "expires_at", Value: func(n store.Notification) string {
				if !n.ExpiresAt.Valid {
					return "Never"
				}
				return n.ExpiresAt.Time.Format(model.DisplayDateLayout)
			}},
		},
		SortColumns:     []string{"created_at", "expires_at", "title", "type"},
		DefaultOrder:    Order{Column: "created_at"},
		SearchText:      func(n store.Notification) []string { return []string{n.Title, n.Message} },
		Category:        func(n store.Notification) string { return n.Type },
		CategoryOptions: model.NotificationTypes,
		ID:              func(n store.Notification) int64 { return n.ID },
		Label:           func(n store.Notification) string { return n.Title },
		Encode: func(n store.Notification) *form.Draft {
			d := form.NewDraft()
			d.Set("title", n.Title)
			d.Set("message", n.Message)
			d.Set("type", n.Type)
			if n.ExpiresAt.Valid {
				d.Set("expires_at", n.ExpiresAt.Time.Format(model.ISODateLayout))
			} else {
				d.Set("expires_at", "")
			}
			d.SetBool("is_active", n.IsActive)
			return d
		},
		Decode: func(d *form.Draft, n store.Notification) store.Notification {
			n.Title = d.Trimmed("title")
			n.Message = d.Trimmed("message")
			n.Type = d.Trimmed("type")
			n.IsActive = d.Bool("is_active")
			n.ExpiresAt = endOfDay(d.Trimmed("expires_at"))
			return n
		},
		Defaults: func() *form.Draft {
			d := form.NewDraft()
			d.Set("type", model.NotificationInfo)
			d.Set("expires_at", time.Now().Add(ttl).Format(model.ISODateLayout))
			d.SetBool("is_active", true)
			return d
		},
	}
}

// endOfDay turns an ISO date into the last second of that day in UTC.
func endOfDay(iso string) sql.NullTime {
	t, err := time.Parse(model.ISODateLayout, iso)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.Add(24*time.Hour - time.Second).UTC(), Valid: true}
}
