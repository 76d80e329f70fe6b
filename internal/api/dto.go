package api

import (
	"time"

	"github.com/lushplayer/catalogue/internal/models"
)

// ErrorResponse is the envelope for error replies
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ProgrammeDTO is the wire form of a programme
type ProgrammeDTO struct {
	ID           string   `json:"id"`
	GUID         string   `json:"guid,omitempty"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	FileURL      string   `json:"file_url,omitempty"`
	WebURL       string   `json:"web_url,omitempty"`
	Date         string   `json:"date,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Media        string   `json:"media"`
	Tags         []TagDTO `json:"tags,omitempty"`
}

// TagDTO is the wire form of a programme tag
type TagDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SearchResultDTO is the wire form of a search result
type SearchResultDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Media        string `json:"media"`
}

// ChannelDTO is the wire form of a channel
type ChannelDTO struct {
	Tag  string `json:"tag"`
	Name string `json:"name,omitempty"`
}

// EventDTO is the wire form of an event
type EventDTO struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    time.Time      `json:"end_date"`
	Programmes []ProgrammeDTO `json:"programmes,omitempty"`
}

// ProgrammeListResponse wraps a programme list with its origin
type ProgrammeListResponse struct {
	Programmes []ProgrammeDTO `json:"programmes"`
	Cached     bool           `json:"cached"`
}

// LiveResponse reports the live playlist state
type LiveResponse struct {
	Status     string `json:"status"` // live or off_air
	PlaylistID string `json:"playlist_id,omitempty"`
	PolicyKey  string `json:"policy_key,omitempty"`
}

// LiveNowResponse reports the currently airing window
type LiveNowResponse struct {
	Status        string      `json:"status"` // on_air or off_air
	Start         *time.Time  `json:"start,omitempty"`
	End           *time.Time  `json:"end,omitempty"`
	OffsetSeconds *int64      `json:"offset_seconds,omitempty"`
	PolicyKey     string      `json:"policy_key,omitempty"`
	Video         interface{} `json:"video,omitempty"`
}

func toProgrammeDTO(p models.Programme) ProgrammeDTO {
	dto := ProgrammeDTO{
		ID:          p.ID,
		GUID:        p.GUID,
		Title:       p.Title,
		Description: p.Description,
		Date:        p.DateString,
		Duration:    p.Duration,
		Media:       p.Media.String(),
	}
	if p.ThumbnailURL != nil {
		dto.ThumbnailURL = p.ThumbnailURL.String()
	}
	if p.File != nil {
		dto.FileURL = p.File.String()
	}
	if web := p.WebURL(); web != nil {
		dto.WebURL = web.String()
	}
	for _, tag := range p.Tags {
		dto.Tags = append(dto.Tags, TagDTO{Name: tag.Name, Value: tag.Value})
	}
	return dto
}

func toProgrammeDTOs(programmes []models.Programme) []ProgrammeDTO {
	dtos := make([]ProgrammeDTO, 0, len(programmes))
	for _, p := range programmes {
		dtos = append(dtos, toProgrammeDTO(p))
	}
	return dtos
}

func toSearchResultDTOs(results []models.SearchResult) []SearchResultDTO {
	dtos := make([]SearchResultDTO, 0, len(results))
	for _, r := range results {
		dto := SearchResultDTO{ID: r.ID, Title: r.Title, Media: r.Media.String()}
		if r.ThumbnailURL != nil {
			dto.ThumbnailURL = r.ThumbnailURL.String()
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func toChannelDTOs(channels []models.Channel) []ChannelDTO {
	dtos := make([]ChannelDTO, 0, len(channels))
	for _, c := range channels {
		dtos = append(dtos, ChannelDTO{Tag: c.Tag, Name: c.Name})
	}
	return dtos
}

func toEventDTO(e models.Event) EventDTO {
	return EventDTO{
		ID:         e.ID,
		Title:      e.Title,
		StartDate:  e.StartDate,
		EndDate:    e.EndDate,
		Programmes: toProgrammeDTOs(e.Programmes),
	}
}
