package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lushplayer/catalogue/internal/errors"
	"github.com/lushplayer/catalogue/internal/models"
	"github.com/lushplayer/catalogue/internal/schedule"
)

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listProgrammes serves the programme list for a media type, cache-first.
// refresh=true forces a network fetch.
func (s *Server) listProgrammes(c *gin.Context) {
	media, err := models.DecodeMedia(c.Query("media"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "media must be tv or radio"})
		return
	}

	if c.Query("refresh") != "true" {
		if cached, ok := s.service.Cache().ProgrammesByMedia(media); ok {
			c.JSON(http.StatusOK, ProgrammeListResponse{Programmes: toProgrammeDTOs(cached), Cached: true})
			return
		}
	}

	programmes, err := s.service.FetchProgrammes(c.Request.Context(), media)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProgrammeListResponse{Programmes: toProgrammeDTOs(programmes)})
}

func (s *Server) programmeDetail(c *gin.Context) {
	detail, err := s.service.FetchDetails(c.Request.Context(), models.Programme{ID: c.Param("id")})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProgrammeDTO(detail))
}

func (s *Server) listChannels(c *gin.Context) {
	channels, err := s.service.FetchChannels(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChannelDTOs(channels))
}

func (s *Server) channelProgrammes(c *gin.Context) {
	channel := models.Channel{Tag: c.Param("tag")}

	var media *models.Media
	if raw := c.Query("media"); raw != "" {
		m, err := models.DecodeMedia(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "media must be tv or radio"})
			return
		}
		media = &m
	}

	if c.Query("refresh") != "true" {
		if cached, ok := s.service.Cache().ProgrammesByChannel(channel.Tag); ok {
			c.JSON(http.StatusOK, ProgrammeListResponse{Programmes: toProgrammeDTOs(cached), Cached: true})
			return
		}
	}

	programmes, err := s.service.FetchProgrammesByChannel(c.Request.Context(), channel, media)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProgrammeListResponse{Programmes: toProgrammeDTOs(programmes)})
}

func (s *Server) tagProgrammes(c *gin.Context) {
	programmes, err := s.service.FetchProgrammesByTag(c.Request.Context(), c.Param("value"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProgrammeListResponse{Programmes: toProgrammeDTOs(programmes)})
}

func (s *Server) search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "q is required"})
		return
	}

	results, err := s.service.Search(c.Request.Context(), term)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSearchResultDTOs(results))
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.service.FetchEvents(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, toEventDTO(event))
	}
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) eventProgrammes(c *gin.Context) {
	event := models.Event{ID: c.Param("id")}

	programmes, err := s.service.FetchEventProgrammes(c.Request.Context(), event)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEventDTO(event.WithProgrammes(programmes)))
}

// livePlaylist reports the current live playlist ID. The off-air state is a
// normal reply, not an error.
func (s *Server) livePlaylist(c *gin.Context) {
	playlistID, err := s.service.FetchLivePlaylist(c.Request.Context())
	if err != nil {
		if apperrors.IsEmptyResponse(err) {
			c.JSON(http.StatusOK, LiveResponse{Status: "off_air"})
			return
		}
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LiveResponse{
		Status:     "live",
		PlaylistID: playlistID,
		PolicyKey:  s.service.PolicyKey(),
	})
}

// liveNow resolves the live playlist against the playback catalogue,
// derives today's schedule and reports the currently airing window with the
// seek offset.
func (s *Server) liveNow(c *gin.Context) {
	if s.playback == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "live schedule resolution is not configured"})
		return
	}

	ctx := c.Request.Context()

	playlistID, err := s.service.FetchLivePlaylist(ctx)
	if err != nil {
		if apperrors.IsEmptyResponse(err) {
			c.JSON(http.StatusOK, LiveNowResponse{Status: "off_air"})
			return
		}
		s.respondError(c, err)
		return
	}

	raw, err := s.playback.ResolvePlaylist(ctx, playlistID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	now := time.Now()
	entries := schedule.Build(raw, now)

	position, onAir := schedule.CurrentPosition(entries, now)
	if !onAir {
		c.JSON(http.StatusOK, LiveNowResponse{Status: "off_air"})
		return
	}

	offset := int64(position.Offset / time.Second)
	c.JSON(http.StatusOK, LiveNowResponse{
		Status:        "on_air",
		Start:         &position.Entry.Start,
		End:           &position.Entry.End,
		OffsetSeconds: &offset,
		PolicyKey:     s.service.PolicyKey(),
		Video:         position.Entry.Ref,
	})
}

// respondError maps catalogue error codes onto HTTP statuses
func (s *Server) respondError(c *gin.Context, err error) {
	code := apperrors.GetErrorCode(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeValidation, apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeTransport, apperrors.CodeInvalidStatus, apperrors.CodeInvalidResponse:
		status = http.StatusBadGateway
	}

	s.logger.ErrorContext(c.Request.Context(), "request failed", err)
	c.JSON(status, ErrorResponse{Error: string(code), Message: err.Error()})
}
