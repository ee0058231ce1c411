package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scrumpoker/server/internal/domain"
	"github.com/scrumpoker/server/internal/service/room"
	"github.com/scrumpoker/server/pkg/rest"
)

// roomPayload is the snapshot shape shared by the REST and ws surfaces.
// Stats are omitted while no votes are cast.
func roomPayload(rm domain.Room) rest.Envelope {
	payload := rest.Envelope{"room": rm}
	if stats := domain.ComputeVoteStats(rm); stats != nil {
		payload["stats"] = stats
	}

	return payload
}

func (c controller) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
	case errors.Is(err, room.ErrRoomFull):
		rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"error": err.Error()})
	default:
		c.logger.ErrorContext(r.Context(), "internal error", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
	}
}

type createRoomRequest struct {
	Name           string `json:"name" validate:"required,max=64"`
	IsVotingMember bool   `json:"is_voting_member"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	// required passes whitespace-only names, reject those too
	if strings.TrimSpace(req.Name) == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "name must not be blank"})
		return
	}

	rm, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		Name:           req.Name,
		IsVotingMember: req.IsVotingMember,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	if err := c.roomService.RememberName(r.Context(), req.Name); err != nil {
		c.logger.DebugContext(r.Context(), "failed to remember name", "error", err)
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": roomPayload(rm)})
}

type joinRoomRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	var req joinRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "name must not be blank"})
		return
	}

	rm, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		RoomId: roomId,
		Name:   req.Name,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	if err := c.roomService.RememberName(r.Context(), req.Name); err != nil {
		c.logger.DebugContext(r.Context(), "failed to remember name", "error", err)
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomPayload(rm)})
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := c.roomService.GetRoom(r.Context(), chi.URLParam(r, "room-id"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomPayload(rm)})
}

type castVoteRequest struct {
	Name string      `json:"name" validate:"required"`
	Vote domain.Vote `json:"vote" validate:"required"`
}

func (c controller) castVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	// the protocol itself accepts anything, the option set is enforced here
	if !domain.IsValidVote(req.Vote) {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "unknown vote option"})
		return
	}

	rm, err := c.roomService.CastVote(r.Context(), &room.CastVoteParams{
		RoomId:     chi.URLParam(r, "room-id"),
		SenderName: req.Name,
		Vote:       req.Vote,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomPayload(rm)})
}

type setRevealedRequest struct {
	Name     string `json:"name" validate:"required"`
	Revealed bool   `json:"revealed"`
}

func (c controller) setRevealed(w http.ResponseWriter, r *http.Request) {
	var req setRevealedRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	rm, err := c.roomService.SetRevealed(r.Context(), &room.SetRevealedParams{
		RoomId:     chi.URLParam(r, "room-id"),
		SenderName: req.Name,
		Revealed:   req.Revealed,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomPayload(rm)})
}

type resetRoundRequest struct {
	Name string `json:"name" validate:"required"`
}

func (c controller) resetRound(w http.ResponseWriter, r *http.Request) {
	var req resetRoundRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	rm, err := c.roomService.ResetRound(r.Context(), &room.ResetRoundParams{
		RoomId:     chi.URLParam(r, "room-id"),
		SenderName: req.Name,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomPayload(rm)})
}

type setTopicRequest struct {
	Name  string `json:"name" validate:"required"`
	Topic string `json:"topic"`
}

func (c controller) setTopic(w http.ResponseWriter, r *http.Request) {
	var req setTopicRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	rm, err := c.roomService.SetTopic(r.Context(), &room.SetTopicParams{
		RoomId:     chi.URLParam(r, "room-id"),
		SenderName: req.Name,
		Topic:      req.Topic,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomPayload(rm)})
}

type toggleVotingStatusRequest struct {
	Name       string `json:"name" validate:"required"`
	MemberName string `json:"member_name" validate:"required"`
}

func (c controller) toggleVotingStatus(w http.ResponseWriter, r *http.Request) {
	var req toggleVotingStatusRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	rm, err := c.roomService.ToggleVotingStatus(r.Context(), &room.ToggleVotingStatusParams{
		RoomId:     chi.URLParam(r, "room-id"),
		SenderName: req.Name,
		MemberName: req.MemberName,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomPayload(rm)})
}

func (c controller) getUserName(w http.ResponseWriter, r *http.Request) {
	name, err := c.roomService.RememberedName(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": rest.Envelope{"username": name}})
}

type setUserNameRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

func (c controller) setUserName(w http.ResponseWriter, r *http.Request) {
	var req setUserNameRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.roomService.RememberName(r.Context(), req.Name); err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": rest.Envelope{"username": req.Name}})
}
