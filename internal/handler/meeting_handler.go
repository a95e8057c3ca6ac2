package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct {
	meetingRepo repository.MeetingRepositoryInterface
	userRepo    repository.UserRepositoryInterface
}

func NewMeetingHandler(meetingRepo repository.MeetingRepositoryInterface, userRepo repository.UserRepositoryInterface) *MeetingHandler {
	return &MeetingHandler{
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
	}
}

// CreateMeetingRequest представляет запрос на создание встречи
type CreateMeetingRequest struct {
	Title          string    `json:"title" binding:"required"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
	ParticipantIDs []uint    `json:"participant_ids"`
}

type MeetingResponse struct {
	ID           uint           `json:"id"`
	Title        string         `json:"title"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	Creator      UserResponse   `json:"creator"`
	Participants []UserResponse `json:"participants"`
}

func toMeetingResponse(meeting *model.Meeting) MeetingResponse {
	response := MeetingResponse{
		ID:           meeting.ID,
		Title:        meeting.Title,
		StartTime:    meeting.StartTime,
		EndTime:      meeting.EndTime,
		Creator:      toUserResponse(&meeting.Creator),
		Participants: make([]UserResponse, len(meeting.Participants)),
	}
	for i := range meeting.Participants {
		response.Participants[i] = toUserResponse(&meeting.Participants[i])
	}
	return response
}

// Create создает встречу после проверки конфликтов у всех участников
func (h *MeetingHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	if user.TeamID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You must be in a team"})
		return
	}

	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !req.StartTime.Before(req.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time"})
		return
	}

	// Создатель всегда участвует; повторы в списке схлопываются
	seen := make(map[uint]bool, len(req.ParticipantIDs)+1)
	participantIDs := make([]uint, 0, len(req.ParticipantIDs)+1)
	for _, id := range req.ParticipantIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		participantIDs = append(participantIDs, id)
	}
	if !seen[user.ID] {
		participantIDs = append(participantIDs, user.ID)
	}

	for _, id := range participantIDs {
		participant, err := h.userRepo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
			return
		}
		if participant == nil || participant.TeamID == nil || *participant.TeamID != *user.TeamID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Participant " + strconv.FormatUint(uint64(id), 10) + " not in your team or not found"})
			return
		}
	}

	meeting := &model.Meeting{
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		CreatorID: user.ID,
	}

	if err := h.meetingRepo.CreateWithParticipants(c.Request.Context(), meeting, participantIDs); err != nil {
		if errors.Is(err, repository.ErrMeetingConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create meeting"})
		return
	}

	created, err := h.meetingRepo.GetByID(c.Request.Context(), meeting.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meeting"})
		return
	}

	c.JSON(http.StatusCreated, toMeetingResponse(created))
}

// List возвращает встречи пользователя по возрастанию времени начала
func (h *MeetingHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	meetings, err := h.meetingRepo.GetForUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meetings"})
		return
	}

	response := make([]MeetingResponse, len(meetings))
	for i := range meetings {
		response[i] = toMeetingResponse(&meetings[i])
	}
	c.JSON(http.StatusOK, response)
}

// Delete отменяет встречу. Встреча чужой команды невидима (404); участник
// своей команды без прав получает 403.
func (h *MeetingHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	if user.TeamID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You must be in a team"})
		return
	}

	meetingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meeting ID"})
		return
	}

	meeting, err := h.meetingRepo.GetByID(c.Request.Context(), uint(meetingID))
	if err != nil {
		if errors.Is(err, repository.ErrMeetingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve meeting"})
		return
	}

	creator, err := h.userRepo.GetByID(c.Request.Context(), meeting.CreatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if creator == nil || creator.TeamID == nil || *creator.TeamID != *user.TeamID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meeting not found"})
		return
	}

	if user.ID != meeting.CreatorID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or a team admin can cancel a meeting"})
		return
	}

	if err := h.meetingRepo.Delete(c.Request.Context(), meeting.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel meeting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meeting cancelled"})
}
