package handler

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"teamtrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	taskRepo    repository.TaskRepositoryInterface
	meetingRepo repository.MeetingRepositoryInterface
	userRepo    repository.UserRepositoryInterface
}

func NewCalendarHandler(
	taskRepo repository.TaskRepositoryInterface,
	meetingRepo repository.MeetingRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *CalendarHandler {
	return &CalendarHandler{
		taskRepo:    taskRepo,
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
	}
}

// CalendarEvent — элемент ленты: дедлайн задачи или встреча
type CalendarEvent struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	Type       string     `json:"type"` // "task" | "meeting"
	Start      time.Time  `json:"start"`
	End        *time.Time `json:"end,omitempty"`
	AssigneeID *uint      `json:"assignee_id,omitempty"`
	CreatorID  uint       `json:"creator_id"`
}

type DayEventsResponse struct {
	Date   string          `json:"date"`
	Events []CalendarEvent `json:"events"`
}

type MonthEventsResponse struct {
	Year  int                        `json:"year"`
	Month int                        `json:"month"`
	Days  map[string][]CalendarEvent `json:"days"`
}

// eventsForDay composes the caller's task deadlines and meeting starts that
// fall on the given day, sorted ascending by start time.
func (h *CalendarHandler) eventsForDay(c *gin.Context, userID uint, day time.Time) ([]CalendarEvent, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	events := []CalendarEvent{}

	tasks, err := h.taskRepo.GetWithDeadlineBetween(c.Request.Context(), userID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		task := &tasks[i]
		assigneeID := task.AssigneeID
		events = append(events, CalendarEvent{
			ID:         task.ID,
			Title:      task.Title,
			Type:       "task",
			Start:      *task.Deadline,
			End:        task.Deadline,
			AssigneeID: &assigneeID,
			CreatorID:  task.CreatorID,
		})
	}

	meetings, err := h.meetingRepo.GetStartingBetween(c.Request.Context(), userID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range meetings {
		meeting := &meetings[i]
		end := meeting.EndTime
		events = append(events, CalendarEvent{
			ID:        meeting.ID,
			Title:     meeting.Title,
			Type:      "meeting",
			Start:     meeting.StartTime,
			End:       &end,
			CreatorID: meeting.CreatorID,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

// Day возвращает события за указанный день (по умолчанию — сегодня)
func (h *CalendarHandler) Day(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	day := time.Now().UTC()
	if raw := c.Query("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	events, err := h.eventsForDay(c, user.ID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}

	c.JSON(http.StatusOK, DayEventsResponse{
		Date:   day.Format("2006-01-02"),
		Events: events,
	})
}

// Month возвращает события за каждый день месяца
func (h *CalendarHandler) Month(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	now := time.Now().UTC()
	year := now.Year()
	month := int(now.Month())

	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = parsed
	}
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		month = parsed
	}

	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Month must be 1-12"})
		return
	}

	// time.Date normalizes day 0 of the next month to the last day of this
	// one, which handles 28-31 day months and leap years
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	days := make(map[string][]CalendarEvent, lastDay)
	for day := 1; day <= lastDay; day++ {
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		events, err := h.eventsForDay(c, user.ID, date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
			return
		}
		days[date.Format("2006-01-02")] = events
	}

	c.JSON(http.StatusOK, MonthEventsResponse{
		Year:  year,
		Month: month,
		Days:  days,
	})
}
