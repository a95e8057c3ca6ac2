package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrTeamNotFound is returned when a team is not found
	ErrTeamNotFound = errors.New("team not found")

	// ErrTeamNameTaken is returned when a team with the same name already exists
	ErrTeamNameTaken = errors.New("team name already exists")

	// ErrMeetingNotFound is returned when a meeting is not found
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrMeetingConflict is returned when a participant already has an
	// overlapping meeting
	ErrMeetingConflict = errors.New("participant has a conflicting meeting")

	// ErrTaskAlreadyEvaluated is returned when a task already has an evaluation
	ErrTaskAlreadyEvaluated = errors.New("task already evaluated")

	// ErrUserNotInTeam is returned when a membership operation targets a user
	// that does not exist or has no team
	ErrUserNotInTeam = errors.New("user not in team or not found")
)
