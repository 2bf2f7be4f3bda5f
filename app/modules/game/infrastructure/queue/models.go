package gamequeue

import "time"

// GameLockJob fires at kickoff and announces that the game's picks are public.
// Kickoff is part of the args so a moved game gets a distinct unique job.
type GameLockJob struct {
	GameID  string    `json:"game_id"`
	Kickoff time.Time `json:"kickoff"`
}

// Kind returns the job type identifier for River
func (GameLockJob) Kind() string { return "game_lock" }

// JobInfo represents information about a scheduled job (for debugging/monitoring)
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	GameID      string `json:"game_id"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
