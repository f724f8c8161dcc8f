package domain

import "time"

type ProfileName string

// Profile identifies one logical remote user: where to log in, as whom, and
// where the password lives. The password itself never touches the profile
// file; SecretRef points into the secret store.
type Profile struct {
	Name      ProfileName
	BaseURL   string
	Username  string
	SecretRef string
	LastTask  *LastTask
}

// LastTask is a convenience memo of the most recently started task.
type LastTask struct {
	TaskType    string
	Project     string
	Description string
	StartedAt   time.Time
}
