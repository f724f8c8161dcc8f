package toml

import (
	"fmt"
	"time"

	"github.com/nitwit45/automation-tm/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Profiles []profileSchema `toml:"profiles"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported profiles schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type profileSchema struct {
	Name      string          `toml:"name"`
	BaseURL   string          `toml:"base_url"`
	Username  string          `toml:"username"`
	SecretRef string          `toml:"secret_ref"`
	LastTask  *lastTaskSchema `toml:"last_task,omitempty"`
}

type lastTaskSchema struct {
	TaskType    string `toml:"task_type"`
	Project     string `toml:"project"`
	Description string `toml:"description"`
	StartedAt   string `toml:"started_at"`
}

func toSchema(profile domain.Profile) profileSchema {
	encoded := profileSchema{
		Name:      string(profile.Name),
		BaseURL:   profile.BaseURL,
		Username:  profile.Username,
		SecretRef: profile.SecretRef,
	}
	if profile.LastTask != nil {
		encoded.LastTask = &lastTaskSchema{
			TaskType:    profile.LastTask.TaskType,
			Project:     profile.LastTask.Project,
			Description: profile.LastTask.Description,
			StartedAt:   profile.LastTask.StartedAt.Format(time.RFC3339),
		}
	}

	return encoded
}

func fromSchema(encoded profileSchema) domain.Profile {
	profile := domain.Profile{
		Name:      domain.ProfileName(encoded.Name),
		BaseURL:   encoded.BaseURL,
		Username:  encoded.Username,
		SecretRef: encoded.SecretRef,
	}
	if encoded.LastTask != nil {
		startedAt, _ := time.Parse(time.RFC3339, encoded.LastTask.StartedAt)
		profile.LastTask = &domain.LastTask{
			TaskType:    encoded.LastTask.TaskType,
			Project:     encoded.LastTask.Project,
			Description: encoded.LastTask.Description,
			StartedAt:   startedAt,
		}
	}

	return profile
}
