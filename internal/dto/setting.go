package dto

import "time"

type SettingUpdateDTO struct {
	Value string `json:"value" validate:"max=2048"`
}

type SettingResponseDTO struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
