package models

// RoomStatus is the externally visible state of a room
type RoomStatus struct {
	Key                string       `json:"key"`
	Name               string       `json:"name"`
	On                 bool         `json:"on"`
	WarmingUp          bool         `json:"warming_up"`
	CoolingDown        bool         `json:"cooling_down"`
	InCall             bool         `json:"in_call"`
	SharingContent     bool         `json:"sharing_content"`
	CurrentSourceKey   string       `json:"current_source_key,omitempty"`
	CurrentSourceName  string       `json:"current_source_name,omitempty"`
	ShutdownType       ShutdownType `json:"shutdown_type"`
	ShutdownPromptLeft string       `json:"shutdown_prompt_left,omitempty"`
}
