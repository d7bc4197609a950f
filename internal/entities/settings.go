package entities

import "encoding/json"

// Settings holds a user's preferences. The schema is open: the typed core
// fields cover what the application knows about today, and Extra carries
// any other keys so that forward-compatible fields survive a round-trip.
// Core fields are pointers so that "absent" and "zero" stay distinct,
// which keeps shallow-merge semantics well defined.
type Settings struct {
	UserID                string         `gorm:"primaryKey;size:64" json:"userId"`
	Language              *string        `gorm:"size:32" json:"language,omitempty"`
	Theme                 *string        `gorm:"size:32" json:"theme,omitempty"`
	NotificationFrequency *string        `gorm:"size:32" json:"notificationFrequency,omitempty"`
	IsPrivate             *bool          `json:"isPrivate,omitempty"`
	Extra                 map[string]any `gorm:"serializer:json" json:"-"`
}

func (Settings) TableName() string {
	return "settings"
}

// Merge returns a copy of the existing settings with every present field
// of incoming applied on top; fields absent from incoming are retained.
func (s Settings) Merge(incoming Settings) Settings {
	merged := s
	if incoming.Language != nil {
		merged.Language = incoming.Language
	}
	if incoming.Theme != nil {
		merged.Theme = incoming.Theme
	}
	if incoming.NotificationFrequency != nil {
		merged.NotificationFrequency = incoming.NotificationFrequency
	}
	if incoming.IsPrivate != nil {
		merged.IsPrivate = incoming.IsPrivate
	}
	if len(incoming.Extra) > 0 {
		extra := make(map[string]any, len(s.Extra)+len(incoming.Extra))
		for k, v := range s.Extra {
			extra[k] = v
		}
		for k, v := range incoming.Extra {
			extra[k] = v
		}
		merged.Extra = extra
	}
	return merged
}

// settingsCore mirrors the typed fields for JSON round-tripping.
type settingsCore struct {
	UserID                string  `json:"userId"`
	Language              *string `json:"language,omitempty"`
	Theme                 *string `json:"theme,omitempty"`
	NotificationFrequency *string `json:"notificationFrequency,omitempty"`
	IsPrivate             *bool   `json:"isPrivate,omitempty"`
}

var settingsCoreKeys = map[string]bool{
	"userId":                true,
	"language":              true,
	"theme":                 true,
	"notificationFrequency": true,
	"isPrivate":             true,
}

// MarshalJSON flattens Extra next to the core fields.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+5)
	for k, v := range s.Extra {
		if !settingsCoreKeys[k] {
			out[k] = v
		}
	}
	out["userId"] = s.UserID
	if s.Language != nil {
		out["language"] = *s.Language
	}
	if s.Theme != nil {
		out["theme"] = *s.Theme
	}
	if s.NotificationFrequency != nil {
		out["notificationFrequency"] = *s.NotificationFrequency
	}
	if s.IsPrivate != nil {
		out["isPrivate"] = *s.IsPrivate
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits a flat JSON object into core fields and Extra.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var core settingsCore
	if err := json.Unmarshal(data, &core); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.UserID = core.UserID
	s.Language = core.Language
	s.Theme = core.Theme
	s.NotificationFrequency = core.NotificationFrequency
	s.IsPrivate = core.IsPrivate
	s.Extra = nil
	for k, v := range raw {
		if settingsCoreKeys[k] {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[k] = v
	}
	return nil
}
