package profile

import "strconv"

// The profile collection holds at most one document; it lives under a
// fixed row id and is replaced whole on every write.
const singletonID = int64(1)

type Employment struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
	Description string `json:"description,omitempty"`
}

type Profile struct {
	ID                int64
	Name              string
	AvatarURL         *string
	CoverURL          *string
	Summary           *string
	EmploymentHistory []Employment
	ContactEmail      *string
	Socials           map[string]string
}

// WireProfile is the client-facing shape: string id, optionals omitted
// when absent, employment_history and socials never null.
type WireProfile struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	AvatarURL         *string           `json:"avatar_url,omitempty"`
	CoverURL          *string           `json:"cover_url,omitempty"`
	Summary           *string           `json:"summary,omitempty"`
	EmploymentHistory []Employment      `json:"employment_history"`
	ContactEmail      *string           `json:"contact_email,omitempty"`
	Socials           map[string]string `json:"socials"`
}

func ToWire(p *Profile) WireProfile {
	history := p.EmploymentHistory
	if history == nil {
		history = []Employment{}
	}
	socials := p.Socials
	if socials == nil {
		socials = map[string]string{}
	}
	return WireProfile{
		ID:                strconv.FormatInt(p.ID, 10),
		Name:              p.Name,
		AvatarURL:         p.AvatarURL,
		CoverURL:          p.CoverURL,
		Summary:           p.Summary,
		EmploymentHistory: history,
		ContactEmail:      p.ContactEmail,
		Socials:           socials,
	}
}
