package models

type AccessTier string

const (
	TierMember AccessTier = "member"
	TierAdmin  AccessTier = "admin"
	TierOwner  AccessTier = "owner"
)

// Tiers задает фиксированный порядок просмотра уровней при поиске команды.
var Tiers = []AccessTier{TierMember, TierAdmin, TierOwner}

type Participant struct {
	ID           string
	IsAdmin      bool
	IsSuperAdmin bool
	IsOwner      bool
}

func (p Participant) HasAdminRights() bool {
	return p.IsOwner || p.IsSuperAdmin || p.IsAdmin
}

type Roster struct {
	GroupID      string        `json:"group_id"`
	Name         string        `json:"name"`
	OwnerID      string        `json:"owner_id"`
	Participants []Participant `json:"participants"`
}

func (r *Roster) Find(id string) (Participant, bool) {
	key := StorageKey(id)

	for _, p := range r.Participants {
		if StorageKey(p.ID) == key {
			return p, true
		}
	}

	return Participant{}, false
}

func (r *Roster) IDs() []string {
	ids := make([]string, 0, len(r.Participants))
	for _, p := range r.Participants {
		ids = append(ids, p.ID)
	}

	return ids
}
