package domain

// Scope is the set of schools a principal may read or write. All trumps the
// explicit set; an empty non-All scope means access to nothing (fails closed).
type Scope struct {
	All       bool   `json:"all"`
	SchoolIDs []uint `json:"school_ids,omitempty"`
}

func ScopeAll() Scope {
	return Scope{All: true}
}

func ScopeOf(schoolIDs ...uint) Scope {
	return Scope{SchoolIDs: schoolIDs}
}

func (s Scope) Contains(schoolID uint) bool {
	if s.All {
		return true
	}
	for _, id := range s.SchoolIDs {
		if id == schoolID {
			return true
		}
	}

	return false
}

func (s Scope) IsEmpty() bool {
	return !s.All && len(s.SchoolIDs) == 0
}
