package entity

import "github.com/google/uuid"

// DirectoryEntry is a user decorated with its role profile, if one exists.
type DirectoryEntry struct {
	User       User
	ProfileID  *uuid.UUID
	Specialty  *string
	BirthDate  *string
	HasProfile bool
}

// IsPending reports whether the user's role calls for a profile that has not been created yet.
func (e DirectoryEntry) IsPending() bool {
	return HasProfile(e.User.Role) && !e.HasProfile
}

// BuildDirectory joins users with the three profile tables by user id. Only the profile matching
// the user's current role decorates the entry; rows for other roles are ignored.
// Output order follows users.
func BuildDirectory(users []User, doctors []DoctorProfile, patients []PatientProfile, pharmacists []PharmacistProfile) []DirectoryEntry {
	doctorByUser := make(map[uuid.UUID]DoctorProfile, len(doctors))
	for _, d := range doctors {
		doctorByUser[d.UserID] = d
	}
	patientByUser := make(map[uuid.UUID]PatientProfile, len(patients))
	for _, p := range patients {
		patientByUser[p.UserID] = p
	}
	pharmacistByUser := make(map[uuid.UUID]PharmacistProfile, len(pharmacists))
	for _, p := range pharmacists {
		pharmacistByUser[p.UserID] = p
	}

	entries := make([]DirectoryEntry, 0, len(users))
	for _, u := range users {
		entry := DirectoryEntry{User: u}

		switch u.Role {
		case RoleDoctor:
			if d, ok := doctorByUser[u.ID]; ok {
				id, specialty := d.ID, d.Specialty
				entry.ProfileID = &id
				entry.Specialty = &specialty
				entry.HasProfile = true
			}
		case RolePatient:
			if p, ok := patientByUser[u.ID]; ok {
				id := p.ID
				entry.ProfileID = &id
				entry.HasProfile = true
				if p.BirthDate != nil {
					birth := p.BirthDate.Format("2006-01-02")
					entry.BirthDate = &birth
				}
			}
		case RolePharmacist:
			if p, ok := pharmacistByUser[u.ID]; ok {
				id := p.ID
				entry.ProfileID = &id
				entry.HasProfile = true
			}
		}

		entries = append(entries, entry)
	}
	return entries
}

// PendingForRole filters entries down to users of role that still lack a profile.
func PendingForRole(entries []DirectoryEntry, role string) []DirectoryEntry {
	pending := make([]DirectoryEntry, 0)
	for _, e := range entries {
		if e.User.Role == role && e.IsPending() {
			pending = append(pending, e)
		}
	}
	return pending
}

// RegisteredForRole filters entries down to users of role that already own a profile.
func RegisteredForRole(entries []DirectoryEntry, role string) []DirectoryEntry {
	registered := make([]DirectoryEntry, 0)
	for _, e := range entries {
		if e.User.Role == role && e.HasProfile {
			registered = append(registered, e)
		}
	}
	return registered
}
