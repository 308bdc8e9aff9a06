package converter

import (
	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/domain/entity"
)

// UserToResponse strips the password hash from a User.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		DNI:       user.DNI,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

func DirectoryEntriesToResponses(entries []entity.DirectoryEntry) []dto.DirectoryEntryResponse {
	responses := make([]dto.DirectoryEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = dto.DirectoryEntryResponse{
			UserResponse: *UserToResponse(&e.User),
			ProfileID:    e.ProfileID,
			Specialty:    e.Specialty,
			BirthDate:    e.BirthDate,
			HasProfile:   e.HasProfile,
			Pending:      e.IsPending(),
		}
	}
	return responses
}
