package converter

import (
	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		Specialty: profile.Specialty,
		User:      *UserToResponse(&profile.User),
		CreatedAt: profile.CreatedAt,
	}
}

func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i])
	}
	return responses
}

func PatientProfileToResponse(profile *entity.PatientProfile) *dto.PatientResponse {
	if profile == nil {
		return nil
	}

	var birthDate *string
	if profile.BirthDate != nil {
		formatted := profile.BirthDate.Format(dateLayout)
		birthDate = &formatted
	}

	return &dto.PatientResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		BirthDate: birthDate,
		User:      *UserToResponse(&profile.User),
		CreatedAt: profile.CreatedAt,
	}
}

func PatientProfilesToResponses(profiles []entity.PatientProfile) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(profiles))
	for i := range profiles {
		responses[i] = *PatientProfileToResponse(&profiles[i])
	}
	return responses
}

func PharmacistProfileToResponse(profile *entity.PharmacistProfile) *dto.PharmacistResponse {
	if profile == nil {
		return nil
	}

	return &dto.PharmacistResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		User:      *UserToResponse(&profile.User),
		CreatedAt: profile.CreatedAt,
	}
}

func PharmacistProfilesToResponses(profiles []entity.PharmacistProfile) []dto.PharmacistResponse {
	responses := make([]dto.PharmacistResponse, len(profiles))
	for i := range profiles {
		responses[i] = *PharmacistProfileToResponse(&profiles[i])
	}
	return responses
}
