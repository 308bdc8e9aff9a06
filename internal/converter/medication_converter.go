package converter

import (
	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/domain/entity"
)

func MedicationToResponse(medication *entity.Medication) *dto.MedicationResponse {
	if medication == nil {
		return nil
	}

	return &dto.MedicationResponse{
		ID:        medication.ID,
		Name:      medication.Name,
		Stock:     medication.Stock,
		Price:     medication.Price,
		CreatedAt: medication.CreatedAt,
		UpdatedAt: medication.UpdatedAt,
	}
}

func MedicationsToResponses(medications []entity.Medication) []dto.MedicationResponse {
	responses := make([]dto.MedicationResponse, len(medications))
	for i := range medications {
		responses[i] = *MedicationToResponse(&medications[i])
	}
	return responses
}
