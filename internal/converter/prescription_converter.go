package converter

import (
	"strings"

	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/domain/entity"
)

func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	details := make([]dto.PrescriptionDetailResponse, len(prescription.Details))
	for i, d := range prescription.Details {
		details[i] = dto.PrescriptionDetailResponse{
			ID:           d.ID,
			Dose:         d.Dose,
			Frequency:    d.Frequency,
			Duration:     d.Duration,
			Quantity:     d.Quantity,
			MedicationID: d.MedicationID,
			Medication:   d.Medication.Name,
		}
	}

	return &dto.PrescriptionResponse{
		ID:               prescription.ID,
		IssueDate:        prescription.IssueDate,
		Status:           string(prescription.Status),
		Comments:         prescription.Comments,
		DoctorProfileID:  prescription.DoctorProfileID,
		PatientProfileID: prescription.PatientProfileID,
		DoctorName:       fullName(prescription.Doctor.User),
		PatientName:      fullName(prescription.Patient.User),
		Details:          details,
	}
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}

func fullName(user entity.User) string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
