package domain

import "time"

// RegistrationStatus описывает состояние заявки на подключение ресторана.
type RegistrationStatus string

const (
	// RegistrationStatusPending — заявка подана и ожидает решения администратора.
	RegistrationStatusPending RegistrationStatus = "pending"
	// RegistrationStatusApproved — заявка одобрена, ресторан создан.
	RegistrationStatusApproved RegistrationStatus = "approved"
	// RegistrationStatusRejected — заявка отклонена.
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// RegistrationRequest — заявка владельца ресторана на подключение к платформе.
type RegistrationRequest struct {
	ID             string
	RestaurantName string
	OwnerName      string
	Email          string
	Phone          string
	CNPJ           string
	Address        string
	Status         RegistrationStatus
	// RestaurantID заполняется после одобрения заявки.
	RestaurantID string
	// Reason хранит причину отклонения.
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет обязательные поля заявки.
func (r *RegistrationRequest) ValidateInvariants() []error {
	var errs []error
	if r.RestaurantName == "" {
		errs = append(errs, ErrRestaurantNameRequired)
	}
	if r.OwnerName == "" {
		errs = append(errs, ErrOwnerNameRequired)
	}
	if r.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if r.Phone == "" {
		errs = append(errs, ErrCustomerPhoneRequired)
	}
	return errs
}
