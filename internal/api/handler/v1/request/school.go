package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateSchoolRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func (req *CreateSchoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Address, validation.Length(0, 300)),
		validation.Field(&req.City, validation.Length(0, 100)),
	)
}

type UpdateSchoolRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func (req *UpdateSchoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(2, 200)),
		validation.Field(&req.Address, validation.Length(0, 300)),
		validation.Field(&req.City, validation.Length(0, 100)),
	)
}
