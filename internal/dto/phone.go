package dto

type PhoneNormalizeDTO struct {
	Value string `json:"value" validate:"required,max=64"`
}

type PhoneResponseDTO struct {
	Digits    string `json:"digits"`
	Canonical string `json:"canonical"`
	Display   string `json:"display"`
	Valid     bool   `json:"valid"`
}
