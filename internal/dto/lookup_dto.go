package dto

type SubLookupDTO struct {
	ID       uint   `json:"id"`
	LookupID uint   `json:"lookup_id"`
	Name     string `json:"name"`
}

type LookupDTO struct {
	ID         uint           `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Code       string         `json:"code"`
	SubLookups []SubLookupDTO `json:"sub_lookups"`
}

type LookupCreateDTO struct {
	Name string `json:"name" binding:"required,max=128"`
	Type string `json:"type" binding:"required,max=64"`
	Code string `json:"code" binding:"required,max=64"`
}

type LookupUpdateDTO struct {
	Name string `json:"name" binding:"required,max=128"`
	Type string `json:"type" binding:"required,max=64"`
	Code string `json:"code" binding:"required,max=64"`
}

type SubLookupCreateDTO struct {
	Name string `json:"name" binding:"required,max=128"`
}

type SubLookupUpdateDTO struct {
	Name string `json:"name" binding:"required,max=128"`
}
