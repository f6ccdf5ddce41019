package profile

// ProfileGetInput for GET /v1/profile (no body needed)
type ProfileGetInput struct{}

// ProfileSaveInput for PUT /v1/profile
type ProfileSaveInput struct {
	Body struct {
		Goal   string  `json:"goal"   doc:"Goal code or display label" example:"balanced"`
		Height float64 `json:"height" doc:"Height in centimeters, 140 to 250" example:"170"`
		Weight float64 `json:"weight" doc:"Weight in kilograms, 30 to 200"    example:"65"`
	}
}

// ProfileUpdateInput for PATCH /v1/profile
type ProfileUpdateInput struct {
	Body struct {
		Goal   *string  `json:"goal,omitempty"   doc:"Goal code or display label" example:"reduce"`
		Height *float64 `json:"height,omitempty" doc:"Height in centimeters"      example:"172"`
		Weight *float64 `json:"weight,omitempty" doc:"Weight in kilograms"        example:"63"`
	}
}

// ProfileDeleteInput for DELETE /v1/profile (no body needed)
type ProfileDeleteInput struct{}

// ProfileImportInput for POST /v1/profile/import. The body is an exported
// profile document, passed through undecoded.
type ProfileImportInput struct {
	RawBody []byte `contentType:"application/json"`
}
