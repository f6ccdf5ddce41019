package profile

// ProfileGetOutput for GET /v1/profile
type ProfileGetOutput struct {
	Body Profile
}

// ProfileSaveOutput for PUT /v1/profile
type ProfileSaveOutput struct {
	Location string `header:"Location" doc:"URL of the saved profile"`
	Body     Profile
}

// ProfileUpdateOutput for PATCH /v1/profile
type ProfileUpdateOutput struct {
	Body Profile
}

// ProfileStatsOutput for GET /v1/profile/stats
type ProfileStatsOutput struct {
	Body Stats
}

// ProfileExportOutput for GET /v1/profile/export
type ProfileExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// ProfileImportOutput for POST /v1/profile/import
type ProfileImportOutput struct {
	Body Profile
}
