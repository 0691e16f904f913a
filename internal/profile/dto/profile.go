package dto

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

type SetBirthChartRequest struct {
	BirthDate  string `json:"birth_date" binding:"required"`
	BirthTime  string `json:"birth_time"`
	BirthPlace string `json:"birth_place" binding:"required"`
}
