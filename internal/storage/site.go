package storage

type Site struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Address          *string `json:"address"`
	Description      *string `json:"description"`
	MonthlyBasePrice int64   `json:"monthly_base_price"`
	DailyBasePrice   int64   `json:"daily_base_price"`
	SpaceCount       int     `json:"space_count"`
}

type SiteInput struct {
	Name             string  `json:"name" validate:"required,max=50"`
	Address          *string `json:"address"`
	Description      *string `json:"description"`
	MonthlyBasePrice int64   `json:"monthly_base_price" validate:"gte=0"`
	DailyBasePrice   int64   `json:"daily_base_price" validate:"gte=0"`
}

type Tag struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	Description  *string `json:"description"`
	MonthlyPrice *int64  `json:"monthly_price"`
	DailyPrice   *int64  `json:"daily_price"`
}

type TagInput struct {
	Name         string  `json:"name" validate:"required,max=30"`
	Color        string  `json:"color" validate:"required,hexcolor,len=7"`
	Description  *string `json:"description"`
	MonthlyPrice *int64  `json:"monthly_price" validate:"omitempty,gte=0"`
	DailyPrice   *int64  `json:"daily_price" validate:"omitempty,gte=0"`
}
