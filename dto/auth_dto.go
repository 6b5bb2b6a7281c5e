package dto

type RegisterDTO struct {
	Email      string `json:"email" binding:"required"`
	FirstName  string `json:"firstName" binding:"required"`
	SecondName string `json:"secondName" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
