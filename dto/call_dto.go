package dto

// CreateCallDTO is read from the text fields of the multipart form; images
// travel in the "file" parts.
type CreateCallDTO struct {
	Title       string   `form:"title" binding:"required"`
	Description string   `form:"description" binding:"required"`
	Category    string   `form:"category" binding:"required,category"`
	Price       *float64 `form:"price" binding:"required,gte=0"`
}

// CreateCallFields are the only text fields accepted on POST /call.
var CreateCallFields = map[string]bool{
	"title":       true,
	"description": true,
	"category":    true,
	"price":       true,
}

type CallIDParam struct {
	CallID string `uri:"callId" binding:"required,objectid"`
}

type UserIDParam struct {
	UserID string `uri:"userId" binding:"required,objectid"`
}

type PageQuery struct {
	Page int `form:"page" binding:"required,min=1,max=3"`
}

type SearchQuery struct {
	Search string `form:"search" binding:"required"`
}
