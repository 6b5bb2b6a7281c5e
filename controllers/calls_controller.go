package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/princinho/callboard/dto"
	"github.com/princinho/callboard/middleware"
	"github.com/princinho/callboard/models"
	"github.com/princinho/callboard/utils"
)

// POST /call
// multipart/form-data:
//   - title, description, category, price: text fields
//   - file: one or more images
func (a *App) PostCall() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid multipart form"})
			return
		}

		body, msg := parseCreateCallForm(form)
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": msg})
			return
		}

		files := form.File["file"]
		for _, fh := range files {
			if _, err := a.Validator.ValidateFile(fh); err != nil {
				if errors.Is(err, utils.ErrNotAnImage) {
					c.JSON(http.StatusUnsupportedMediaType, gin.H{"message": err.Error()})
					return
				}
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
		}
		maxImages := a.Config.Upload.MaxCallImages
		if len(files) > maxImages {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Only %d or fewer images are allowed", maxImages)})
			return
		}
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No images provided"})
			return
		}

		category := models.Category(body.Category)
		price := *body.Price
		if category == models.CategoryFree && price != 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Can't set price for %s category. Must be 0", category)})
			return
		}

		ctx := c.Request.Context()
		imageUrls, err := utils.UploadImages(ctx, a.Images, callImageFolder(body.Title), files)
		if err != nil {
			internalError(c, "post call: upload images", err)
			return
		}

		call := models.Call{
			Title:       body.Title,
			Description: body.Description,
			Category:    category,
			Price:       price,
			ImageURLs:   imageUrls,
			UserID:      user.ID,
		}
		if err := a.Calls.Create(ctx, &call); err != nil {
			_ = a.Images.Delete(ctx, imageUrls)
			internalError(c, "post call: create", err)
			return
		}
		if err := a.Users.PushCall(ctx, user.ID, call); err != nil {
			// keep the listing and its owner's snapshot consistent
			_ = a.Calls.Delete(ctx, call.ID)
			_ = a.Images.Delete(ctx, imageUrls)
			internalError(c, "post call: attach to owner", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"title":       call.Title,
			"description": call.Description,
			"category":    call.Category,
			"price":       call.Price,
			"imageUrls":   call.ImageURLs,
			"userId":      call.UserID,
			"id":          call.ID,
		})
	}
}

// parseCreateCallForm reads and validates the text fields of POST /call. It
// returns a client-facing message when the form is invalid.
func parseCreateCallForm(form *multipart.Form) (dto.CreateCallDTO, string) {
	var body dto.CreateCallDTO

	keys := make([]string, 0, len(form.Value))
	for key := range form.Value {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !dto.CreateCallFields[key] {
			return body, utils.NotAllowedMessage(key)
		}
	}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"title", &body.Title},
		{"description", &body.Description},
		{"category", &body.Category},
	} {
		field, dst := f.name, f.dst
		values := form.Value[field]
		if len(values) > 1 {
			return body, fmt.Sprintf("%q must be a string", field)
		}
		if len(values) == 1 {
			*dst = strings.TrimSpace(values[0])
		}
	}

	if values, ok := form.Value["price"]; ok {
		if len(values) != 1 {
			return body, utils.NotANumberMessage("price")
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			return body, utils.NotANumberMessage("price")
		}
		body.Price = &price
	}

	if err := binding.Validator.ValidateStruct(&body); err != nil {
		return body, utils.ValidationMessage(err)
	}
	return body, ""
}

func callImageFolder(title string) string {
	slug := utils.GenerateSlug(title)
	if slug == "" {
		slug = "untitled"
	}
	return "calls/" + slug
}

// POST /call/favourite/:callId
func (a *App) AddToFavourites() gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.CallIDParam
		if err := c.ShouldBindUri(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
			return
		}
		callID := mustObjectID(params.CallID)
		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		call, err := a.Calls.FindByID(ctx, callID)
		if err != nil {
			if isNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Call not found"})
				return
			}
			internalError(c, "add favourite: find call", err)
			return
		}
		if user.HasFavourite(callID) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Already in favourites"})
			return
		}

		updated, err := a.Users.PushFavourite(ctx, user.ID, *call)
		if err != nil {
			internalError(c, "add favourite", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"newFavourites": updated.Favourites})
	}
}

// DELETE /call/favourite/:callId
func (a *App) RemoveFromFavourites() gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.CallIDParam
		if err := c.ShouldBindUri(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
			return
		}
		callID := mustObjectID(params.CallID)
		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		// A favourited listing may since have been deleted by its owner; the
		// stale snapshot can still be removed.
		if !user.HasFavourite(callID) {
			_, err := a.Calls.FindByID(ctx, callID)
			switch {
			case isNotFound(err):
				c.JSON(http.StatusNotFound, gin.H{"message": "Call not found"})
			case err != nil:
				internalError(c, "remove favourite: find call", err)
			default:
				c.JSON(http.StatusForbidden, gin.H{"message": "Not in favourites"})
			}
			return
		}

		updated, err := a.Users.PullFavourite(ctx, user.ID, callID)
		if err != nil {
			internalError(c, "remove favourite", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"newFavourites": updated.Favourites})
	}
}

// DELETE /call/:callId
func (a *App) DeleteCall() gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.CallIDParam
		if err := c.ShouldBindUri(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
			return
		}
		callID := mustObjectID(params.CallID)
		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		call, err := a.Calls.FindByID(ctx, callID)
		if err != nil && !isNotFound(err) {
			internalError(c, "delete call: find", err)
			return
		}
		if call == nil || !user.OwnsCall(callID) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Call not found"})
			return
		}

		if err := a.Calls.Delete(ctx, callID); err != nil && !isNotFound(err) {
			internalError(c, "delete call", err)
			return
		}
		if err := a.Users.PullCall(ctx, user.ID, callID); err != nil {
			internalError(c, "delete call: detach from owner", err)
			return
		}
		if user.HasFavourite(callID) {
			if _, err := a.Users.PullFavourite(ctx, user.ID, callID); err != nil {
				internalError(c, "delete call: drop favourite", err)
				return
			}
		}

		if err := a.Images.Delete(ctx, call.ImageURLs); err != nil {
			log.Printf("delete call %s: remove images: %v", callID.Hex(), err)
		}
		c.Status(http.StatusNoContent)
	}
}

// GET /call?page=1..3
func (a *App) LoadPages() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dto.PageQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) {
				c.JSON(http.StatusBadRequest, gin.H{"message": utils.NotANumberMessage("page")})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
			return
		}

		ctx := c.Request.Context()
		resp := gin.H{}
		for _, category := range models.BrowsePages[query.Page] {
			calls, err := a.Calls.FindByCategories(ctx, category.WithLegacyNames()...)
			if err != nil {
				internalError(c, "load page", err)
				return
			}
			resp[string(category)] = calls
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GET /call/own
func (a *App) GetOwnCalls() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"calls": user.Calls})
	}
}

// GET /call/favourites
func (a *App) GetFavourites() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"favourites": user.Favourites})
	}
}

// GET /call/find?search=
func (a *App) SearchCalls() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dto.SearchQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
			return
		}

		calls, err := a.Calls.SearchByTitle(c.Request.Context(), query.Search)
		if err != nil {
			internalError(c, "search calls", err)
			return
		}
		c.JSON(http.StatusOK, calls)
	}
}

// GET /call/categories
func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.Categories)
	}
}

// GET /call/russian-categories
func GetRussianCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.RussianCategories)
	}
}

// GET /call/specific/:category
func (a *App) GetCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		category := models.Category(c.Param("category"))

		calls, err := a.Calls.FindByCategories(c.Request.Context(), category.WithLegacyNames()...)
		if err != nil {
			internalError(c, "get category", err)
			return
		}
		if len(calls) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "No calls found"})
			return
		}
		c.JSON(http.StatusOK, calls)
	}
}

// GET /call/ads
func (a *App) GetAds() gin.HandlerFunc {
	return func(c *gin.Context) {
		ads, err := a.Ads.List(c.Request.Context())
		if err != nil {
			internalError(c, "list ads", err)
			return
		}
		c.JSON(http.StatusOK, ads)
	}
}

// GET /call/check/:callId
// Lets other services probe whether a listing still exists.
func (a *App) CheckCall() gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.CallIDParam
		if err := c.ShouldBindUri(&params); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false})
			return
		}

		_, err := a.Calls.FindByID(c.Request.Context(), mustObjectID(params.CallID))
		if err != nil && !isNotFound(err) {
			internalError(c, "check call", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": err == nil})
	}
}
