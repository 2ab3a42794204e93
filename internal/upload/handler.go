package upload

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/collage/service/internal/admission"
	"github.com/collage/service/internal/response"
	"github.com/collage/service/internal/storage"
)

// multipartOverhead is extra room for form fields and boundaries on top of the image limit.
const multipartOverhead = 1 << 20

// Handler holds HTTP handlers for the collage endpoints.
type Handler struct {
	svc      *Service
	maxBytes int64
}

// NewHandler creates a new upload Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, maxBytes: svc.maxSize}
}

type healthData struct {
	Status      string `json:"status"      example:"healthy"`
	Server      string `json:"server"      example:"Communal Collage API"`
	StorageMode string `json:"storageMode" example:"networked"`
	Timestamp   string `json:"timestamp"   example:"2026-03-01T12:00:00Z"`
}

type tokenData struct {
	Token  string `json:"token"  example:"6f0c5a8e-2d0c-4b4c-9a55-0bcbf1e6a0f1"`
	Expiry string `json:"expiry" example:"2026-03-02T12:00:00Z"`
}

type uploadData struct {
	Filename string `json:"filename" example:"0b6f1c3e-5f0e-4c59-a4a1-6f1fd3c5d3a2.jpg"`
	Size     int64  `json:"size"     example:"482133"`
	Message  string `json:"message"  example:"Image uploaded successfully!"`
}

type imagesData struct {
	Images []storage.Object `json:"images"`
	Count  int              `json:"count" example:"1"`
}

type messageData struct {
	Message string `json:"message" example:"Collage reset successfully"`
}

// Health godoc
//
//	@Summary		Health check
//	@Description	Reports liveness and which storage backend is active.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=healthData}
//	@Router			/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, healthData{
		Status:      "healthy",
		Server:      "Communal Collage API",
		StorageMode: h.svc.StorageMode().String(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

// GenerateToken godoc
//
//	@Summary		Generate upload token
//	@Description	Issue a single-use token that admits one image upload within 24 hours.
//	@Tags			collage
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=tokenData}
//	@Router			/generate-token [post]
func (h *Handler) GenerateToken(w http.ResponseWriter, r *http.Request) {
	tok := h.svc.IssueToken()
	response.OK(w, tokenData{
		Token:  tok.ID,
		Expiry: tok.Expiry.UTC().Format(time.RFC3339),
	})
}

// Upload godoc
//
//	@Summary		Upload image
//	@Description	Store one image using a token from /generate-token. The token is consumed only if the image is stored.
//	@Tags			collage
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			token	formData	string	true	"Upload token"
//	@Param			image	formData	file	true	"Image file (jpg, jpeg, png, gif, bmp)"
//	@Success		200		{object}	response.Envelope{data=uploadData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, fmt.Sprintf("File too large. Maximum size is %dMB", h.maxBytes>>20))
			return
		}
		response.BadRequest(w, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	var (
		body     io.Reader
		filename string
	)
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		body = file
		filename = header.Filename
	}

	obj, err := h.svc.Upload(r.Context(), r.FormValue("token"), filename, body)
	switch {
	case err == nil:
	case errors.Is(err, admission.ErrInvalidToken):
		response.Unauthorized(w, "Invalid token")
		return
	case errors.Is(err, admission.ErrTokenExpiredOrUsed):
		response.Unauthorized(w, "Token expired or used")
		return
	case errors.Is(err, admission.ErrTokenInUse):
		response.Conflict(w, "Token is already being used by another upload")
		return
	case errors.Is(err, ErrNoImage):
		response.BadRequest(w, "No image provided")
		return
	case errors.Is(err, ErrFileTooLarge):
		response.BadRequest(w, fmt.Sprintf("File too large. Maximum size is %dMB", h.maxBytes>>20))
		return
	case errors.Is(err, ErrInvalidFileType):
		response.BadRequest(w, err.Error())
		return
	default:
		log.Printf("upload: %v", err)
		response.Error(w, http.StatusInternalServerError, "Upload to storage failed. Please try again.")
		return
	}

	response.OK(w, uploadData{
		Filename: obj.Name,
		Size:     obj.Size,
		Message:  "Image uploaded successfully!",
	})
}

// ListImages godoc
//
//	@Summary		List images
//	@Description	Return the name and size of every stored image.
//	@Tags			collage
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=imagesData}
//	@Failure		500	{object}	response.Envelope
//	@Router			/images [get]
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.svc.ListImages(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, imagesData{Images: images, Count: len(images)})
}

// Reset godoc
//
//	@Summary		Reset collage
//	@Description	Delete every stored image and invalidate all outstanding tokens.
//	@Tags			collage
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=messageData}
//	@Failure		500	{object}	response.Envelope
//	@Router			/reset [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		log.Printf("reset: %v", err)
		response.InternalError(w)
		return
	}
	response.OK(w, messageData{Message: "Collage reset successfully"})
}
