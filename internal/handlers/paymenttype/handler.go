package paymenttype

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/ZerkerEOD/paytypes-backend/internal/config"
	"github.com/ZerkerEOD/paytypes-backend/internal/models"
	"github.com/ZerkerEOD/paytypes-backend/internal/upload"
	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/ZerkerEOD/paytypes-backend/pkg/httputil"
	"github.com/go-playground/validator/v10"
)

// Form fields of the create request
const (
	AvatarField = "avatar"
	NameField   = "name"
)

// Response messages
const (
	MsgListFailed   = "Erreur lors de la récupération des types de paiément"
	MsgCreateFailed = "Erreur lors de l'ajout du type de paiement"
	MsgCreated      = "Payment type created successfully"
)

// Store is the persistence needed by the handler
type Store interface {
	List(ctx context.Context) ([]models.PaymentTypeSummary, error)
	Create(ctx context.Context, paymentType *models.PaymentType) error
}

// Handler serves the payment type resource
type Handler struct {
	store    Store
	uploader *upload.Uploader
	validate *validator.Validate
}

// NewHandler creates a new payment type handler
func NewHandler(store Store, uploader *upload.Uploader) *Handler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		store:    store,
		uploader: uploader,
		validate: validate,
	}
}

// HandleListPaymentTypes returns the name and image of every payment type
func (h *Handler) HandleListPaymentTypes(w http.ResponseWriter, r *http.Request) {
	debug.Debug("Listing payment types")

	paymentTypes, err := h.store.List(r.Context())
	if err != nil {
		debug.Error("Failed to list payment types: %v", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, MsgListFailed)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, paymentTypes)
}

/*
 * HandleCreatePaymentType stores the uploaded avatar image and persists a new payment type.
 *
 * Request: multipart/form-data with a file in "avatar" and the text field "name".
 *
 * Responses:
 *   - 201: record created
 *   - 500: upload rejected or failed, invalid name, or database failure.
 *          The message names the reason.
 *
 * The stored image is removed whenever the record is not created.
 */
func (h *Handler) HandleCreatePaymentType(w http.ResponseWriter, r *http.Request) {
	debug.Info("Received payment type creation request")

	stored, err := h.uploader.For(config.CategoryImage).Accept(r, AvatarField)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		debug.Error("Payment type upload failed: %v", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, uploadFailureMessage(err))
		return
	}

	req := models.CreatePaymentTypeRequest{
		Name: strings.TrimSpace(r.FormValue(NameField)),
	}
	if err := h.validate.Struct(req); err != nil {
		debug.Error("Invalid payment type request: %v", err)
		h.discard(stored)
		httputil.RespondWithError(w, http.StatusInternalServerError, validationMessage(err))
		return
	}

	paymentType := &models.PaymentType{
		Name:  req.Name,
		Image: stored.Path,
	}
	if err := h.store.Create(r.Context(), paymentType); err != nil {
		debug.Error("Failed to create payment type %s: %v", req.Name, err)
		h.discard(stored)
		httputil.RespondWithError(w, http.StatusInternalServerError, MsgCreateFailed)
		return
	}

	debug.Info("Created payment type %d (%s)", paymentType.ID, paymentType.Name)
	httputil.RespondWithMessage(w, http.StatusCreated, MsgCreated)
}

func (h *Handler) discard(stored *upload.StoredFile) {
	if err := h.uploader.Remove(stored); err != nil {
		debug.Warning("Failed to remove upload %s: %v", stored.Path, err)
	}
}

// uploadFailureMessage maps an upload error to its client message
func uploadFailureMessage(err error) string {
	switch {
	case errors.Is(err, upload.ErrFileTypeNotAllowed):
		return "File type not allowed"
	case errors.Is(err, upload.ErrFileTooLarge):
		return "File too large"
	case errors.Is(err, upload.ErrMissingFile):
		return "No file uploaded"
	case errors.Is(err, upload.ErrInvalidForm):
		return "Invalid multipart form"
	default:
		return "Failed to store uploaded file"
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
