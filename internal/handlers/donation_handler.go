package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fwrp/backend/internal/models"
	"github.com/fwrp/backend/internal/services"
)

// DonationHandler is the CRUD surface over food listings, with image
// ingestion folded into create and update.
type DonationHandler struct {
	donations   services.DonationStore
	users       services.UserDirectory
	media       services.MediaStore
	maxUploadMB int64
}

func NewDonationHandler(donations services.DonationStore, users services.UserDirectory, media services.MediaStore, maxUploadMB int64) *DonationHandler {
	return &DonationHandler{
		donations:   donations,
		users:       users,
		media:       media,
		maxUploadMB: maxUploadMB,
	}
}

func (h *DonationHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("File too large or invalid form data"))
		return
	}

	req := models.CreateDonationRequest{
		FoodName:           r.FormValue("foodName"),
		Description:        r.FormValue("description"),
		Location:           r.FormValue("location"),
		ExpiryDate:         r.FormValue("expiryDate"),
		PickupInstructions: r.FormValue("pickupInstructions"),
		UserID:             r.FormValue("userId"),
	}

	fieldErrs := req.Validate()
	file, header, err := r.FormFile("image")
	if err != nil {
		fieldErrs["image"] = "Image is required"
	} else {
		defer file.Close()
	}
	if len(fieldErrs) > 0 {
		log.Printf("[CreateDonation] validation errors: %v", fieldErrs)
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing required fields"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	imageURL, err := h.media.Upload(ctx, "donated_food", header.Filename, file)
	if err != nil {
		log.Printf("[CreateDonation] image upload error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	// Best-effort denormalization of the donor's avatar; lookup failures
	// leave it empty.
	avatar := ""
	if prof, err := h.users.GetByID(ctx, req.UserID); err == nil {
		avatar = prof.Avatar
	}

	donation := &models.Donation{
		FoodName:           req.FoodName,
		Description:        req.Description,
		Location:           req.Location,
		ExpiryDate:         req.ExpiryDate,
		PickupInstructions: req.PickupInstructions,
		ImageURL:           imageURL,
		UserID:             req.UserID,
		Avatar:             avatar,
		CreatedAt:          models.NowISO(),
	}

	id, err := h.donations.Create(ctx, donation)
	if err != nil {
		log.Printf("[CreateDonation] store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	log.Printf("[CreateDonation] donation created: %s", id)
	writeJSON(w, http.StatusCreated, models.CreateDonationResponse{Success: true, ID: id})
}

func (h *DonationHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	donations, err := h.donations.List(ctx)
	if err != nil {
		log.Printf("[ListDonations] store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	writeJSON(w, http.StatusOK, models.DonationList{Donations: donations})
}

func (h *DonationHandler) GetDonation(w http.ResponseWriter, r *http.Request) {
	donationID := chi.URLParam(r, "donationId")

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	donation, err := h.donations.GetByID(ctx, donationID)
	if err != nil {
		if err == services.ErrDonationNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Donation not found"))
			return
		}
		log.Printf("[GetDonation] store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	writeJSON(w, http.StatusOK, donation)
}

// UpdateDonation accepts either a JSON field patch or a multipart patch with
// an optional replacement image. The previous image is not removed from the
// media store. No ownership check is performed; the clients hide the edit
// controls from non-owners.
func (h *DonationHandler) UpdateDonation(w http.ResponseWriter, r *http.Request) {
	donationID := chi.URLParam(r, "donationId")

	var patch models.DonationPatch

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)
		if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("File too large or invalid form data"))
			return
		}

		// The edit form posts the food name under "title".
		patch.FoodName = formValue(r, "title")
		patch.Description = formValue(r, "description")
		patch.Location = formValue(r, "location")
		patch.ExpiryDate = formValue(r, "expiryDate")
		patch.PickupInstructions = formValue(r, "pickupInstructions")

		if file, header, err := r.FormFile("foodImage"); err == nil {
			defer file.Close()

			ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
			imageURL, uerr := h.media.Upload(ctx, "donated_food", header.Filename, file)
			cancel()
			if uerr != nil {
				log.Printf("[UpdateDonation] image upload error: %v", uerr)
				writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
				return
			}
			patch.ImageURL = &imageURL
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
			return
		}
	}

	fields := patch.Fields()
	if len(fields) > 0 {
		ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
		defer cancel()

		if err := h.donations.Patch(ctx, donationID, fields); err != nil {
			log.Printf("[UpdateDonation] store error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
			return
		}
	}

	resp := models.UpdateDonationResponse{Success: true}
	if patch.ImageURL != nil {
		resp.ImageURL = *patch.ImageURL
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DonationHandler) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	donationID := chi.URLParam(r, "donationId")

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	// No cleanup of the associated media object.
	if err := h.donations.Delete(ctx, donationID); err != nil {
		log.Printf("[DeleteDonation] store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse())
}

// DeleteDonationByQuery handles DELETE /donated-food?id=<id>, the form the
// dashboard uses.
func (h *DonationHandler) DeleteDonationByQuery(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing donation id"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := h.donations.Delete(ctx, id); err != nil {
		log.Printf("[DeleteDonationByQuery] store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse())
}

// formValue returns a pointer to the form value when the field was present
// in the submission, nil otherwise, so absent fields are not written.
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
