package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lightbnb/lightbnb/internal/mq"
	"github.com/lightbnb/lightbnb/internal/services"
	"github.com/lightbnb/lightbnb/types"
	"github.com/rs/zerolog"
)

// PropertyHandler provides HTTP handlers for property search and creation.
type PropertyHandler struct {
	dal    *services.DataAccess
	events EventPublisher
	log    zerolog.Logger
}

func NewPropertyHandler(dal *services.DataAccess, events EventPublisher, log zerolog.Logger) *PropertyHandler {
	return &PropertyHandler{dal: dal, events: events, log: log}
}

// PropertyRouter registers property routes on the given router.
func PropertyRouter(r chi.Router, dal *services.DataAccess, events EventPublisher, log zerolog.Logger) {
	handler := NewPropertyHandler(dal, events, log)

	r.Get("/", handler.ListProperties)
	r.Post("/", handler.CreateProperty)
}

// PropertyListResponse is the search response payload.
type PropertyListResponse struct {
	Items []types.PropertyListing `json:"items"`
	Limit int                     `json:"limit"`
}

// CreatePropertyRequest is the payload for POST /properties. Costs are in
// cents. Active defaults to true.
type CreatePropertyRequest struct {
	OwnerID           int    `json:"owner_id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	ThumbnailPhotoURL string `json:"thumbnail_photo_url"`
	CoverPhotoURL     string `json:"cover_photo_url"`
	CostPerNight      int    `json:"cost_per_night"`
	ParkingSpaces     int    `json:"parking_spaces"`
	NumberOfBathrooms int    `json:"number_of_bathrooms"`
	NumberOfBedrooms  int    `json:"number_of_bedrooms"`
	Address           string `json:"address"`
	City              string `json:"city"`
	Province          string `json:"province"`
	Country           string `json:"country"`
	PostCode          string `json:"post_code"`
	Active            *bool  `json:"active"`
}

func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePropertyFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit = services.ClampLimit(limit)

	listings, err := h.dal.GetAllProperties(r.Context(), filter, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list properties")
		return
	}
	writeJSON(w, http.StatusOK, PropertyListResponse{Items: listings, Limit: limit})
}

func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	owner, err := h.dal.GetPropertyOwner(r.Context(), req.OwnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check owner")
		return
	}
	if owner == nil {
		writeError(w, http.StatusBadRequest, "owner not found")
		return
	}

	created, err := h.dal.AddProperty(r.Context(), req.property())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create property")
		return
	}

	publish(r.Context(), h.events, h.log, mq.ChannelPropertyCreated, created)
	writeJSON(w, http.StatusCreated, created)
}

func (req *CreatePropertyRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.OwnerID < 1:
		return errors.New("invalid owner_id")
	case req.Name == "":
		return errors.New("name is required")
	case req.CostPerNight < 0:
		return errors.New("invalid cost_per_night")
	case req.ParkingSpaces < 0, req.NumberOfBathrooms < 0, req.NumberOfBedrooms < 0:
		return errors.New("room counts must not be negative")
	}
	return nil
}

func (req *CreatePropertyRequest) property() types.Property {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return types.Property{
		OwnerID:           req.OwnerID,
		Name:              req.Name,
		Description:       req.Description,
		ThumbnailPhotoURL: req.ThumbnailPhotoURL,
		CoverPhotoURL:     req.CoverPhotoURL,
		CostPerNight:      req.CostPerNight,
		ParkingSpaces:     req.ParkingSpaces,
		NumberOfBathrooms: req.NumberOfBathrooms,
		NumberOfBedrooms:  req.NumberOfBedrooms,
		Address:           req.Address,
		City:              req.City,
		Province:          req.Province,
		Country:           req.Country,
		PostCode:          req.PostCode,
		Active:            active,
	}
}

// parsePropertyFilter reads the optional search options. Absent options
// stay nil. A present zero is still applied.
func parsePropertyFilter(r *http.Request) (types.PropertyFilter, error) {
	query := r.URL.Query()
	var filter types.PropertyFilter

	if city := strings.TrimSpace(query.Get("city")); city != "" {
		filter.City = &city
	}

	var err error
	if filter.OwnerID, err = optionalInt(query.Get("owner_id"), "owner_id"); err != nil {
		return types.PropertyFilter{}, err
	}
	if filter.MinimumPricePerNight, err = optionalInt(query.Get("minimum_price_per_night"), "minimum_price_per_night"); err != nil {
		return types.PropertyFilter{}, err
	}
	if filter.MaximumPricePerNight, err = optionalInt(query.Get("maximum_price_per_night"), "maximum_price_per_night"); err != nil {
		return types.PropertyFilter{}, err
	}
	if err := filter.Validate(); err != nil {
		return types.PropertyFilter{}, err
	}

	if raw := strings.TrimSpace(query.Get("minimum_rating")); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 {
			return types.PropertyFilter{}, errors.New("invalid minimum_rating")
		}
		filter.MinimumRating = &rating
	}

	return filter, nil
}

func optionalInt(raw, name string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil, errors.New("invalid " + name)
	}
	return &value, nil
}
