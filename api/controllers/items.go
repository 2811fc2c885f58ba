package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tsrs-robotics/robolab-backend/api/middleware"
	"github.com/tsrs-robotics/robolab-backend/api/responses"
	"github.com/tsrs-robotics/robolab-backend/api/validators"
	"github.com/tsrs-robotics/robolab-backend/internal/items"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
	"github.com/tsrs-robotics/robolab-backend/pkg/logger"
)

const (
	maxQueryLen      = 120
	maxImportBodyLen = 5 << 20
)

type itemCreateRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=120"`
	Category  string `json:"category" validate:"max=120"`
	Quantity  int    `json:"quantity" validate:"min=0"`
	Threshold int    `json:"threshold" validate:"min=0"`
	Location  string `json:"location" validate:"max=120"`
}

func (r itemCreateRequest) toInput() items.CreateItemInput {
	return items.CreateItemInput{
		Name:      r.Name,
		Category:  r.Category,
		Quantity:  r.Quantity,
		Threshold: r.Threshold,
		Location:  r.Location,
	}
}

type itemUpdateRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Category  *string `json:"category,omitempty" validate:"omitempty,max=120"`
	Threshold *int    `json:"threshold,omitempty" validate:"omitempty,min=0"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=120"`
}

func (r itemUpdateRequest) toInput() items.UpdateItemInput {
	return items.UpdateItemInput{
		Name:      r.Name,
		Category:  r.Category,
		Threshold: r.Threshold,
		Location:  r.Location,
	}
}

// ItemCreate registers a new catalog entry and seeds its opening stock.
func ItemCreate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		var body itemCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.UsernameFromContext(r.Context())
		item, err := svc.Create(r.Context(), body.toInput(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ItemList returns catalog entries matching the optional filters.
func ItemList(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		filters := items.Filters{
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen),
			Category: validators.SanitizeString(r.URL.Query().Get("category"), maxQueryLen),
			Location: validators.SanitizeString(r.URL.Query().Get("location"), maxQueryLen),
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ItemDetail fetches a single item by id.
func ItemDetail(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		id, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// ItemUpdate adjusts the mutable catalog fields. Stock levels only change
// through inventory adjustments.
func ItemUpdate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		id, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body itemUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// ItemLowStock lists items at or below their threshold with suggested
// reorder quantities.
func ItemLowStock(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		list, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ItemPurchaseOrderCSV streams a purchase order covering every low-stock item.
func ItemPurchaseOrderCSV(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		payload, err := svc.PurchaseOrderCSV(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCSV(w, "purchase_order.csv", payload)
	}
}

// ItemImportCSV bulk-loads catalog rows from an uploaded CSV file. The file
// may arrive as a multipart "file" part or as the raw request body.
func ItemImportCSV(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		reader, closeFn, err := importPayload(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFn()

		actor := middleware.UsernameFromContext(r.Context())
		summary, err := svc.ImportCSV(r.Context(), reader, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

func importPayload(r *http.Request) (io.Reader, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBodyLen); err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "missing file upload")
		}
		return file, func() { file.Close() }, nil
	}
	limited := io.LimitReader(r.Body, maxImportBodyLen)
	return limited, func() { io.Copy(io.Discard, r.Body) }, nil
}

func itemIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "itemId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return id, nil
}

func writeCSV(w http.ResponseWriter, filename string, payload []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
