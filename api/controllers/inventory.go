package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tsrs-robotics/robolab-backend/api/middleware"
	"github.com/tsrs-robotics/robolab-backend/api/responses"
	"github.com/tsrs-robotics/robolab-backend/api/validators"
	"github.com/tsrs-robotics/robolab-backend/internal/inventory"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
	"github.com/tsrs-robotics/robolab-backend/pkg/logger"
)

type adjustRequest struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
	Type   string    `json:"type" validate:"required,oneof=IN OUT"`
	Qty    int       `json:"qty" validate:"required,min=1"`
	Note   string    `json:"note" validate:"max=500"`
}

type issueKitRequest struct {
	KitID uuid.UUID `json:"kit_id" validate:"required"`
	Sets  int       `json:"sets" validate:"omitempty,min=1"`
}

// InventoryAdjust applies a manual stock movement and records it in the ledger.
func InventoryAdjust(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var body adjustRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txType, err := enums.ParseTransactionType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
			return
		}

		entry, err := svc.Adjust(r.Context(), inventory.AdjustInput{
			ItemID:   body.ItemID,
			Type:     txType,
			Qty:      body.Qty,
			Username: middleware.UsernameFromContext(r.Context()),
			Note:     body.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// InventoryIssueKit deducts every component of a kit atomically.
func InventoryIssueKit(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var body issueKitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.IssueKit(r.Context(), inventory.IssueKitInput{
			KitID:    body.KitID,
			Sets:     body.Sets,
			Username: middleware.UsernameFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
