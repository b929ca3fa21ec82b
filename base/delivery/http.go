package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/domaindao/goapi/domain"
	"github.com/domaindao/goapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound) {
			status = http.StatusNotFound
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}

// MakeErrResp maps an error onto its http status: validation 400,
// not found 404, state conflict 409, confirmation mismatch 422.
func MakeErrResp(c echo.Context, err error) error {
	return MakeJsonResp(c, statusOf(err), err)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, query.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidExpiration),
		errors.Is(err, domain.ErrInvalidNumberFormat),
		errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrHashMismatch),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrAmountMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicateListing),
		errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrAlreadyInactive),
		errors.Is(err, domain.ErrListingInactive),
		errors.Is(err, domain.ErrListingExpired),
		errors.Is(err, domain.ErrSaleInFlight),
		errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrAuctionInactive),
		errors.Is(err, domain.ErrAuctionStillActive),
		errors.Is(err, domain.ErrAuctionHasBids),
		errors.Is(err, domain.ErrAlreadyEnded),
		errors.Is(err, domain.ErrAuctionNotEnded),
		errors.Is(err, domain.ErrOfferExpired),
		errors.Is(err, domain.ErrOfferTerminal),
		errors.Is(err, domain.ErrOfferNotAccepted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
