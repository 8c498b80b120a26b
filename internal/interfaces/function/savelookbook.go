// Package function holds the request handling shared by the HTTP
// function route and the Lambda entrypoint of the save-lookbook function.
package function

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	applookbook "github.com/storefront/backend/internal/application/lookbook"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CORSHeaders are sent with every function response, preflight included.
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
}

// LookbookSaver is satisfied by *applookbook.Service.
type LookbookSaver interface {
	Save(ctx context.Context, req applookbook.SaveLookbookRequest) (*applookbook.SaveLookbookResult, error)
}

// ErrorBody is the JSON body of a failed call.
type ErrorBody struct {
	Error string `json:"error"`
}

// SuccessBody is the JSON body of a successful call.
type SuccessBody struct {
	Success bool      `json:"success"`
	LookID  uuid.UUID `json:"lookId"`
}

// Result is a status code plus a JSON-encodable body.
type Result struct {
	Status int
	Body   any
}

// SaveLookbook decodes body and runs the save. Malformed JSON and missing
// required fields answer 400; every other failure answers 500 with the
// error message. It logs through the logger attached to ctx.
func SaveLookbook(ctx context.Context, saver LookbookSaver, body []byte) Result {
	log := logger.FromContext(ctx)

	var req applookbook.SaveLookbookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return Result{Status: http.StatusBadRequest, Body: ErrorBody{Error: "Invalid JSON body"}}
	}

	res, err := saver.Save(ctx, req)
	if err != nil {
		if domainErr, ok := shared.AsDomainError(err); ok && domainErr.Code == shared.ErrInvalidInput.Code {
			return Result{Status: http.StatusBadRequest, Body: ErrorBody{Error: domainErr.Message}}
		}
		log.Error("Save lookbook failed", zap.Error(err))
		return Result{Status: http.StatusInternalServerError, Body: ErrorBody{Error: err.Error()}}
	}

	log.Info("Lookbook saved", zap.String("look_id", res.LookID.String()), zap.Int("items", len(req.LookItems)))
	return Result{Status: http.StatusOK, Body: SuccessBody{Success: true, LookID: res.LookID}}
}
