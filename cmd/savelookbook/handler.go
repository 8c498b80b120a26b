package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/function"
	"go.uber.org/zap"
)

type apiHandler struct {
	saver function.LookbookSaver
	log   *zap.Logger
}

func (h *apiHandler) handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod == http.MethodOptions {
		return respond(http.StatusOK, "ok"), nil
	}
	if req.HTTPMethod != http.MethodPost {
		return respondJSON(http.StatusMethodNotAllowed, function.ErrorBody{Error: "Method not allowed"}), nil
	}

	ctx = logger.WithContext(ctx, h.log)
	if id := req.RequestContext.RequestID; id != "" {
		ctx = logger.WithRequestID(ctx, id)
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return respondJSON(http.StatusBadRequest, function.ErrorBody{Error: "Invalid JSON body"}), nil
		}
		body = decoded
	}

	res := function.SaveLookbook(ctx, h.saver, body)
	return respondJSON(res.Status, res.Body), nil
}

func respondJSON(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		data, _ = json.Marshal(function.ErrorBody{Error: err.Error()})
		status = http.StatusInternalServerError
	}
	resp := respond(status, string(data))
	resp.Headers["Content-Type"] = "application/json"
	return resp
}

func respond(status int, body string) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(function.CORSHeaders)+1)
	for k, v := range function.CORSHeaders {
		headers[k] = v
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers, Body: body}
}
