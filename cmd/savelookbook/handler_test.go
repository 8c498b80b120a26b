package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	applookbook "github.com/storefront/backend/internal/application/lookbook"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockSaver struct {
	mock.Mock
}

func (m *mockSaver) Save(ctx context.Context, req applookbook.SaveLookbookRequest) (*applookbook.SaveLookbookResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*applookbook.SaveLookbookResult), args.Error(1)
}

func TestHandle(t *testing.T) {
	ctx := context.Background()
	body := `{"lookPayload":{"title":"Phòng ngủ tối giản","category_id":"` + uuid.NewString() + `"},"lookItems":[]}`

	t.Run("preflight", func(t *testing.T) {
		saver := new(mockSaver)
		h := &apiHandler{saver: saver, log: zap.NewNop()}

		resp, err := h.handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
		assert.Equal(t, "POST, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
		saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("save", func(t *testing.T) {
		saver := new(mockSaver)
		lookID := uuid.New()
		saver.On("Save", mock.Anything, mock.Anything).
			Return(&applookbook.SaveLookbookResult{Success: true, LookID: lookID}, nil)
		h := &apiHandler{saver: saver, log: zap.NewNop()}

		resp, err := h.handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: body})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Headers["Content-Type"])
		assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
		assert.JSONEq(t, `{"success":true,"lookId":"`+lookID.String()+`"}`, resp.Body)
	})

	t.Run("base64 body", func(t *testing.T) {
		saver := new(mockSaver)
		saver.On("Save", mock.Anything, mock.MatchedBy(func(req applookbook.SaveLookbookRequest) bool {
			return req.LookPayload.Title == "Phòng ngủ tối giản"
		})).Return(&applookbook.SaveLookbookResult{Success: true, LookID: uuid.New()}, nil)
		h := &apiHandler{saver: saver, log: zap.NewNop()}

		resp, err := h.handle(ctx, events.APIGatewayProxyRequest{
			HTTPMethod:      http.MethodPost,
			Body:            base64.StdEncoding.EncodeToString([]byte(body)),
			IsBase64Encoded: true,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		saver.AssertExpectations(t)
	})

	t.Run("missing field", func(t *testing.T) {
		saver := new(mockSaver)
		saver.On("Save", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_INPUT", "category_id is required"))
		h := &apiHandler{saver: saver, log: zap.NewNop()}

		resp, err := h.handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: body})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"category_id is required"}`, resp.Body)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := &apiHandler{saver: new(mockSaver), log: zap.NewNop()}

		resp, err := h.handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: "{"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	})

	t.Run("other methods are not allowed", func(t *testing.T) {
		saver := new(mockSaver)
		h := &apiHandler{saver: saver, log: zap.NewNop()}

		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			resp, err := h.handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: method, Body: body})
			require.NoError(t, err)
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
			assert.JSONEq(t, `{"error":"Method not allowed"}`, resp.Body)
			assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
		}
		saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("logs carry the gateway request id", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		saver := new(mockSaver)
		saver.On("Save", mock.Anything, mock.Anything).
			Return(&applookbook.SaveLookbookResult{Success: true, LookID: uuid.New()}, nil)
		h := &apiHandler{saver: saver, log: zap.New(core)}

		_, err := h.handle(ctx, events.APIGatewayProxyRequest{
			HTTPMethod:     http.MethodPost,
			Body:           body,
			RequestContext: events.APIGatewayProxyRequestContext{RequestID: "gw-123"},
		})
		require.NoError(t, err)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "gw-123", logs.All()[0].ContextMap()["request_id"])
	})
}
